package service

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"quadra_host_v1/internal/flow"
	"quadra_host_v1/internal/model"
)

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func f64Ptr(f float64) *float64  { return &f }
func boolPtr(b bool) *bool       { return &b }

// ==================== 会话生命周期 ====================

func TestDraftService_OpenDefaults(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	if session.ID == "" || session.SubmitKey == "" {
		t.Fatal("会话 ID 和幂等键不能为空")
	}
	if session.Step != flow.EntryStep {
		t.Errorf("新会话应停在入口步骤: %s", session.Step)
	}

	d := session.Draft
	if d.WeekdayPrice != 180 || d.WeekendUpliftPercent != 10 {
		t.Errorf("默认价格不正确: %v / %v", d.WeekdayPrice, d.WeekendUpliftPercent)
	}
	if d.Capacity != 1 || d.CourtCount != 1 {
		t.Errorf("默认结构数不正确")
	}
	if !d.Discounts.NewListing {
		t.Error("新上架折扣默认应开启")
	}
	if d.HostAddress.Country != "Brasil" {
		t.Errorf("默认国家不正确: %s", d.HostAddress.Country)
	}
	if d.ReservationPolicy != model.ReservationApproveFirstN || d.FirstGuestPolicy != model.FirstGuestAny {
		t.Error("默认预订策略不正确")
	}
	if len(d.OperatingHours) != 7 || !d.OperatingHours["monday"].Enabled ||
		d.OperatingHours["monday"].Open != "06:00" || d.OperatingHours["monday"].Close != "22:00" {
		t.Errorf("默认营业时间不正确: %v", d.OperatingHours)
	}
}

func TestDraftService_Ownership(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	if _, err := svc.Get(session.ID, 2); !errors.Is(err, ErrSessionForbidden) {
		t.Errorf("他人访问应被拒绝: %v", err)
	}
	if _, err := svc.Get("no-such-session", 1); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("不存在的会话应报未找到: %v", err)
	}
}

func TestDraftService_AbandonDiscardsDraft(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	if _, err := svc.Merge(session.ID, 1, &model.DraftPatch{Name: strPtr("Quadra Azul")}); err != nil {
		t.Fatalf("合并失败: %v", err)
	}
	if err := svc.Abandon(session.ID, 1); err != nil {
		t.Fatalf("放弃失败: %v", err)
	}
	if _, err := svc.Get(session.ID, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Error("放弃后会话不应存在")
	}

	// 重新开启后回到默认值
	fresh := svc.Open(1)
	if fresh.Draft.Name != "" {
		t.Error("新会话不应继承旧草稿")
	}
}

func TestDraftService_SweepExpired(t *testing.T) {
	svc := NewDraftService()
	old := svc.Open(1)
	fresh := svc.Open(1)

	svc.mu.Lock()
	svc.sessions[old.ID].UpdatedAt = time.Now().Add(-2 * time.Hour)
	svc.mu.Unlock()

	if removed := svc.SweepExpired(time.Hour); removed != 1 {
		t.Fatalf("清理数量不正确: %d", removed)
	}
	if _, err := svc.Get(old.ID, 1); !errors.Is(err, ErrSessionNotFound) {
		t.Error("过期会话应被清理")
	}
	if _, err := svc.Get(fresh.ID, 1); err != nil {
		t.Error("未过期会话不应被清理")
	}
}

// ==================== 合并语义 ====================

func TestMerge_DisjointPatchesCommute(t *testing.T) {
	pa := &model.DraftPatch{Name: strPtr("Quadra Central"), Sports: []string{"tennis"}}
	pb := &model.DraftPatch{City: strPtr("São Paulo"), Capacity: intPtr(8)}

	svcAB := NewDraftService()
	ab := svcAB.Open(1)
	svcAB.Merge(ab.ID, 1, pa)
	svcAB.Merge(ab.ID, 1, pb)

	svcBA := NewDraftService()
	ba := svcBA.Open(1)
	svcBA.Merge(ba.ID, 1, pb)
	svcBA.Merge(ba.ID, 1, pa)

	da, _ := svcAB.Get(ab.ID, 1)
	db, _ := svcBA.Get(ba.ID, 1)
	if !reflect.DeepEqual(da.Draft, db.Draft) {
		t.Error("不相交补丁的合并结果应与顺序无关")
	}
}

func TestMerge_UntouchedFieldsKept(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	svc.Merge(session.ID, 1, &model.DraftPatch{Name: strPtr("Quadra Verde")})
	draft, err := svc.Merge(session.ID, 1, &model.DraftPatch{City: strPtr("Campinas")})
	if err != nil {
		t.Fatalf("合并失败: %v", err)
	}

	if draft.Name != "Quadra Verde" {
		t.Error("未出现在补丁中的字段被改动了")
	}
	if draft.WeekdayPrice != 180 {
		t.Error("默认价格被改动了")
	}
}

func TestMerge_UpliftClamped(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	draft, _ := svc.Merge(session.ID, 1, &model.DraftPatch{WeekendUpliftPercent: intPtr(250)})
	if draft.WeekendUpliftPercent != 100 {
		t.Errorf("上浮应钳制到 100: %d", draft.WeekendUpliftPercent)
	}

	draft, _ = svc.Merge(session.ID, 1, &model.DraftPatch{WeekendUpliftPercent: intPtr(-5)})
	if draft.WeekendUpliftPercent != 0 {
		t.Errorf("上浮应钳制到 0: %d", draft.WeekendUpliftPercent)
	}
}

// ==================== 照片操作 ====================

func TestPhotos_CoverPromotion(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	draft, err := svc.AddPhotos(session.ID, 1, []string{"p0", "p1", "p2"})
	if err != nil {
		t.Fatalf("追加照片失败: %v", err)
	}
	if draft.CoverPhoto() != "p0" {
		t.Errorf("封面应为第一张: %s", draft.CoverPhoto())
	}

	draft, _ = svc.RemovePhoto(session.ID, 1, 0)
	if draft.CoverPhoto() != "p1" {
		t.Errorf("删除封面后第二张应晋升: %s", draft.CoverPhoto())
	}

	// 越界下标安静忽略
	draft, _ = svc.RemovePhoto(session.ID, 1, 99)
	if len(draft.Photos) != 2 {
		t.Errorf("越界删除不应改动照片: %v", draft.Photos)
	}
}

// ==================== 导航 ====================

func TestContinue_BlockedByValidator(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	// 入口步骤无校验，直接前进到 info
	res, err := svc.Continue(session.ID, 1)
	if err != nil {
		t.Fatalf("入口前进失败: %v", err)
	}
	if res.Step != flow.StepIdentity {
		t.Fatalf("入口应前进到基础信息: %s", res.Step)
	}

	// info 步骤缺少名称，应被校验拦住
	if _, err := svc.Continue(session.ID, 1); !errors.Is(err, ErrStepInvalid) {
		t.Fatalf("未通过校验时应返回 ErrStepInvalid: %v", err)
	}

	// 补齐之后放行
	svc.Merge(session.ID, 1, &model.DraftPatch{Name: strPtr("Quadra Central"), Sports: []string{"tennis"}})
	res, err = svc.Continue(session.ID, 1)
	if err != nil {
		t.Fatalf("补齐后前进失败: %v", err)
	}
	if res.Step != flow.StepLocation {
		t.Errorf("应前进到位置步骤: %s", res.Step)
	}
}

func TestContinue_PhotoWarningWhenLeaving(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	// 进入照片步骤时不提示，照片本来就还没传
	if err := svc.GoTo(session.ID, 1, flow.StepAmenities); err != nil {
		t.Fatalf("跳转失败: %v", err)
	}
	res, err := svc.Continue(session.ID, 1)
	if err != nil {
		t.Fatalf("前进失败: %v", err)
	}
	if res.Step != flow.StepPhotos {
		t.Fatalf("应前进到照片步骤: %s", res.Step)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("进入照片步骤不应产生提示: %v", res.Warnings)
	}

	// 少于建议张数时，离开照片步骤要带上软提示
	svc.AddPhotos(session.ID, 1, []string{"p0", "p1"})
	res, err = svc.Continue(session.ID, 1)
	if err != nil {
		t.Fatalf("前进失败: %v", err)
	}
	if res.Step != flow.StepTitle {
		t.Fatalf("应前进到标题步骤: %s", res.Step)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("照片不足时离开应有一条提示: %v", res.Warnings)
	}
}

func TestBack_HistoryPop(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	// 入口原地回退
	step, err := svc.Back(session.ID, 1)
	if err != nil {
		t.Fatalf("回退失败: %v", err)
	}
	if step != flow.EntryStep {
		t.Errorf("入口回退应原地不动: %s", step)
	}

	svc.Continue(session.ID, 1)
	step, _ = svc.Back(session.ID, 1)
	if step != flow.EntryStep {
		t.Errorf("回退应回到入口: %s", step)
	}
}

func TestGoTo_UnknownStep(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	if err := svc.GoTo(session.ID, 1, flow.Step("private/teleport")); !errors.Is(err, ErrUnknownStep) {
		t.Errorf("未知步骤应报错: %v", err)
	}
	if err := svc.GoTo(session.ID, 1, flow.StepPhotos); err != nil {
		t.Errorf("跳到已知步骤应成功: %v", err)
	}
}

// ==================== 发布互斥 ====================

func TestBeginPublish_Reentrancy(t *testing.T) {
	svc := NewDraftService()
	session := svc.Open(1)

	if err := session.BeginPublish(); err != nil {
		t.Fatalf("首次占锁失败: %v", err)
	}
	if err := session.BeginPublish(); !errors.Is(err, ErrPublishInFlight) {
		t.Fatalf("重入应失败: %v", err)
	}

	session.EndPublish()
	if err := session.BeginPublish(); err != nil {
		t.Errorf("释放后应可再次占锁: %v", err)
	}
}
