package flow

import (
	"errors"
	"fmt"

	"quadra_host_v1/internal/model"
)

// ErrNoNextStep 终点步骤没有 continue 出边
var ErrNoNextStep = errors.New("已是终点步骤，没有后续步骤")

// ==================== 导航图 ====================

// Condition 转移条件，nil 表示无条件
type Condition func(d *model.CourtDraft) bool

// Edge 一条 continue 转移边
type Edge struct {
	From Step
	Next Step
	When Condition // 同一 From 的多条边按声明顺序匹配，先命中先走
}

// isCondo 空间类型分流条件：选择 condo 分类进入 condo 子流程
func isCondo(d *model.CourtDraft) bool {
	return d.Category == model.CategoryCondo
}

// edges 整个向导的转移表
// 把散落在各屏幕里的跳转集中成一张可检查、可测试的表；
// space-type 是唯一的分流点
var edges = []Edge{
	{From: StepIntro, Next: StepIdentity},
	{From: StepIdentity, Next: StepLocation},
	{From: StepLocation, Next: StepSpaceType},

	// 分流：condo 走子流程，其余走私人场主流程
	{From: StepSpaceType, Next: StepCondoIntro, When: isCondo},
	{From: StepSpaceType, Next: StepStructure},

	{From: StepStructure, Next: StepAmenities},
	{From: StepAmenities, Next: StepPhotos},
	{From: StepPhotos, Next: StepTitle},
	{From: StepTitle, Next: StepHighlights},
	{From: StepHighlights, Next: StepDescription},
	{From: StepDescription, Next: StepReservation},

	{From: StepReservation, Next: StepFirstGuest},
	{From: StepFirstGuest, Next: StepPricingPlans},
	{From: StepPricingPlans, Next: StepWeekendUplift},
	{From: StepWeekendUplift, Next: StepOperatingHours},
	{From: StepOperatingHours, Next: StepDiscounts},
	{From: StepDiscounts, Next: StepVerification},

	{From: StepVerification, Next: StepSafety},
	{From: StepSafety, Next: StepHostAddress},
	{From: StepHostAddress, Next: StepBusinessType},
	{From: StepBusinessType, Next: StepPublish},

	// condo 子流程
	{From: StepCondoIntro, Next: StepCondoAccess},
	{From: StepCondoAccess, Next: StepCondoSuccess},
}

// ==================== 查询接口 ====================

// NextStep 计算从 from 出发的下一步
// 终点步骤没有出边，返回错误
func NextStep(from Step, d *model.CourtDraft) (Step, error) {
	if IsTerminal(from) {
		return "", fmt.Errorf("%w: %s", ErrNoNextStep, from)
	}
	for _, e := range edges {
		if e.From != from {
			continue
		}
		if e.When == nil || e.When(d) {
			return e.Next, nil
		}
	}
	return "", fmt.Errorf("未知步骤: %s", from)
}

// KnownStep 步骤是否在导航图中（出现在任一边的端点）
func KnownStep(s Step) bool {
	for _, e := range edges {
		if e.From == s || e.Next == s {
			return true
		}
	}
	return false
}

// Steps 返回图中全部步骤（去重，按首次出现顺序）
func Steps() []Step {
	seen := make(map[Step]bool)
	var out []Step
	for _, e := range edges {
		for _, s := range []Step{e.From, e.Next} {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
