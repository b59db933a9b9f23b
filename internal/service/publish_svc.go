package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"gorm.io/datatypes"

	"quadra_host_v1/internal/flow"
	"quadra_host_v1/internal/model"
	"quadra_host_v1/internal/repository"
	"quadra_host_v1/pkg/utils"
)

// ==================== 错误定义 ====================

var (
	ErrNotAuthenticated = errors.New("用户未登录")
	ErrDraftInvalid     = errors.New("草稿尚未填写完整")
	ErrNotAtPublishStep = errors.New("向导尚未走到发布步骤")
)

// FallbackSport 草稿未选运动项目时的兜底值
const FallbackSport = "tennis"

// ==================== 类型定义 ====================

// PublishResult 发布结果
type PublishResult struct {
	Court    *model.Court
	Warnings []string // 非阻断问题，例如部分照片上传被跳过
}

// PublishService 发布编排: 校验 -> 上传 -> 装配 -> 建记录 -> 收尾
// 失败时草稿原样保留，可修正后重试；成功后会话销毁
type PublishService struct {
	drafts  *DraftService
	uploads *UploadService
	courts  repository.CourtRepository
	assets  repository.AssetRepository
}

func NewPublishService(drafts *DraftService, uploads *UploadService, courts repository.CourtRepository, assets repository.AssetRepository) *PublishService {
	return &PublishService{
		drafts:  drafts,
		uploads: uploads,
		courts:  courts,
		assets:  assets,
	}
}

// ==================== 发布流程 ====================

func (s *PublishService) Publish(ctx context.Context, sessionID string, userID int64) (*PublishResult, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}

	session, err := s.drafts.Get(sessionID, userID)
	if err != nil {
		// 会话刚因发布成功销毁时，重复请求按幂等回放处理
		if errors.Is(err, ErrSessionNotFound) {
			if res := s.replayPublished(ctx, sessionID, userID); res != nil {
				return res, nil
			}
		}
		return nil, err
	}

	// 只有走到发布终点的会话才能发布；condo 子流程终止于 condo/success，不产生记录
	if session.CurrentStep() != flow.StepPublish {
		return nil, fmt.Errorf("%w: 当前在 %s", ErrNotAtPublishStep, session.CurrentStep())
	}

	// 重入保护：同一会话同一时刻只允许一次发布
	if err := session.BeginPublish(); err != nil {
		return nil, err
	}
	defer session.EndPublish()

	draft := session.Snapshot()

	// 发布前整体复查所有步骤，不信任客户端的逐步校验
	if failed, ok := flow.ValidateAll(&draft); !ok {
		return nil, fmt.Errorf("%w: 步骤 %s 未通过", ErrDraftInvalid, failed)
	}

	// 照片与证件照一批顺序上传，单张失败跳过不中断
	refs := append([]string{}, draft.Photos...)
	docIndex := -1
	if draft.OwnerDocPhoto != "" {
		docIndex = len(refs)
		refs = append(refs, draft.OwnerDocPhoto)
	}
	outcomes := s.uploads.UploadAll(ctx, userID, refs)

	photoOutcomes := outcomes
	docURL := ""
	if docIndex >= 0 {
		photoOutcomes = outcomes[:docIndex]
		if !outcomes[docIndex].Skipped {
			docURL = outcomes[docIndex].URL
		}
	}

	urls := SucceededURLs(photoOutcomes)
	warnings := append(flow.StepWarnings(flow.StepPhotos, &draft), collectUploadWarnings(photoOutcomes)...)

	court := s.assemble(&draft, userID, session.SubmitKey, urls, coverURL(photoOutcomes), docURL)

	created, err := s.courts.Create(ctx, court)
	if err != nil {
		// 草稿与会话原样保留，修正后可重试
		log.Printf("[Publish] 建球场失败 session=%s: %v", sessionID, err)
		return nil, fmt.Errorf("创建球场失败: %v", err)
	}

	attach := urls
	if docURL != "" {
		attach = append(append([]string{}, urls...), docURL)
	}
	if len(attach) > 0 {
		if err := s.assets.AttachToCourt(ctx, attach, created.ID); err != nil {
			log.Printf("[Publish] 资产挂接失败 court=%d: %v", created.ID, err)
		}
	}

	// 会话销毁后的重复请求靠这条缓存做幂等回放
	utils.SetCache(sessionID, strconv.FormatInt(created.ID, 10))

	// 成功后销毁会话，下次进入向导从默认值开始
	s.drafts.Complete(sessionID)
	log.Printf("[Publish] 球场发布成功 court=%d user=%d", created.ID, userID)

	return &PublishResult{Court: created, Warnings: warnings}, nil
}

// replayPublished 查最近发布缓存，把已成功会话的重复发布请求回放为成功结果
// 查不到或球场不属于请求者时返回 nil，走正常的会话不存在路径
func (s *PublishService) replayPublished(ctx context.Context, sessionID string, userID int64) *PublishResult {
	cached, ok := utils.GetCache(sessionID)
	if !ok {
		return nil
	}
	courtID, err := strconv.ParseInt(cached, 10, 64)
	if err != nil {
		return nil
	}
	court, err := s.courts.GetByID(ctx, courtID)
	if err != nil || court == nil || court.OwnerID != userID {
		return nil
	}
	log.Printf("[Publish] 重复发布请求回放 session=%s court=%d", sessionID, courtID)
	return &PublishResult{Court: court}
}

// ==================== 装配 ====================

// assemble 把草稿快照装配成球场记录
func (s *PublishService) assemble(d *model.CourtDraft, userID int64, submitKey string, urls []string, cover string, docURL string) *model.Court {
	sport := FallbackSport
	if len(d.Sports) > 0 {
		sport = d.Sports[0]
	}

	courtType := "private"
	if d.PrivacyType == model.PrivacyTypeCondo {
		courtType = model.PrivacyTypeCondo
	}

	country := d.HostAddress.Country
	if country == "" {
		country = "Brasil"
	}

	details := model.JSONMap{
		"pricing_plans":      d.PricingPlans,
		"operating_hours":    d.OperatingHours,
		"discounts":          d.Discounts,
		"safety":             d.Safety,
		"host_address":       d.HostAddress,
		"highlights":         d.Highlights,
		"reservation_policy": d.ReservationPolicy,
		"first_guest_policy": d.FirstGuestPolicy,
		"access_code":        d.AccessCode,
		"condo_access_mode":  d.CondoAccessMode,
	}
	if docURL != "" {
		details["document_url"] = docURL
	}
	if d.IsRegisteredBusiness != nil {
		details["is_registered_business"] = *d.IsRegisteredBusiness
	}

	// 草稿快照原文一并入库，便于排查发布后的数据问题
	raw, _ := json.Marshal(d)

	return &model.Court{
		OwnerID:   userID,
		SubmitKey: submitKey,

		Name:        d.Name,
		Description: d.Description,
		Sport:       sport,
		Sports:      model.StringSlice(d.Sports),
		Type:        courtType,

		Address:    d.Address,
		Number:     d.Number,
		PostalCode: d.PostalCode,
		City:       d.City,
		State:      d.State,
		Country:    country,
		Latitude:   d.Latitude,
		Longitude:  d.Longitude,

		Amenities:  model.StringSlice(d.Amenities),
		Images:     model.StringSlice(urls),
		CoverImage: cover,

		Capacity:      d.Capacity,
		CourtCount:    d.CourtCount,
		BenchCount:    d.BenchCount,
		RestroomCount: d.RestroomCount,

		PricePerHour:        d.WeekdayPrice,
		WeekendPricePerHour: d.WeekendPrice(),

		Details:  details,
		RawDraft: datatypes.JSON(raw),

		IsActive:   true,
		IsVerified: false,
	}
}

// coverURL 封面取第一张成功上传的照片
// 草稿里的第一张若上传失败，顺延到下一张成功的
func coverURL(outcomes []UploadOutcome) string {
	for _, o := range outcomes {
		if !o.Skipped {
			return o.URL
		}
	}
	return ""
}

func collectUploadWarnings(outcomes []UploadOutcome) []string {
	var warnings []string
	for i, o := range outcomes {
		if o.Skipped {
			warnings = append(warnings, fmt.Sprintf("第 %d 张照片上传被跳过: %s", i+1, o.Reason))
		}
	}
	return warnings
}
