package flow

import (
	"fmt"
	"regexp"

	"quadra_host_v1/internal/model"
)

// ==================== 步骤校验器 ====================
// 每个步骤一个纯布尔判定，只看自己负责的字段；
// 校验失败仅阻塞前进，不产生系统错误

// Validator 步骤校验函数
type Validator func(d *model.CourtDraft) bool

// cpfPattern CPF 固定格式掩码 000.000.000-00
var cpfPattern = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

// validators 有前进门槛的步骤；不在表中的步骤无条件放行
var validators = map[Step]Validator{
	// 基础信息：名称长度 > 3 且至少选择一个运动项目
	StepIdentity: func(d *model.CourtDraft) bool {
		return len(d.Name) > 3 && len(d.Sports) > 0
	},

	// 位置：结构化地址各字段齐全，州为两位缩写
	StepLocation: func(d *model.CourtDraft) bool {
		return len(d.Address) > 5 && d.Number != "" && d.City != "" && len(d.State) == 2
	},

	// 空间类型：必须完成分类选择
	StepSpaceType: func(d *model.CourtDraft) bool {
		return d.Category != ""
	},

	// 标题：1..32 字符
	StepTitle: func(d *model.CourtDraft) bool {
		return len(d.Name) >= 1 && len(d.Name) <= 32
	},

	// 亮点：最多 2 个
	StepHighlights: func(d *model.CourtDraft) bool {
		return len(d.Highlights) <= MaxHighlights
	},

	// 介绍：1..500 字符
	StepDescription: func(d *model.CourtDraft) bool {
		return len(d.Description) >= 1 && len(d.Description) <= 500
	},

	// 定价方案：至少启用一个
	StepPricingPlans: func(d *model.CourtDraft) bool {
		return d.PricingPlans.AnyEnabled()
	},

	// 身份核验：CPF 符合掩码且已上传证件照
	StepVerification: func(d *model.CourtDraft) bool {
		return cpfPattern.MatchString(d.OwnerTaxID) && d.OwnerDocPhoto != ""
	},

	// 企业类型：必须回答（可为是或否）
	StepBusinessType: func(d *model.CourtDraft) bool {
		return d.IsRegisteredBusiness != nil
	},

	// condo 准入方式：必须选择目录内的一种
	StepCondoAccess: func(d *model.CourtDraft) bool {
		return ValidCondoAccessMode(d.CondoAccessMode)
	},
}

// ValidateStep 执行单个步骤的校验；无校验器的步骤始终通过
func ValidateStep(s Step, d *model.CourtDraft) bool {
	v, ok := validators[s]
	if !ok {
		return true
	}
	return v(d)
}

// StepWarnings 步骤的软性提示（不阻塞前进）
// 照片步骤保留"建议至少 5 张"的提示而不强制，与客户端行为一致
func StepWarnings(s Step, d *model.CourtDraft) []string {
	var warnings []string
	if s == StepPhotos && len(d.Photos) < RecommendedMinPhotos {
		warnings = append(warnings,
			fmt.Sprintf("建议至少上传 %d 张照片（当前 %d 张）", RecommendedMinPhotos, len(d.Photos)))
	}
	return warnings
}

// ValidateAll 重跑所有步骤校验，返回第一个未通过的步骤
// 发布前复检用：恢复会话后早期步骤的字段可能已被改坏
func ValidateAll(d *model.CourtDraft) (Step, bool) {
	for _, s := range Steps() {
		// condo 子流程与私人主流程互斥，跳过另一分支的校验
		if d.Category == model.CategoryCondo {
			if s == StepVerification || s == StepBusinessType ||
				s == StepTitle || s == StepDescription || s == StepPricingPlans {
				continue
			}
		} else if s == StepCondoAccess {
			continue
		}
		if !ValidateStep(s, d) {
			return s, false
		}
	}
	return "", true
}
