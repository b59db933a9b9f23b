package flow

// Step 向导步骤标识
type Step string

// ==================== 私人球场主流程 ====================

const (
	StepIntro     Step = "private/intro"
	StepIdentity  Step = "private/info"
	StepLocation  Step = "private/location"
	StepSpaceType Step = "private/space-type"

	StepStructure   Step = "private/structure"
	StepAmenities   Step = "private/amenities"
	StepPhotos      Step = "private/photos"
	StepTitle       Step = "private/title"
	StepHighlights  Step = "private/highlights"
	StepDescription Step = "private/description"

	StepReservation    Step = "private/reservation-settings"
	StepFirstGuest     Step = "private/first-guest"
	StepPricingPlans   Step = "private/pricing-plans"
	StepWeekendUplift  Step = "private/price-weekend"
	StepOperatingHours Step = "private/operating-hours"
	StepDiscounts      Step = "private/discounts"

	StepVerification Step = "private/documents"
	StepSafety       Step = "private/safety"
	StepHostAddress  Step = "private/host-address"
	StepBusinessType Step = "private/business-type"

	// 终点：没有 continue 出边，触发发布编排器
	StepPublish Step = "private/publish"
)

// ==================== Condo 子流程 ====================

const (
	StepCondoIntro   Step = "condo/intro"
	StepCondoAccess  Step = "condo/access"
	StepCondoSuccess Step = "condo/success"
)

// EntryStep 向导入口
const EntryStep = StepIntro

// IsTerminal 是否终点步骤（无 continue 出边）
func IsTerminal(s Step) bool {
	return s == StepPublish || s == StepCondoSuccess
}
