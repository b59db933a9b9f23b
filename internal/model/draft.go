package model

import "math"

// ==================== 枚举常量 ====================

const (
	// 空间隐私类型
	PrivacyTypeCondo = "condo" // 封闭小区/公寓楼内
	PrivacyTypeHouse = "house" // 独立房产

	// 场地分类
	CategoryResidential = "residential"
	CategoryArena       = "arena"
	CategoryCondo       = "condo"

	// 预约策略
	ReservationApproveFirstN = "approve_first_5" // 前 N 单需要场主确认
	ReservationInstant       = "instant"         // 即时预约

	// 首次客人策略
	FirstGuestAny         = "any"
	FirstGuestExperienced = "experienced"
)

// ==================== 草稿值类型 ====================

// PlanConfig 单个定价方案
type PlanConfig struct {
	Enabled bool    `json:"enabled"`
	Price   float64 `json:"price"`
}

// PricingPlans 定价方案集合（按小时/日用/包日/月卡/小时包）
type PricingPlans struct {
	Hourly  PlanConfig `json:"hourly"`
	DayUse  PlanConfig `json:"day_use"`
	Daily   PlanConfig `json:"daily"`
	Monthly PlanConfig `json:"monthly"`
	Package PlanConfig `json:"package"`
}

// AnyEnabled 是否至少启用一个方案
func (p PricingPlans) AnyEnabled() bool {
	return p.Hourly.Enabled || p.DayUse.Enabled || p.Daily.Enabled ||
		p.Monthly.Enabled || p.Package.Enabled
}

// Discounts 折扣开关
type Discounts struct {
	NewListing bool `json:"new_listing"`
	LastMinute bool `json:"last_minute"`
	Weekly     bool `json:"weekly"`
	Monthly    bool `json:"monthly"`
}

// SafetyInfo 安全披露
type SafetyInfo struct {
	Camera       bool `json:"camera"`        // 室外摄像头
	NoiseMonitor bool `json:"noise_monitor"` // 噪音监测设备
	Weapons      bool `json:"weapons"`       // 场所内有武器
}

// DayHours 单日营业时段
type DayHours struct {
	Enabled bool   `json:"enabled"`
	Open    string `json:"open"`  // HH:00
	Close   string `json:"close"` // HH:00
}

// WeekDays 营业时间表的固定键序
var WeekDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// DefaultOperatingHours 默认营业时间：每天 06:00-22:00 开放
func DefaultOperatingHours() map[string]DayHours {
	hours := make(map[string]DayHours, len(WeekDays))
	for _, day := range WeekDays {
		hours[day] = DayHours{Enabled: true, Open: "06:00", Close: "22:00"}
	}
	return hours
}

// HostAddress 场主个人地址（不向客人展示）
type HostAddress struct {
	Country      string `json:"country"`
	Street       string `json:"street"`
	Unit         string `json:"unit"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

// ==================== CourtDraft 球场草稿 ====================

// CourtDraft 进行中的球场发布草稿
// 由单个编辑会话独占，逐步累积各步骤填写的字段，发布成功后重置
type CourtDraft struct {
	// 分类
	PrivacyType string `json:"privacy_type"` // condo | house，空串表示未选择
	Category    string `json:"category"`     // residential | arena | condo

	// 基础信息
	Name       string   `json:"name"`
	AccessCode string   `json:"access_code"`
	Sports     []string `json:"sports"`

	// 位置
	Address    string   `json:"address"`
	Number     string   `json:"number"`
	PostalCode string   `json:"postal_code"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	// 配套设施
	Amenities []string `json:"amenities"`

	// 媒体：Photos[0] 约定为封面图
	Photos []string `json:"photos"`

	// 结构
	Capacity      int `json:"capacity"`
	CourtCount    int `json:"court_count"`
	BenchCount    int `json:"bench_count"`
	RestroomCount int `json:"restroom_count"`

	// 介绍
	Highlights  []string `json:"highlights"` // 最多 2 个
	Description string   `json:"description"`

	// 商业条款
	ReservationPolicy    string              `json:"reservation_policy"`
	FirstGuestPolicy     string              `json:"first_guest_policy"`
	WeekdayPrice         float64             `json:"weekday_price"`
	WeekendUpliftPercent int                 `json:"weekend_uplift_percent"` // 始终钳制在 [0,100]
	PricingPlans         PricingPlans        `json:"pricing_plans"`
	OperatingHours       map[string]DayHours `json:"operating_hours"`
	Discounts            Discounts           `json:"discounts"`

	// 身份核验
	OwnerTaxID      string `json:"owner_tax_id"` // CPF，格式 000.000.000-00
	OwnerDocPhoto   string `json:"owner_doc_photo"`
	CondoAccessMode string `json:"condo_access_mode"` // condo 子流程的准入方式

	// 安全与场主信息
	Safety               SafetyInfo  `json:"safety"`
	HostAddress          HostAddress `json:"host_address"`
	IsRegisteredBusiness *bool       `json:"is_registered_business"` // nil = 未回答
}

// DefaultDraft 返回全新草稿（与客户端向导的初始值保持一致）
func DefaultDraft() CourtDraft {
	return CourtDraft{
		Sports:               []string{},
		Amenities:            []string{},
		Photos:               []string{},
		Highlights:           []string{},
		Capacity:             1,
		CourtCount:           1,
		ReservationPolicy:    ReservationApproveFirstN,
		FirstGuestPolicy:     FirstGuestAny,
		WeekdayPrice:         180,
		WeekendUpliftPercent: 10,
		PricingPlans: PricingPlans{
			Hourly: PlanConfig{Enabled: true, Price: 180},
		},
		OperatingHours: DefaultOperatingHours(),
		Discounts:   Discounts{NewListing: true},
		HostAddress: HostAddress{Country: "Brasil"},
	}
}

// WeekendPrice 周末价格 = round(工作日价 * (1 + 上浮百分比/100))
func (d *CourtDraft) WeekendPrice() float64 {
	return math.Round(d.WeekdayPrice * (1 + float64(d.WeekendUpliftPercent)/100))
}

// AddPhotos 追加照片
func (d *CourtDraft) AddPhotos(refs ...string) {
	d.Photos = append(d.Photos, refs...)
}

// RemovePhoto 按下标移除照片；移除下标 0 时，原下标 1 自动晋升为封面
func (d *CourtDraft) RemovePhoto(index int) bool {
	if index < 0 || index >= len(d.Photos) {
		return false
	}
	d.Photos = append(d.Photos[:index], d.Photos[index+1:]...)
	return true
}

// CoverPhoto 当前封面图引用，无照片时返回空串
func (d *CourtDraft) CoverPhoto() string {
	if len(d.Photos) == 0 {
		return ""
	}
	return d.Photos[0]
}

// ==================== DraftPatch 部分更新 ====================

// DraftPatch 草稿合并补丁：指针字段为 nil 表示不修改
// 逐字段浅合并，后写覆盖先写，字段之间互不影响
type DraftPatch struct {
	PrivacyType *string  `json:"privacy_type,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Name        *string  `json:"name,omitempty"`
	AccessCode  *string  `json:"access_code,omitempty"`
	Sports      []string `json:"sports,omitempty"`

	Address    *string  `json:"address,omitempty"`
	Number     *string  `json:"number,omitempty"`
	PostalCode *string  `json:"postal_code,omitempty"`
	City       *string  `json:"city,omitempty"`
	State      *string  `json:"state,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	Amenities []string `json:"amenities,omitempty"`

	Capacity      *int `json:"capacity,omitempty"`
	CourtCount    *int `json:"court_count,omitempty"`
	BenchCount    *int `json:"bench_count,omitempty"`
	RestroomCount *int `json:"restroom_count,omitempty"`

	Highlights  []string `json:"highlights,omitempty"`
	Description *string  `json:"description,omitempty"`

	ReservationPolicy    *string             `json:"reservation_policy,omitempty"`
	FirstGuestPolicy     *string             `json:"first_guest_policy,omitempty"`
	WeekdayPrice         *float64            `json:"weekday_price,omitempty"`
	WeekendUpliftPercent *int                `json:"weekend_uplift_percent,omitempty"`
	PricingPlans         *PricingPlans       `json:"pricing_plans,omitempty"`
	OperatingHours       map[string]DayHours `json:"operating_hours,omitempty"`
	Discounts            *Discounts          `json:"discounts,omitempty"`

	OwnerTaxID      *string `json:"owner_tax_id,omitempty"`
	OwnerDocPhoto   *string `json:"owner_doc_photo,omitempty"`
	CondoAccessMode *string `json:"condo_access_mode,omitempty"`

	Safety               *SafetyInfo  `json:"safety,omitempty"`
	HostAddress          *HostAddress `json:"host_address,omitempty"`
	IsRegisteredBusiness *bool        `json:"is_registered_business,omitempty"`
}

// Apply 将补丁合并进草稿
// 合并后对 WeekendUpliftPercent 做 [0,100] 钳制
func (d *CourtDraft) Apply(p *DraftPatch) {
	if p == nil {
		return
	}

	setString(&d.PrivacyType, p.PrivacyType)
	setString(&d.Category, p.Category)
	setString(&d.Name, p.Name)
	setString(&d.AccessCode, p.AccessCode)
	if p.Sports != nil {
		d.Sports = p.Sports
	}

	setString(&d.Address, p.Address)
	setString(&d.Number, p.Number)
	setString(&d.PostalCode, p.PostalCode)
	setString(&d.City, p.City)
	setString(&d.State, p.State)
	if p.Latitude != nil {
		d.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		d.Longitude = p.Longitude
	}

	if p.Amenities != nil {
		d.Amenities = p.Amenities
	}

	setInt(&d.Capacity, p.Capacity)
	setInt(&d.CourtCount, p.CourtCount)
	setInt(&d.BenchCount, p.BenchCount)
	setInt(&d.RestroomCount, p.RestroomCount)

	if p.Highlights != nil {
		d.Highlights = p.Highlights
	}
	setString(&d.Description, p.Description)

	setString(&d.ReservationPolicy, p.ReservationPolicy)
	setString(&d.FirstGuestPolicy, p.FirstGuestPolicy)
	if p.WeekdayPrice != nil {
		d.WeekdayPrice = *p.WeekdayPrice
	}
	setInt(&d.WeekendUpliftPercent, p.WeekendUpliftPercent)
	if p.PricingPlans != nil {
		d.PricingPlans = *p.PricingPlans
		// 兼容字段：小时方案启用时同步基础工作日价
		if p.PricingPlans.Hourly.Enabled && p.PricingPlans.Hourly.Price > 0 {
			d.WeekdayPrice = p.PricingPlans.Hourly.Price
		}
	}
	if p.OperatingHours != nil {
		d.OperatingHours = p.OperatingHours
	}
	if p.Discounts != nil {
		d.Discounts = *p.Discounts
	}

	setString(&d.OwnerTaxID, p.OwnerTaxID)
	setString(&d.OwnerDocPhoto, p.OwnerDocPhoto)
	setString(&d.CondoAccessMode, p.CondoAccessMode)

	if p.Safety != nil {
		d.Safety = *p.Safety
	}
	if p.HostAddress != nil {
		d.HostAddress = *p.HostAddress
	}
	if p.IsRegisteredBusiness != nil {
		d.IsRegisteredBusiness = p.IsRegisteredBusiness
	}

	// 不变量：上浮百分比钳制
	if d.WeekendUpliftPercent < 0 {
		d.WeekendUpliftPercent = 0
	}
	if d.WeekendUpliftPercent > 100 {
		d.WeekendUpliftPercent = 100
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
