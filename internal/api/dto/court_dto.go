package dto

import "time"

// ==================== 球场 ====================

// CourtInfo 球场信息
type CourtInfo struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Sport       string   `json:"sport"`
	Sports      []string `json:"sports"`
	Type        string   `json:"type"`

	Address    string `json:"address"`
	Number     string `json:"number"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`

	Amenities  []string `json:"amenities"`
	Images     []string `json:"images"`
	CoverImage string   `json:"cover_image,omitempty"`

	Capacity      int `json:"capacity"`
	CourtCount    int `json:"court_count"`
	BenchCount    int `json:"bench_count"`
	RestroomCount int `json:"restroom_count"`

	PricePerHour        float64 `json:"price_per_hour"`
	WeekendPricePerHour float64 `json:"weekend_price_per_hour"`

	Details map[string]interface{} `json:"details,omitempty"`

	IsActive   bool      `json:"is_active"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// ==================== 列表 ====================

// CourtListRequest 球场列表请求
type CourtListRequest struct {
	City       string `form:"city"`
	OnlyActive bool   `form:"only_active"`
	Page       int    `form:"page,default=1"`
	PageSize   int    `form:"page_size,default=20"`
}

// CourtListResponse 球场列表响应
type CourtListResponse struct {
	List  []*CourtInfo `json:"list"`
	Total int64        `json:"total"`
}
