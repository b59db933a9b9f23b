package dto

import (
	"time"

	"quadra_host_v1/internal/model"
)

// ==================== 会话 ====================

// DraftSessionResponse 草稿会话响应
type DraftSessionResponse struct {
	SessionID string            `json:"session_id"`
	Step      string            `json:"step"`
	Draft     *model.CourtDraft `json:"draft"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ==================== 导航 ====================

// ContinueResponse 前进响应
type ContinueResponse struct {
	Step     string   `json:"step"`
	Terminal bool     `json:"terminal"`           // 是否到达终点，可以发布
	Warnings []string `json:"warnings,omitempty"` // 软提示，不阻断
}

// BackResponse 回退响应
type BackResponse struct {
	Step string `json:"step"`
}

// GoToRequest 跳转请求
type GoToRequest struct {
	Step string `json:"step" binding:"required"`
}

// ==================== 照片 ====================

// AddPhotosRequest 追加照片请求
// 引用可以是 http(s) URL 或 base64 data URL
type AddPhotosRequest struct {
	Photos []string `json:"photos" binding:"required,min=1"`
}

// ==================== 发布 ====================

// PublishResponse 发布响应
type PublishResponse struct {
	Court    *CourtInfo `json:"court"`
	Warnings []string   `json:"warnings,omitempty"`
}
