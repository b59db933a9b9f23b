package middleware

import (
	"fmt"
	"sync"
	"time"
)

// ==================== ActionRateLimiter 动作限流器 ====================

// ActionRateLimiter 按用户维度的动作限流器
// 防止客户端频繁触发发布或批量上传
type ActionRateLimiter struct {
	locks sync.Map // key -> *lockEntry
}

// lockEntry 锁条目
type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

// 全局限流器实例
var globalLimiter = &ActionRateLimiter{}

// GetLimiter 获取全局限流器
func GetLimiter() *ActionRateLimiter {
	return globalLimiter
}

// ==================== 限流检查 ====================

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 剩余冷却时间
}

// Check 检查是否允许执行
// key: 限流键，如 "user:123:publish"
// interval: 冷却间隔
func (r *ActionRateLimiter) Check(key string, interval time.Duration) CheckResult {
	// 获取或创建锁条目
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(entry.lastTime)

	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	// 更新最后执行时间
	entry.lastTime = now
	return CheckResult{
		Allowed:    true,
		RetryAfter: 0,
	}
}

// CheckOnly 仅检查，不更新时间
func (r *ActionRateLimiter) CheckOnly(key string, interval time.Duration) CheckResult {
	actual, ok := r.locks.Load(key)
	if !ok {
		return CheckResult{Allowed: true}
	}

	entry := actual.(*lockEntry)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{
			Allowed:    false,
			RetryAfter: interval - elapsed,
		}
	}

	return CheckResult{Allowed: true}
}

// Reset 重置指定 key 的限流
func (r *ActionRateLimiter) Reset(key string) {
	r.locks.Delete(key)
}

// ==================== Key 生成工具 ====================

// ActionType 动作类型
type ActionType string

const (
	ActionPublish ActionType = "publish"
	ActionUpload  ActionType = "upload"
)

// UserActionKey 生成用户级动作 Key
func UserActionKey(userID int64, action ActionType) string {
	return fmt.Sprintf("user:%d:%s", userID, action)
}

// ==================== 默认限流间隔 ====================

// DefaultIntervals 默认限流间隔配置
var DefaultIntervals = map[ActionType]time.Duration{
	ActionPublish: 10 * time.Second, // 发布：两次之间至少间隔 10 秒
	ActionUpload:  2 * time.Second,  // 批量上传
}

// GetInterval 获取动作的默认间隔
func GetInterval(action ActionType) time.Duration {
	if interval, ok := DefaultIntervals[action]; ok {
		return interval
	}
	return 5 * time.Second
}
