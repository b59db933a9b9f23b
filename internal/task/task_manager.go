package task

import (
	"log"
	"time"

	"quadra_host_v1/internal/repository"
	"quadra_host_v1/internal/service"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台维护任务
// 管理范围：向导会话清理、孤儿资产回收
type TaskManager struct {
	sessionTask *SessionSweepTask
	assetTask   *AssetSweepTask
}

// TaskManagerDeps 任务管理器依赖
type TaskManagerDeps struct {
	DraftService *service.DraftService
	AssetRepo    repository.AssetRepository
	Storage      service.StorageProvider
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	// 会话清理
	SessionSweepEnabled bool
	SessionIdleTimeout  time.Duration

	// 孤儿资产回收
	AssetSweepEnabled bool
	AssetMinAge       time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		SessionSweepEnabled: true,
		SessionIdleTimeout:  24 * time.Hour,

		AssetSweepEnabled: true,
		AssetMinAge:       24 * time.Hour,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps *TaskManagerDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{}

	if cfg.SessionSweepEnabled && deps.DraftService != nil {
		tm.sessionTask = NewSessionSweepTask(deps.DraftService)
		if cfg.SessionIdleTimeout > 0 {
			tm.sessionTask.SetIdleTimeout(cfg.SessionIdleTimeout)
		}
	}

	if cfg.AssetSweepEnabled && deps.AssetRepo != nil && deps.Storage != nil {
		tm.assetTask = NewAssetSweepTask(deps.AssetRepo, deps.Storage)
		if cfg.AssetMinAge > 0 {
			tm.assetTask.SetMinAge(cfg.AssetMinAge)
		}
	}

	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() {
	log.Println("[TaskManager] 正在启动后台维护任务...")

	if tm.sessionTask != nil {
		tm.sessionTask.Start()
	}
	if tm.assetTask != nil {
		tm.assetTask.Start()
	}

	log.Println("[TaskManager] 后台维护任务已全部启动")
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	log.Println("[TaskManager] 正在停止后台维护任务...")

	if tm.sessionTask != nil {
		tm.sessionTask.Stop()
	}
	if tm.assetTask != nil {
		tm.assetTask.Stop()
	}

	log.Println("[TaskManager] 后台维护任务已全部停止")
}

// ==================== 状态查询 ====================

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"session_sweep": tm.sessionTask != nil,
		"asset_sweep":   tm.assetTask != nil,
	}
}
