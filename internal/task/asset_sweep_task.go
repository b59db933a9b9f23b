package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"quadra_host_v1/internal/repository"
	"quadra_host_v1/internal/service"
)

// ==================== AssetSweepTask 孤儿资产回收任务 ====================

// AssetSweepTask 回收上传成功但最终没挂上任何球场的对象
// 发布失败不回滚已上传的图片，靠这里兜底
type AssetSweepTask struct {
	assetRepo repository.AssetRepository
	storage   service.StorageProvider
	cron      *cron.Cron

	minAge    time.Duration // 资产至少存在多久才算孤儿
	batchSize int
}

func NewAssetSweepTask(assetRepo repository.AssetRepository, storage service.StorageProvider) *AssetSweepTask {
	return &AssetSweepTask{
		assetRepo: assetRepo,
		storage:   storage,
		cron:      cron.New(cron.WithSeconds()),
		minAge:    24 * time.Hour, // 留够重试发布的时间窗口
		batchSize: 100,
	}
}

// SetMinAge 设置孤儿判定时间
func (t *AssetSweepTask) SetMinAge(d time.Duration) {
	t.minAge = d
}

// Start 启动定时任务
func (t *AssetSweepTask) Start() {
	_, err := t.cron.AddFunc("0 30 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		t.SweepOnce(ctx)
	})
	if err != nil {
		log.Fatalf("无法启动孤儿资产回收任务: %v", err)
	}

	t.cron.Start()
	log.Println("[Task] 孤儿资产回收任务已启动 (每天 03:30 执行)")
}

// Stop 停止任务
func (t *AssetSweepTask) Stop() {
	t.cron.Stop()
}

// SweepOnce 执行一轮回收，返回回收数量
func (t *AssetSweepTask) SweepOnce(ctx context.Context) int {
	before := time.Now().Add(-t.minAge)

	orphans, err := t.assetRepo.FindOrphans(ctx, before, t.batchSize)
	if err != nil {
		log.Printf("[Cron] 孤儿资产查询失败: %v", err)
		return 0
	}
	if len(orphans) == 0 {
		return 0
	}

	removed := 0
	for _, asset := range orphans {
		// 存储删除失败时保留记录，下一轮再试
		if err := t.storage.Delete(ctx, asset.StorageKey); err != nil {
			log.Printf("[Cron] 删除存储对象失败 key=%s: %v", asset.StorageKey, err)
			continue
		}
		if err := t.assetRepo.Delete(ctx, asset.ID); err != nil {
			log.Printf("[Cron] 删除资产记录失败 id=%d: %v", asset.ID, err)
			continue
		}
		removed++
	}

	log.Printf("[Cron] 孤儿资产回收完成：%d/%d", removed, len(orphans))
	return removed
}
