package task

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"quadra_host_v1/internal/service"
)

// ==================== SessionSweepTask 会话清理任务 ====================

// SessionSweepTask 定期清理空闲过久的向导会话
// 草稿只活在内存里，不清理会一直涨
type SessionSweepTask struct {
	draftService *service.DraftService
	cron         *cron.Cron

	idleTimeout time.Duration
}

func NewSessionSweepTask(draftService *service.DraftService) *SessionSweepTask {
	return &SessionSweepTask{
		draftService: draftService,
		cron:         cron.New(cron.WithSeconds()), // 支持秒级控制
		idleTimeout:  24 * time.Hour,               // 场主中途离开，给一整天继续填
	}
}

// SetIdleTimeout 设置空闲超时
func (t *SessionSweepTask) SetIdleTimeout(d time.Duration) {
	t.idleTimeout = d
}

// Start 启动定时任务
func (t *SessionSweepTask) Start() {
	_, err := t.cron.AddFunc("0 */10 * * * *", func() {
		t.sweepJob()
	})
	if err != nil {
		log.Fatalf("无法启动会话清理任务: %v", err)
	}

	t.cron.Start()
	log.Println("[Task] 会话清理任务已启动 (每10分钟检查一次)")
}

// Stop 停止任务
func (t *SessionSweepTask) Stop() {
	t.cron.Stop()
}

func (t *SessionSweepTask) sweepJob() {
	removed := t.draftService.SweepExpired(t.idleTimeout)
	if removed > 0 {
		log.Printf("[Cron] 清理空闲向导会话 %d 个", removed)
	}
}
