package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"quadra_host_v1/internal/flow"
	"quadra_host_v1/internal/model"
)

// ==================== 错误定义 ====================

var (
	ErrSessionNotFound  = errors.New("草稿会话不存在或已过期")
	ErrSessionForbidden = errors.New("无权访问该草稿会话")
	ErrPublishInFlight  = errors.New("发布正在进行中")
	ErrStepInvalid      = errors.New("当前步骤校验未通过")
	ErrUnknownStep      = errors.New("未知的向导步骤")
)

// ==================== 类型定义 ====================

// DraftSession 一次开设球场向导的服务端会话
// 发布成功或主动放弃后即销毁，不落库
type DraftSession struct {
	ID        string
	UserID    int64
	Draft     model.CourtDraft
	Step      flow.Step
	History   []flow.Step // 已走过的步骤，供回退
	SubmitKey string      // 发布幂等键，整个会话期间不变
	CreatedAt time.Time
	UpdatedAt time.Time

	publishing bool
	mu         sync.Mutex
}

// ContinueResult 前进一步的结果
type ContinueResult struct {
	Step     flow.Step
	Warnings []string // 不阻断的软提示，例如照片少于建议张数
	Terminal bool
}

// DraftService 草稿会话管理
type DraftService struct {
	mu       sync.RWMutex
	sessions map[string]*DraftSession
}

func NewDraftService() *DraftService {
	return &DraftService{
		sessions: make(map[string]*DraftSession),
	}
}

// ==================== 会话生命周期 ====================

// Open 开启一个新的向导会话，草稿从默认值开始
func (s *DraftService) Open(userID int64) *DraftSession {
	session := &DraftSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Draft:     model.DefaultDraft(),
		Step:      flow.EntryStep,
		SubmitKey: uuid.NewString(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	log.Printf("[Draft] 新建会话 session=%s user=%d", session.ID, userID)
	return session
}

// Get 获取会话并校验归属
func (s *DraftService) Get(sessionID string, userID int64) (*DraftSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, ErrSessionForbidden
	}
	return session, nil
}

// Abandon 放弃会话，草稿数据随之丢弃
func (s *DraftService) Abandon(sessionID string, userID int64) error {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, session.ID)
	s.mu.Unlock()

	log.Printf("[Draft] 会话已放弃 session=%s", sessionID)
	return nil
}

// Complete 发布成功后关闭会话
func (s *DraftService) Complete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// SweepExpired 清理超过空闲时限的会话，返回清理数量
func (s *DraftService) SweepExpired(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[Draft] 清理过期会话 %d 个", removed)
	}
	return removed
}

// ==================== 草稿编辑 ====================

// Merge 把补丁合并进草稿，未出现的字段保持不变
func (s *DraftService) Merge(sessionID string, userID int64, patch *model.DraftPatch) (*model.CourtDraft, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.Draft.Apply(patch)
	session.UpdatedAt = time.Now()

	draft := session.Draft
	return &draft, nil
}

// AddPhotos 追加照片引用
func (s *DraftService) AddPhotos(sessionID string, userID int64, refs []string) (*model.CourtDraft, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.Draft.AddPhotos(refs...)
	session.UpdatedAt = time.Now()

	draft := session.Draft
	return &draft, nil
}

// RemovePhoto 按下标删除照片，下标越界不报错
func (s *DraftService) RemovePhoto(sessionID string, userID int64, index int) (*model.CourtDraft, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.Draft.RemovePhoto(index)
	session.UpdatedAt = time.Now()

	draft := session.Draft
	return &draft, nil
}

// ==================== 向导导航 ====================

// Continue 校验当前步骤并前进
// 校验失败返回 ErrStepInvalid，停在原地
func (s *DraftService) Continue(sessionID string, userID int64) (*ContinueResult, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !flow.ValidateStep(session.Step, &session.Draft) {
		return nil, ErrStepInvalid
	}

	next, err := flow.NextStep(session.Step, &session.Draft)
	if err != nil {
		return nil, err
	}

	// 软提示针对刚通过校验、正要离开的步骤
	warnings := flow.StepWarnings(session.Step, &session.Draft)

	session.History = append(session.History, session.Step)
	session.Step = next
	session.UpdatedAt = time.Now()

	return &ContinueResult{
		Step:     next,
		Warnings: warnings,
		Terminal: flow.IsTerminal(next),
	}, nil
}

// Back 回退到上一步，已在入口时原地不动
func (s *DraftService) Back(sessionID string, userID int64) (flow.Step, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return "", err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if len(session.History) == 0 {
		return session.Step, nil
	}

	last := len(session.History) - 1
	session.Step = session.History[last]
	session.History = session.History[:last]
	session.UpdatedAt = time.Now()

	return session.Step, nil
}

// GoTo 直接跳到某个已知步骤 (客户端恢复进度用)
func (s *DraftService) GoTo(sessionID string, userID int64, step flow.Step) error {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return err
	}
	if !flow.KnownStep(step) {
		return ErrUnknownStep
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.History = append(session.History, session.Step)
	session.Step = step
	session.UpdatedAt = time.Now()
	return nil
}

// ==================== 发布互斥 ====================

// BeginPublish 占住发布锁，重入直接失败
func (session *DraftSession) BeginPublish() error {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.publishing {
		return ErrPublishInFlight
	}
	session.publishing = true
	return nil
}

// EndPublish 释放发布锁
func (session *DraftSession) EndPublish() {
	session.mu.Lock()
	session.publishing = false
	session.mu.Unlock()
}

// CurrentStep 当前所在步骤
func (session *DraftSession) CurrentStep() flow.Step {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.Step
}

// Snapshot 取草稿副本，发布流程基于副本装配，失败时草稿原样保留
func (session *DraftSession) Snapshot() model.CourtDraft {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.Draft
}
