// Package scheduler 是触发器的宿主执行平台：
// 按间隔轮询到期的一次性时间触发器，并在每次提交时分发事件触发器。
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/internal/model"
	"github.com/michaelos02/mroFormLimiter/internal/repository"
)

// Event 触发时传给处理器的上下文
type Event struct {
	TriggerID string
	Handler   model.HandlerName
	FormID    string
	FiredAt   time.Time
}

// HandlerFunc 触发器处理器，运行到结束，结果被丢弃
type HandlerFunc func(ctx context.Context, evt Event)

// Scheduler 触发器执行器
// 所有处理器在同一 goroutine 中串行执行
type Scheduler struct {
	triggers repository.TriggerRepository
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger

	mu       sync.RWMutex
	handlers map[model.HandlerName]HandlerFunc

	// run 保证轮询与事件分发不会并发调用处理器
	run sync.Mutex

	stop chan struct{}
	done chan struct{}
}

// New 创建 Scheduler
func New(triggers repository.TriggerRepository, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		triggers: triggers,
		interval: interval,
		now:      time.Now,
		logger:   logger,
		handlers: make(map[model.HandlerName]HandlerFunc),
	}
}

// Register 绑定处理器名与处理函数，重复注册会覆盖
func (s *Scheduler) Register(name model.HandlerName, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = fn
}

func (s *Scheduler) handler(name model.HandlerName) (HandlerFunc, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.handlers[name]
	return fn, ok
}

// Start 启动轮询循环，Stop 或 ctx 取消时退出
func (s *Scheduler) Start(ctx context.Context) {
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("触发器调度已启动", zap.Duration("interval", s.interval))
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.RunDue(ctx)
			}
		}
	}()
}

// Stop 停止轮询并等待当前一轮执行结束
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	s.logger.Info("触发器调度已停止")
}

// RunDue 执行所有到期的时间触发器，返回执行数量
// 时间触发器是一次性的：先删除再调用处理器
func (s *Scheduler) RunDue(ctx context.Context) int {
	s.run.Lock()
	defer s.run.Unlock()

	now := s.now()
	due, err := s.triggers.ListDue(ctx, now)
	if err != nil {
		s.logger.Error("查询到期触发器失败", zap.Error(err))
		return 0
	}

	fired := 0
	for i := range due {
		t := &due[i]
		fn, ok := s.handler(t.HandlerName)
		if !ok {
			s.logger.Debug("触发器无已注册处理器，跳过",
				zap.String("trigger_id", t.TriggerID),
				zap.String("handler", string(t.HandlerName)),
			)
			continue
		}

		if err := s.triggers.Delete(ctx, t); err != nil {
			s.logger.Error("删除到期触发器失败，本轮不执行",
				zap.String("trigger_id", t.TriggerID),
				zap.Error(err),
			)
			continue
		}

		s.invoke(ctx, fn, Event{
			TriggerID: t.TriggerID,
			Handler:   t.HandlerName,
			FiredAt:   now,
		})
		fired++
	}
	return fired
}

// DispatchSubmission 对绑定到 formID 的事件触发器逐个调用处理器
func (s *Scheduler) DispatchSubmission(ctx context.Context, formID string) {
	s.run.Lock()
	defer s.run.Unlock()

	triggers, err := s.triggers.ListEventTriggers(ctx, formID)
	if err != nil {
		s.logger.Error("查询提交触发器失败", zap.String("form_id", formID), zap.Error(err))
		return
	}

	now := s.now()
	for i := range triggers {
		t := &triggers[i]
		fn, ok := s.handler(t.HandlerName)
		if !ok {
			continue
		}
		s.invoke(ctx, fn, Event{
			TriggerID: t.TriggerID,
			Handler:   t.HandlerName,
			FormID:    formID,
			FiredAt:   now,
		})
	}
}

func (s *Scheduler) invoke(ctx context.Context, fn HandlerFunc, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("触发器处理器 panic",
				zap.String("trigger_id", evt.TriggerID),
				zap.String("handler", string(evt.Handler)),
				zap.Any("panic", r),
			)
		}
	}()
	fn(ctx, evt)
}
