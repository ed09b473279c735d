package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/config"
	"github.com/michaelos02/mroFormLimiter/internal/model"
	"github.com/michaelos02/mroFormLimiter/internal/repository"
	"github.com/michaelos02/mroFormLimiter/internal/scheduler"
)

// Service 所有 Service 的聚合入口
type Service struct {
	ClosingSettings ClosingSettingsService
	Form            FormService
	Closer          FormCloser
	Evaluator       ClosingEvaluator
}

// NewService 创建 Service 聚合
// settingsKV 由 policy.settings_store 决定（PostgreSQL 表或 Redis Hash）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	settingsKV SettingsKV,
	dispatcher SubmissionDispatcher,
	logger *zap.Logger,
) (*Service, error) {
	loc, err := cfg.Policy.Location()
	if err != nil {
		return nil, err
	}

	forms := NewFormProvider(repo.Form)
	store := NewClosingSettingsStore(settingsKV, logger)
	triggers := NewTriggerManager(repo.Trigger, forms, loc, logger)
	closer := NewFormCloser(forms, triggers, logger)

	return &Service{
		ClosingSettings: NewClosingSettingsService(store, triggers, loc, logger),
		Form:            NewFormService(repo, dispatcher, logger),
		Closer:          closer,
		Evaluator:       NewClosingEvaluator(store, closer, logger),
	}, nil
}

// RegisterTriggerHandlers 把截止与提交两个处理器注册到触发器平台
func (s *Service) RegisterTriggerHandlers(sched *scheduler.Scheduler, repo *repository.Repository) {
	sched.Register(model.HandlerDeadline, func(ctx context.Context, _ scheduler.Event) {
		s.Closer.CloseActive(ctx)
	})
	sched.Register(model.HandlerSubmission, func(ctx context.Context, evt scheduler.Event) {
		s.Evaluator.OnSubmission(ctx, SubmissionEvent{Form: NewFormRef(evt.FormID, repo.Form)})
	})
}
