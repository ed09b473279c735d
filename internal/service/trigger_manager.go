package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/internal/model"
	"github.com/michaelos02/mroFormLimiter/internal/repository"
	apperrors "github.com/michaelos02/mroFormLimiter/pkg/errors"
)

// TriggerManager 管理本系统拥有的两类触发器
type TriggerManager interface {
	// ClearOwned 删除全部本系统拥有的触发器，返回删除数量
	ClearOwned(ctx context.Context) (int, error)
	// InstallDeadline 在 date+clock 对应时刻安装一次性截止触发器
	InstallDeadline(ctx context.Context, date, clock string) (time.Time, error)
	// InstallSubmission 在活动收集表上安装提交触发器
	InstallSubmission(ctx context.Context) error
}

type triggerManager struct {
	triggers repository.TriggerRepository
	forms    FormProvider
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewTriggerManager 创建 TriggerManager 实例
func NewTriggerManager(triggers repository.TriggerRepository, forms FormProvider, loc *time.Location, logger *zap.Logger) TriggerManager {
	return &triggerManager{
		triggers: triggers,
		forms:    forms,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// ────────────────────── ClearOwned ──────────────────────

func (m *triggerManager) ClearOwned(ctx context.Context) (int, error) {
	triggers, err := m.triggers.List(ctx)
	if err != nil {
		m.logger.Error("列出触发器失败", zap.Error(err))
		return 0, &apperrors.TriggerPlatformError{Operation: "list", Message: "failed to clear existing triggers", Err: err}
	}

	deleted := 0
	for i := range triggers {
		t := &triggers[i]
		if !t.HandlerName.IsOwned() {
			continue
		}
		if err := m.triggers.Delete(ctx, t); err != nil {
			m.logger.Error("删除触发器失败",
				zap.String("trigger_id", t.TriggerID),
				zap.String("handler", string(t.HandlerName)),
				zap.Error(err),
			)
			return deleted, &apperrors.TriggerPlatformError{Operation: "delete", Message: "failed to clear existing triggers", Err: err}
		}
		deleted++
	}

	if deleted > 0 {
		m.logger.Info("已清理触发器", zap.Int("count", deleted))
	}
	return deleted, nil
}

// ────────────────────── InstallDeadline ──────────────────────

func (m *triggerManager) InstallDeadline(ctx context.Context, date, clock string) (time.Time, error) {
	at, err := time.ParseInLocation(deadlineLayout, date+" "+clock, m.loc)
	if err != nil {
		return time.Time{}, &apperrors.TriggerPlatformError{Operation: "create", Message: "invalid deadline", Err: err}
	}

	// 日期校验只比较到天，当天已过去的时刻在这里拒绝
	if !at.After(m.now()) {
		return time.Time{}, &apperrors.TriggerPlatformError{Operation: "create", Message: "deadline must be in the future"}
	}

	trigger, err := m.triggers.CreateTimeTrigger(ctx, model.HandlerDeadline, at)
	if err != nil {
		m.logger.Error("创建截止触发器失败", zap.Time("fire_at", at), zap.Error(err))
		return time.Time{}, &apperrors.TriggerPlatformError{Operation: "create", Message: "failed to create deadline trigger", Err: err}
	}

	m.logger.Info("截止触发器已创建",
		zap.String("trigger_id", trigger.TriggerID),
		zap.Time("fire_at", at),
	)
	return at, nil
}

// ────────────────────── InstallSubmission ──────────────────────

func (m *triggerManager) InstallSubmission(ctx context.Context) error {
	form, err := m.forms.Active(ctx)
	if err != nil {
		m.logger.Error("获取活动收集表失败", zap.Error(err))
		return &apperrors.TriggerPlatformError{Operation: "create", Message: "failed to create submission trigger", Err: err}
	}

	trigger, err := m.triggers.CreateEventTrigger(ctx, model.HandlerSubmission, form.ID())
	if err != nil {
		m.logger.Error("创建提交触发器失败", zap.String("form_id", form.ID()), zap.Error(err))
		return &apperrors.TriggerPlatformError{Operation: "create", Message: "failed to create submission trigger", Err: err}
	}

	m.logger.Info("提交触发器已创建",
		zap.String("trigger_id", trigger.TriggerID),
		zap.String("form_id", form.ID()),
	)
	return nil
}
