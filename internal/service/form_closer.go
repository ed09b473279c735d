package service

import (
	"context"

	"go.uber.org/zap"
)

// SubmissionEvent 提交触发器携带的事件上下文
type SubmissionEvent struct {
	Form FormRef
}

// FormCloser 关闭收集表并清理触发器
// 由触发器调用，没有调用方等待结果，所有错误只记录日志
type FormCloser interface {
	Close(ctx context.Context, form FormRef)
	CloseActive(ctx context.Context)
}

// ClosingEvaluator 每次提交时比较提交数与上限
type ClosingEvaluator interface {
	OnSubmission(ctx context.Context, evt SubmissionEvent)
}

type formCloser struct {
	forms    FormProvider
	triggers TriggerManager
	logger   *zap.Logger
}

// NewFormCloser 创建 FormCloser 实例
func NewFormCloser(forms FormProvider, triggers TriggerManager, logger *zap.Logger) FormCloser {
	return &formCloser{forms: forms, triggers: triggers, logger: logger}
}

func (c *formCloser) Close(ctx context.Context, form FormRef) {
	if err := form.SetAcceptingResponses(ctx, false); err != nil {
		// 保留触发器，下一次提交事件会再次尝试关闭
		c.logger.Error("关闭收集表失败", zap.String("form_id", form.ID()), zap.Error(err))
		return
	}
	c.logger.Info("收集表已停止接收回答", zap.String("form_id", form.ID()))

	if _, err := c.triggers.ClearOwned(ctx); err != nil {
		c.logger.Error("关闭后清理触发器失败", zap.String("form_id", form.ID()), zap.Error(err))
	}
}

func (c *formCloser) CloseActive(ctx context.Context) {
	form, err := c.forms.Active(ctx)
	if err != nil {
		c.logger.Error("截止触发时获取活动收集表失败", zap.Error(err))
		return
	}
	c.Close(ctx, form)
}

type closingEvaluator struct {
	store  *ClosingSettingsStore
	closer FormCloser
	logger *zap.Logger
}

// NewClosingEvaluator 创建 ClosingEvaluator 实例
func NewClosingEvaluator(store *ClosingSettingsStore, closer FormCloser, logger *zap.Logger) ClosingEvaluator {
	return &closingEvaluator{store: store, closer: closer, logger: logger}
}

func (e *closingEvaluator) OnSubmission(ctx context.Context, evt SubmissionEvent) {
	if evt.Form == nil {
		e.logger.Warn("提交事件缺少收集表引用")
		return
	}

	count, err := evt.Form.ResponseCount(ctx)
	if err != nil {
		e.logger.Error("读取提交数失败", zap.String("form_id", evt.Form.ID()), zap.Error(err))
		return
	}

	settings, err := e.store.Load(ctx)
	if err != nil {
		return
	}

	limit, ok := settings.Limit()
	if !ok {
		e.logger.Debug("未配置提交上限，跳过", zap.String("form_id", evt.Form.ID()))
		return
	}

	if count >= int64(limit) {
		e.logger.Info("提交数已达上限",
			zap.String("form_id", evt.Form.ID()),
			zap.Int64("count", count),
			zap.Int("limit", limit),
		)
		e.closer.Close(ctx, evt.Form)
	}
}
