package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/michaelos02/mroFormLimiter/internal/model"
)

// TriggerRepository 触发器平台数据访问接口
type TriggerRepository interface {
	List(ctx context.Context) ([]model.Trigger, error)
	Delete(ctx context.Context, trigger *model.Trigger) error
	CreateTimeTrigger(ctx context.Context, handler model.HandlerName, at time.Time) (*model.Trigger, error)
	CreateEventTrigger(ctx context.Context, handler model.HandlerName, formID string) (*model.Trigger, error)
	// ListDue 列出 fire_at <= now 的一次性触发器
	ListDue(ctx context.Context, now time.Time) ([]model.Trigger, error)
	// ListEventTriggers 列出绑定到指定表单的提交触发器
	ListEventTriggers(ctx context.Context, formID string) ([]model.Trigger, error)
}

type triggerRepo struct {
	db *gorm.DB
}

// NewTriggerRepo 创建 TriggerRepository 实例
func NewTriggerRepo(db *gorm.DB) TriggerRepository {
	return &triggerRepo{db: db}
}

func (r *triggerRepo) List(ctx context.Context) ([]model.Trigger, error) {
	var triggers []model.Trigger
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&triggers).Error
	return triggers, err
}

// Delete 删除已不存在的触发器视为成功
func (r *triggerRepo) Delete(ctx context.Context, trigger *model.Trigger) error {
	return r.db.WithContext(ctx).
		Where("trigger_id = ?", trigger.TriggerID).
		Delete(&model.Trigger{}).Error
}

func (r *triggerRepo) CreateTimeTrigger(ctx context.Context, handler model.HandlerName, at time.Time) (*model.Trigger, error) {
	fireAt := at.UTC()
	trigger := &model.Trigger{
		TriggerID:   uuid.New().String(),
		HandlerName: handler,
		TriggerType: model.TriggerTypeTime,
		FireAt:      &fireAt,
	}
	if err := r.db.WithContext(ctx).Create(trigger).Error; err != nil {
		return nil, err
	}
	return trigger, nil
}

func (r *triggerRepo) CreateEventTrigger(ctx context.Context, handler model.HandlerName, formID string) (*model.Trigger, error) {
	trigger := &model.Trigger{
		TriggerID:   uuid.New().String(),
		HandlerName: handler,
		TriggerType: model.TriggerTypeEvent,
		FormID:      &formID,
	}
	if err := r.db.WithContext(ctx).Create(trigger).Error; err != nil {
		return nil, err
	}
	return trigger, nil
}

func (r *triggerRepo) ListDue(ctx context.Context, now time.Time) ([]model.Trigger, error) {
	var triggers []model.Trigger
	err := r.db.WithContext(ctx).
		Where("trigger_type = ? AND fire_at <= ?", model.TriggerTypeTime, now.UTC()).
		Order("fire_at ASC").
		Find(&triggers).Error
	return triggers, err
}

func (r *triggerRepo) ListEventTriggers(ctx context.Context, formID string) ([]model.Trigger, error) {
	var triggers []model.Trigger
	err := r.db.WithContext(ctx).
		Where("trigger_type = ? AND form_id = ?", model.TriggerTypeEvent, formID).
		Order("created_at ASC").
		Find(&triggers).Error
	return triggers, err
}
