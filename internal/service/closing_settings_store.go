package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/internal/model"
	apperrors "github.com/michaelos02/mroFormLimiter/pkg/errors"
)

// SettingsKV 设置键值存储（PostgreSQL 表或 Redis Hash）
type SettingsKV interface {
	GetAll(ctx context.Context) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
}

// ClosingSettingsStore 截止策略设置的唯一持久化边界
type ClosingSettingsStore struct {
	kv     SettingsKV
	logger *zap.Logger
}

// NewClosingSettingsStore 创建 ClosingSettingsStore
func NewClosingSettingsStore(kv SettingsKV, logger *zap.Logger) *ClosingSettingsStore {
	return &ClosingSettingsStore{kv: kv, logger: logger}
}

// Load 读取当前设置；缺失或空白的键视为未设置
func (s *ClosingSettingsStore) Load(ctx context.Context) (model.ClosingSettings, error) {
	values, err := s.kv.GetAll(ctx)
	if err != nil {
		s.logger.Error("读取截止策略设置失败", zap.Error(err))
		return model.ClosingSettings{}, &apperrors.StorePlatformError{Operation: "read", Err: err}
	}

	for k, v := range values {
		values[k] = strings.TrimSpace(v)
	}
	return model.ClosingSettingsFromMap(values), nil
}

// Save 整体覆盖写入
func (s *ClosingSettingsStore) Save(ctx context.Context, settings model.ClosingSettings) error {
	if err := s.kv.SetAll(ctx, settings.ToMap()); err != nil {
		s.logger.Error("写入截止策略设置失败", zap.Error(err))
		return &apperrors.StorePlatformError{Operation: "write", Err: err}
	}
	return nil
}
