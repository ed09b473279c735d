package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/internal/dto"
	"github.com/michaelos02/mroFormLimiter/internal/model"
)

// ClosingSettingsService 截止策略设置业务接口
type ClosingSettingsService interface {
	Get(ctx context.Context) (*dto.ClosingSettingsResponse, error)
	Save(ctx context.Context, req *dto.SaveClosingSettingsRequest, callerID string) (*dto.SaveClosingSettingsResponse, error)
}

type closingSettingsService struct {
	store    *ClosingSettingsStore
	triggers TriggerManager
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewClosingSettingsService 创建 ClosingSettingsService 实例
func NewClosingSettingsService(store *ClosingSettingsStore, triggers TriggerManager, loc *time.Location, logger *zap.Logger) ClosingSettingsService {
	return &closingSettingsService{
		store:    store,
		triggers: triggers,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// ────────────────────── Get ──────────────────────

func (s *closingSettingsService) Get(ctx context.Context) (*dto.ClosingSettingsResponse, error) {
	settings, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ClosingSettingsResponse{
		Date:    settings.DeadlineDate,
		Time:    settings.DeadlineTime,
		Number:  settings.MaxCount,
		Success: true,
	}, nil
}

// ────────────────────── Save ──────────────────────

// Save 校验 → 清理旧触发器 → 持久化 → 安装触发器
// 安装失败时直接返回错误，已持久化的设置不回滚
func (s *closingSettingsService) Save(ctx context.Context, req *dto.SaveClosingSettingsRequest, callerID string) (*dto.SaveClosingSettingsResponse, error) {
	settings := model.ClosingSettings{
		DeadlineDate: strings.TrimSpace(req.Date),
		DeadlineTime: strings.TrimSpace(req.Time),
		MaxCount:     strings.TrimSpace(req.Number),
	}

	if err := ValidateClosingSettings(settings, s.now().In(s.loc)); err != nil {
		return nil, err
	}

	if _, err := s.triggers.ClearOwned(ctx); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, settings); err != nil {
		return nil, err
	}

	parts := []string{"Settings saved."}

	if settings.HasDeadline() {
		at, err := s.triggers.InstallDeadline(ctx, settings.DeadlineDate, settings.DeadlineTime)
		if err != nil {
			return nil, err
		}
		parts = append(parts, fmt.Sprintf("Deadline trigger set for %s (%s).", at.Format(deadlineLayout), s.loc.String()))
	}

	if settings.HasMaxCount() {
		if err := s.triggers.InstallSubmission(ctx); err != nil {
			return nil, err
		}
		parts = append(parts, fmt.Sprintf("Submission limit trigger set for %s responses.", settings.MaxCount))
	}

	s.logger.Info("截止策略已保存",
		zap.String("operator", callerID),
		zap.String("date", settings.DeadlineDate),
		zap.String("time", settings.DeadlineTime),
		zap.String("number", settings.MaxCount),
	)

	return &dto.SaveClosingSettingsResponse{
		Success: true,
		Message: strings.Join(parts, " "),
	}, nil
}
