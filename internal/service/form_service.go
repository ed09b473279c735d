package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/michaelos02/mroFormLimiter/internal/dto"
	"github.com/michaelos02/mroFormLimiter/internal/model"
	"github.com/michaelos02/mroFormLimiter/internal/repository"
)

// ── 收集表模块业务错误 ──

var (
	ErrFormClosed = errors.New("收集表已停止接收回答")
)

// SubmissionDispatcher 新提交写入后通知触发器平台
type SubmissionDispatcher interface {
	DispatchSubmission(ctx context.Context, formID string)
}

// FormService 收集表业务接口
type FormService interface {
	GetActive(ctx context.Context) (*dto.FormStatusResponse, error)
	Submit(ctx context.Context, req *dto.SubmitResponseRequest) (*dto.SubmitResponseResult, error)
}

type formService struct {
	repo       *repository.Repository
	dispatcher SubmissionDispatcher
	logger     *zap.Logger
}

// NewFormService 创建 FormService 实例
func NewFormService(repo *repository.Repository, dispatcher SubmissionDispatcher, logger *zap.Logger) FormService {
	return &formService{repo: repo, dispatcher: dispatcher, logger: logger}
}

// ────────────────────── GetActive ──────────────────────

func (s *formService) GetActive(ctx context.Context) (*dto.FormStatusResponse, error) {
	form, err := s.getActiveForm(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Form.CountResponses(ctx, form.FormID)
	if err != nil {
		s.logger.Error("统计提交数失败", zap.String("form_id", form.FormID), zap.Error(err))
		return nil, err
	}

	return &dto.FormStatusResponse{
		ID:                 form.FormID,
		Title:              form.Title,
		AcceptingResponses: form.AcceptingResponses,
		ResponseCount:      count,
	}, nil
}

// ────────────────────── Submit ──────────────────────

func (s *formService) Submit(ctx context.Context, req *dto.SubmitResponseRequest) (*dto.SubmitResponseResult, error) {
	form, err := s.getActiveForm(ctx)
	if err != nil {
		return nil, err
	}
	if !form.AcceptingResponses {
		return nil, ErrFormClosed
	}

	resp := &model.FormResponse{
		FormID:  form.FormID,
		Payload: string(req.Answers),
	}
	if err := s.repo.Form.CreateResponse(ctx, resp); err != nil {
		s.logger.Error("保存提交失败", zap.String("form_id", form.FormID), zap.Error(err))
		return nil, err
	}

	s.dispatcher.DispatchSubmission(ctx, form.FormID)

	return &dto.SubmitResponseResult{
		ResponseID:  resp.ResponseID,
		SubmittedAt: resp.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// ── 内部辅助方法 ──

func (s *formService) getActiveForm(ctx context.Context) (*model.Form, error) {
	form, err := s.repo.Form.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActiveFormNotFound
		}
		s.logger.Error("查询活动收集表失败", zap.Error(err))
		return nil, err
	}
	return form, nil
}
