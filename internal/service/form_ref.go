package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/michaelos02/mroFormLimiter/internal/repository"
)

// ── 收集表引用 ──

var (
	ErrActiveFormNotFound = errors.New("活动收集表不存在")
)

// FormRef 指向一张收集表，截止策略只通过它读取提交数与切换接收开关
type FormRef interface {
	ID() string
	ResponseCount(ctx context.Context) (int64, error)
	SetAcceptingResponses(ctx context.Context, accepting bool) error
}

// FormProvider 获取当前活动收集表
type FormProvider interface {
	Active(ctx context.Context) (FormRef, error)
}

type formRef struct {
	id   string
	repo repository.FormRepository
}

// NewFormRef 基于表单 ID 创建 FormRef
func NewFormRef(formID string, repo repository.FormRepository) FormRef {
	return &formRef{id: formID, repo: repo}
}

func (f *formRef) ID() string { return f.id }

func (f *formRef) ResponseCount(ctx context.Context) (int64, error) {
	return f.repo.CountResponses(ctx, f.id)
}

func (f *formRef) SetAcceptingResponses(ctx context.Context, accepting bool) error {
	return f.repo.SetAcceptingResponses(ctx, f.id, accepting)
}

type formProvider struct {
	repo repository.FormRepository
}

// NewFormProvider 创建基于 FormRepository 的 FormProvider
func NewFormProvider(repo repository.FormRepository) FormProvider {
	return &formProvider{repo: repo}
}

func (p *formProvider) Active(ctx context.Context) (FormRef, error) {
	form, err := p.repo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActiveFormNotFound
		}
		return nil, err
	}
	return NewFormRef(form.FormID, p.repo), nil
}
