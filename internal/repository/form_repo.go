package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/michaelos02/mroFormLimiter/internal/model"
)

// FormRepository 收集表数据访问接口
type FormRepository interface {
	GetActive(ctx context.Context) (*model.Form, error)
	GetByID(ctx context.Context, id string) (*model.Form, error)
	CountResponses(ctx context.Context, formID string) (int64, error)
	SetAcceptingResponses(ctx context.Context, formID string, accepting bool) error
	CreateResponse(ctx context.Context, resp *model.FormResponse) error
}

type formRepo struct {
	db *gorm.DB
}

// NewFormRepo 创建 FormRepository 实例
func NewFormRepo(db *gorm.DB) FormRepository {
	return &formRepo{db: db}
}

func (r *formRepo) GetActive(ctx context.Context) (*model.Form, error) {
	var form model.Form
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*model.Form, error) {
	var form model.Form
	err := r.db.WithContext(ctx).
		Where("form_id = ?", id).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (r *formRepo) CountResponses(ctx context.Context, formID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.FormResponse{}).
		Where("form_id = ?", formID).
		Count(&count).Error
	return count, err
}

// SetAcceptingResponses 重复设置相同值不报错
func (r *formRepo) SetAcceptingResponses(ctx context.Context, formID string, accepting bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Form{}).
		Where("form_id = ?", formID).
		Updates(map[string]interface{}{
			"accepting_responses": accepting,
			"updated_at":          gorm.Expr("NOW()"),
		}).Error
}

func (r *formRepo) CreateResponse(ctx context.Context, resp *model.FormResponse) error {
	return r.db.WithContext(ctx).Create(resp).Error
}
