package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/michaelos02/mroFormLimiter/internal/model"
)

// SettingRepository 截止策略设置键值存储接口
type SettingRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
}

type settingRepo struct {
	db *gorm.DB
}

// NewSettingRepo 创建 SettingRepository 实例
func NewSettingRepo(db *gorm.DB) SettingRepository {
	return &settingRepo{db: db}
}

func (r *settingRepo) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []model.Setting
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// SetAll 在同一事务中整体覆盖：写入给定键，删除其余键
func (r *settingRepo) SetAll(ctx context.Context, values map[string]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keys := make([]string, 0, len(values))
		rows := make([]model.Setting, 0, len(values))
		for k, v := range values {
			keys = append(keys, k)
			rows = append(rows, model.Setting{Key: k, Value: v})
		}

		del := tx.Model(&model.Setting{})
		if len(keys) > 0 {
			del = del.Where("key NOT IN ?", keys)
		} else {
			del = del.Where("1 = 1")
		}
		if err := del.Delete(&model.Setting{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("EXCLUDED.value"), "updated_at": gorm.Expr("NOW()")}),
		}).Create(&rows).Error
	})
}
