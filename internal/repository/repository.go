package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Setting SettingRepository
	Trigger TriggerRepository
	Form    FormRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Setting: NewSettingRepo(db),
		Trigger: NewTriggerRepo(db),
		Form:    NewFormRepo(db),
	}
}
