package handler

import "github.com/michaelos02/mroFormLimiter/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	ClosingSettings *ClosingSettingsHandler
	Form            *FormHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		ClosingSettings: NewClosingSettingsHandler(svc.ClosingSettings),
		Form:            NewFormHandler(svc.Form),
	}
}
