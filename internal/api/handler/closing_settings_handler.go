package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaelos02/mroFormLimiter/internal/dto"
	"github.com/michaelos02/mroFormLimiter/internal/service"
	apperrors "github.com/michaelos02/mroFormLimiter/pkg/errors"
	"github.com/michaelos02/mroFormLimiter/pkg/response"
)

// ClosingSettingsHandler 截止策略设置 HTTP 处理器
type ClosingSettingsHandler struct {
	settingsSvc service.ClosingSettingsService
}

// NewClosingSettingsHandler 创建 ClosingSettingsHandler
func NewClosingSettingsHandler(settingsSvc service.ClosingSettingsService) *ClosingSettingsHandler {
	return &ClosingSettingsHandler{settingsSvc: settingsSvc}
}

// GetSettings 获取截止策略设置
// GET /api/v1/closing-settings
func (h *ClosingSettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, settings)
}

// SaveSettings 保存截止策略设置并重建触发器
// PUT /api/v1/closing-settings
func (h *ClosingSettingsHandler) SaveSettings(c *gin.Context) {
	var req dto.SaveClosingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetOperatorID(c)
	if !ok {
		return
	}

	result, err := h.settingsSvc.Save(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, result)
}

// handleSettingsError 统一处理截止策略错误，error 文案原样返回
func (h *ClosingSettingsHandler) handleSettingsError(c *gin.Context, err error) {
	msg := apperrors.UserMessage(err)
	failure := dto.FailureResponse{Success: false, Error: msg}

	var (
		ve *apperrors.ValidationError
		te *apperrors.TriggerPlatformError
		se *apperrors.StorePlatformError
	)
	switch {
	case errors.As(err, &ve):
		response.Fail(c, http.StatusUnprocessableEntity, 20001, msg, failure)
	case errors.As(err, &te):
		response.Fail(c, http.StatusBadGateway, 20002, msg, failure)
	case errors.As(err, &se):
		response.Fail(c, http.StatusServiceUnavailable, 20003, msg, failure)
	default:
		response.Fail(c, http.StatusInternalServerError, 50000, msg, failure)
	}
}
