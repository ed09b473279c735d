package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/michaelos02/mroFormLimiter/internal/dto"
	"github.com/michaelos02/mroFormLimiter/internal/service"
	"github.com/michaelos02/mroFormLimiter/pkg/response"
)

// FormHandler 收集表 HTTP 处理器
type FormHandler struct {
	formSvc service.FormService
}

// NewFormHandler 创建 FormHandler
func NewFormHandler(formSvc service.FormService) *FormHandler {
	return &FormHandler{formSvc: formSvc}
}

// GetForm 获取活动收集表状态
// GET /api/v1/form
func (h *FormHandler) GetForm(c *gin.Context) {
	form, err := h.formSvc.GetActive(c.Request.Context())
	if err != nil {
		h.handleFormError(c, err)
		return
	}

	response.OK(c, form)
}

// SubmitResponse 提交一份回答
// POST /api/v1/form/responses
func (h *FormHandler) SubmitResponse(c *gin.Context) {
	var req dto.SubmitResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.formSvc.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleFormError(c, err)
		return
	}

	response.Created(c, result)
}

// handleFormError 统一处理收集表模块业务错误
func (h *FormHandler) handleFormError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrActiveFormNotFound):
		response.NotFound(c, 21001, "活动收集表不存在")
	case errors.Is(err, service.ErrFormClosed):
		response.Forbidden(c, 21002, "收集表已停止接收回答")
	default:
		response.InternalError(c)
	}
}
