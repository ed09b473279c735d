package errors

import (
	"errors"
	"fmt"
)

// ── 截止策略错误分类 ──

// ValidationError 用户输入格式错误或越界，不修改任何状态
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError 创建 ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TriggerPlatformError 触发器安装或删除失败
// Message 面向用户原样返回；Err 为平台底层错误（可能为空）
type TriggerPlatformError struct {
	Operation string
	Message   string
	Err       error
}

func (e *TriggerPlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TriggerPlatformError) Unwrap() error {
	return e.Err
}

// StorePlatformError 设置存储读写失败
type StorePlatformError struct {
	Operation string
	Err       error
}

func (e *StorePlatformError) Error() string {
	return fmt.Sprintf("settings store %s: %v", e.Operation, e.Err)
}

func (e *StorePlatformError) Unwrap() error {
	return e.Err
}

// UserMessage 提取可直接展示给操作员的错误文案
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var te *TriggerPlatformError
	if errors.As(err, &te) {
		return te.Message
	}
	var se *StorePlatformError
	if errors.As(err, &se) {
		if se.Operation == "read" {
			return "failed to load settings"
		}
		return "failed to save settings"
	}
	return "internal error"
}
