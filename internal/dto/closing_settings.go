package dto

// ── 截止策略设置 DTO ──

// SaveClosingSettingsRequest 保存截止策略设置请求
// 三个字段均可为空字符串，表示未设置
type SaveClosingSettingsRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Number string `json:"number"`
}

// ClosingSettingsResponse 读取截止策略设置响应
type ClosingSettingsResponse struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Number  string `json:"number"`
	Success bool   `json:"success"`
}

// SaveClosingSettingsResponse 保存成功响应
type SaveClosingSettingsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FailureResponse 失败响应，error 面向用户原样展示
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
