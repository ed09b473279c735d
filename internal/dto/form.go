package dto

import "encoding/json"

// ── 收集表 DTO ──

// SubmitResponseRequest 提交一份回答
type SubmitResponseRequest struct {
	Answers json.RawMessage `json:"answers" binding:"required"`
}

// SubmitResponseResult 提交结果
type SubmitResponseResult struct {
	ResponseID  string `json:"response_id"`
	SubmittedAt string `json:"submitted_at"`
}

// FormStatusResponse 活动收集表状态
type FormStatusResponse struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	AcceptingResponses bool   `json:"accepting_responses"`
	ResponseCount      int64  `json:"response_count"`
}
