package dto

import "time"

// APIResponse is the standard success envelope for API endpoints.
type APIResponse struct {
	Data       interface{}     `json:"data,omitempty"`
	Error      *ErrorDetail    `json:"error,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
	Timestamp  time.Time       `json:"timestamp,omitempty"`
}

// SuccessResponse carries a plain confirmation message.
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginationInfo describes the page window of a list response.
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
}
