package model

// ProgressEvent không được lưu, chỉ phát cho các subscriber
type ProgressEvent struct {
	IsRunning    bool   `json:"is_running"`
	Message      string `json:"message"`
	CurrentCount int    `json:"current_count"`
	TotalCount   int    `json:"total_count"`
}
