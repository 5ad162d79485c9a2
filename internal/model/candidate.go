package model

// Candidate là một repo lấy từ nguồn trending cho lần chạy hiện tại.
// Các trường con trỏ là tùy chọn.
type Candidate struct {
	ID                int64
	Name              string
	PrimaryLanguage   *string
	Description       *string
	Stars             *int
	Forks             *int
	PullRequests      *int
	Pushes            *int
	TotalScore        *float64
	ContributorLogins *string
	CollectionNames   *string
}

// LanguageShare là phần trăm số byte của một ngôn ngữ trong repo
type LanguageShare struct {
	Language   string  `json:"language"`
	Percentage float64 `json:"percentage"`
}
