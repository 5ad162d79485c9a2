// Các đối tượng truyền dữ liệu cho GitHub REST API

package githubapi

type RepoInfo struct {
	Id            int64  `json:"id"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
}

// Languages ánh xạ tên ngôn ngữ sang số byte, theo /repos/{owner}/{repo}/languages
type Languages map[string]int64
