package ossinsight

// Response của /v1/trends/repos/. Mọi giá trị trong row đều là chuỗi.
type Response struct {
	Type string `json:"type"`
	Data Data   `json:"data"`
}

type Data struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

type Column struct {
	Col      string `json:"col"`
	DataType string `json:"data_type"`
}

type Row struct {
	RepoID            string  `json:"repo_id"`
	RepoName          string  `json:"repo_name"`
	PrimaryLanguage   *string `json:"primary_language"`
	Description       *string `json:"description"`
	Stars             *string `json:"stars"`
	Forks             *string `json:"forks"`
	PullRequests      *string `json:"pull_requests"`
	Pushes            *string `json:"pushes"`
	TotalScore        *string `json:"total_score"`
	ContributorLogins *string `json:"contributor_logins"`
	CollectionNames   *string `json:"collection_names"`
}
