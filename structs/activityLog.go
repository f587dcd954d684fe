package structs

type ActivityLogJsonModel struct {
	Type      string         `json:"type"`
	TaskID    uint           `json:"task_id,omitempty"`
	File      string         `json:"file,omitempty"`
	Result    bool           `json:"result"`
	Statistic StatisticModel `json:"statistic"`
	Message   string         `json:"message"`
	Messages  []ErrorModel   `json:"messages"`
}

type StatisticModel struct {
	Total      int `json:"total"`
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
}

type ErrorModel struct {
	Line         int    `json:"line,omitempty"`
	ErrorMessage string `json:"error_message"`
}
