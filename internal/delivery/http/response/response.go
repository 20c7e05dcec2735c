package response

import "github.com/user/deals-scraper/internal/entity"

type ListResponse struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// StatusResponse carries a single-line status message and its level.
type StatusResponse struct {
	Status string `json:"status"`
	Level  string `json:"level"`
}

type StartScrapeResponse struct {
	Message string `json:"message"`
}

type ProgressResponse struct {
	Running    bool              `json:"running"`
	Progress   entity.Progress   `json:"progress"`
	Result     *entity.RunResult `json:"result,omitempty"`
	LastReport string            `json:"last_report,omitempty"`
}

type RunsResponse struct {
	Runs []*entity.RunRecord `json:"runs"`
}
