package submissionstats

import "classaction-admin/internal/dashboard"

// Input narrows the submissions counted. Empty fields match everything.
type Input struct {
	MemberEmail string `json:"memberEmail,omitempty"`
	Litigation  string `json:"litigation,omitempty"`
	Franchise   string `json:"franchise,omitempty"`
}

type Output struct {
	DailyCounts      []dashboard.DailyCount `json:"dailyCounts"`
	TotalApplicants  int                    `json:"totalApplicants"`
	TotalSubmissions int                    `json:"totalSubmissions"`
}
