package refreshrecordscache

type Input struct {
	Reason string `json:"reason,omitempty"`
}

type Output struct {
	Refreshed   bool   `json:"refreshed"`
	RefreshedAt string `json:"refreshedAt"`
}
