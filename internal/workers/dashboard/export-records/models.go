package exportrecords

type Input struct {
	Kind        string `json:"kind"`
	Query       string `json:"query,omitempty"`
	MemberEmail string `json:"memberEmail,omitempty"`
	Litigation  string `json:"litigation,omitempty"`
	Franchise   string `json:"franchise,omitempty"`
}

type Output struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	RowCount int    `json:"rowCount"`
	// Content is the workbook, base64 encoded.
	Content string `json:"content"`
}
