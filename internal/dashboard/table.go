package dashboard

import (
	"classaction-admin/internal/models"
)

// Table is a formatted record set: display labels plus one row of cell
// values per record, both in display order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (t Table) Len() int {
	return len(t.Rows)
}

func MemberTable(members []models.Member) Table {
	rows := make([][]any, len(members))
	for i, m := range members {
		rows[i] = memberRow(m)
	}
	return Table{
		Columns: Relabel(columnKeys(MemberColumns), MemberColumns),
		Rows:    rows,
	}
}

func SubmissionTable(subs []models.Submission) Table {
	rows := make([][]any, len(subs))
	for i, s := range subs {
		rows[i] = submissionRow(s)
	}
	return Table{
		Columns: Relabel(columnKeys(SubmissionColumns), SubmissionColumns),
		Rows:    rows,
	}
}

// memberRow follows MemberColumns.
func memberRow(m models.Member) []any {
	return []any{
		m.ID,
		m.Email,
		m.Name,
		m.Phone,
		m.NationalID,
		m.Address,
		m.CreatedAt,
	}
}

// submissionRow follows SubmissionColumns.
func submissionRow(s models.Submission) []any {
	return []any{
		s.ID,
		s.MemberEmail,
		s.Litigation,
		s.Status.Label(),
		s.Intention,
		s.Franchise,
		s.Email,
		s.Address,
		s.BackupPhone,
		YesNo(s.CouponUsed),
		YesNo(s.AgreePrivacy),
		YesNo(s.ConfirmInfo),
		FormatStores(s.Stores),
		FormatApplicants(s.Applicants),
		s.CreatedAt,
	}
}

// DetailField is one labelled line of a detail view.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func MemberDetail(m models.Member) []DetailField {
	return detail(MemberColumns, memberRow(m))
}

func SubmissionDetail(s models.Submission) []DetailField {
	return detail(SubmissionColumns, submissionRow(s))
}

func detail(columns []Column, row []any) []DetailField {
	out := make([]DetailField, len(columns))
	for i, c := range columns {
		out[i] = DetailField{Label: c.Label, Value: DisplayValue(row[i])}
	}
	return out
}
