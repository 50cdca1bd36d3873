package dashboard

import (
	"strings"

	"golang.org/x/text/cases"

	"classaction-admin/internal/models"
)

// Field extracts a searchable value from a row. ok is false when the row has
// no value for the field.
type Field[T any] func(row T) (value string, ok bool)

// Criterion is one search box: it matches when any of its fields contains
// Query, ignoring case. An empty Query is inactive.
type Criterion[T any] struct {
	Fields []Field[T]
	Query  string
}

// Filter keeps the rows that satisfy every active criterion. Row order is
// preserved and the input slice is never modified.
func Filter[T any](rows []T, criteria ...Criterion[T]) []T {
	active := make([]Criterion[T], 0, len(criteria))
	for _, c := range criteria {
		if c.Query != "" {
			c.Query = fold(c.Query)
			active = append(active, c)
		}
	}

	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if matchesAll(row, active) {
			out = append(out, row)
		}
	}
	return out
}

func matchesAll[T any](row T, criteria []Criterion[T]) bool {
	for _, c := range criteria {
		if !c.matches(row) {
			return false
		}
	}
	return true
}

// matches expects Query to be folded already.
func (c Criterion[T]) matches(row T) bool {
	for _, field := range c.Fields {
		value, ok := field(row)
		if !ok {
			continue
		}
		if strings.Contains(fold(value), c.Query) {
			return true
		}
	}
	return false
}

// cases.Caser keeps state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func present(s string) (string, bool) {
	return s, s != ""
}

// MemberFilter is the single members search box, matched against email or name.
type MemberFilter struct {
	Query string `json:"query,omitempty" form:"q"`
}

func (f MemberFilter) criteria() []Criterion[models.Member] {
	return []Criterion[models.Member]{{
		Query: f.Query,
		Fields: []Field[models.Member]{
			func(m models.Member) (string, bool) { return present(m.Email) },
			func(m models.Member) (string, bool) { return present(m.Name) },
		},
	}}
}

func FilterMembers(members []models.Member, f MemberFilter) []models.Member {
	return Filter(members, f.criteria()...)
}

// SubmissionFilter holds the three submission search boxes. All non-empty
// boxes must match.
type SubmissionFilter struct {
	MemberEmail string `json:"memberEmail,omitempty" form:"member_email"`
	Litigation  string `json:"litigation,omitempty" form:"litigation"`
	Franchise   string `json:"franchise,omitempty" form:"franchise"`
}

func (f SubmissionFilter) criteria() []Criterion[models.Submission] {
	return []Criterion[models.Submission]{
		{
			Query:  f.MemberEmail,
			Fields: []Field[models.Submission]{func(s models.Submission) (string, bool) { return present(s.MemberEmail) }},
		},
		{
			Query:  f.Litigation,
			Fields: []Field[models.Submission]{func(s models.Submission) (string, bool) { return present(s.Litigation) }},
		},
		{
			Query:  f.Franchise,
			Fields: []Field[models.Submission]{func(s models.Submission) (string, bool) { return present(s.Franchise) }},
		},
	}
}

func FilterSubmissions(subs []models.Submission, f SubmissionFilter) []models.Submission {
	return Filter(subs, f.criteria()...)
}
