package search

import (
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50

	SortCreatedAsc  = "created_at.asc"
	SortCreatedDesc = "created_at.desc"

	highlightPre  = "<mark>"
	highlightPost = "</mark>"

	dateLayout = "2006-01-02"
)

var matchFields = []string{"member_email^2", "litigation", "franchise", "applicants.name"}

// Query is a submission search as it arrives from the API.
type Query struct {
	Q         string `json:"q" form:"q"`
	Franchise string `json:"franchise" form:"franchise"`
	Status    string `json:"status" form:"status"`
	Sort      string `json:"sort" form:"sort"`
	Page      int    `json:"page" form:"page"`
	Size      int    `json:"size" form:"size"`

	// CreatedFrom and CreatedTo are inclusive YYYY-MM-DD bounds on created_at.
	CreatedFrom string `json:"from" form:"from"`
	CreatedTo   string `json:"to" form:"to"`

	loc *time.Location
}

// Normalize trims the text fields and clamps paging: page is at least 1 and
// size falls in [1, MaxPageSize], DefaultPageSize when unset. Date bounds
// that do not parse are dropped.
func (q Query) Normalize() Query {
	q.Q = strings.TrimSpace(q.Q)
	q.Franchise = strings.TrimSpace(q.Franchise)
	q.Status = strings.TrimSpace(q.Status)
	q.Sort = strings.TrimSpace(q.Sort)
	q.CreatedFrom = normalizeDate(q.CreatedFrom)
	q.CreatedTo = normalizeDate(q.CreatedTo)

	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Size == 0:
		q.Size = DefaultPageSize
	case q.Size < 1:
		q.Size = 1
	case q.Size > MaxPageSize:
		q.Size = MaxPageSize
	}
	return q
}

func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(dateLayout, s); err != nil {
		return ""
	}
	return s
}

// From is the offset of the first hit on the page.
func (q Query) From() int {
	return (q.Page - 1) * q.Size
}

// BuildQuery renders the search body for an already normalized query.
func BuildQuery(q Query) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Q != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Q,
				"fields": matchFields,
			},
		})
	}
	if q.Franchise != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"franchise": q.Franchise},
		})
	}
	if q.Status != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"status": q.Status},
		})
	}
	if bounds := q.createdRange(); len(bounds) > 0 {
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"created_at": bounds},
		})
	}

	var query map[string]interface{}
	if len(must) == 0 && len(filter) == 0 {
		query = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		if len(must) == 0 {
			must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
		}
		query = map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		}
	}

	body := map[string]interface{}{
		"query": query,
		"sort":  sortClause(q.Sort),
	}
	if q.Q != "" {
		body["highlight"] = map[string]interface{}{
			"fields":    map[string]interface{}{"litigation": map[string]interface{}{}},
			"pre_tags":  []string{highlightPre},
			"post_tags": []string{highlightPost},
		}
	}
	return body
}

// createdRange turns the date bounds into instants in the query's location:
// midnight of CreatedFrom up to, but excluding, midnight after CreatedTo.
func (q Query) createdRange() map[string]interface{} {
	loc := q.loc
	if loc == nil {
		loc = time.UTC
	}
	bounds := map[string]interface{}{}
	if from, err := time.ParseInLocation(dateLayout, q.CreatedFrom, loc); err == nil {
		bounds["gte"] = from.Format(time.RFC3339)
	}
	if to, err := time.ParseInLocation(dateLayout, q.CreatedTo, loc); err == nil {
		bounds["lt"] = to.AddDate(0, 0, 1).Format(time.RFC3339)
	}
	return bounds
}

func sortClause(sort string) []interface{} {
	switch sort {
	case SortCreatedAsc:
		return []interface{}{map[string]interface{}{"created_at": "asc"}}
	case SortCreatedDesc:
		return []interface{}{map[string]interface{}{"created_at": "desc"}}
	default:
		return []interface{}{map[string]interface{}{"_score": "desc"}}
	}
}
