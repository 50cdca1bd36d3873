package dashboard

import (
	"sort"

	"classaction-admin/internal/models"
)

const dateLayout = "2006-01-02"

// DailyCount is the number of submissions received on one calendar date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DailyCounts groups submissions by the calendar date of CreatedAt, taken in
// each timestamp's own location. Dates come back ascending; dates with no
// submissions are omitted. Submissions without a timestamp are skipped.
func DailyCounts(subs []models.Submission) []DailyCount {
	counts := make(map[string]int)
	for _, s := range subs {
		if s.CreatedAt.IsZero() {
			continue
		}
		counts[s.CreatedAt.Format(dateLayout)]++
	}

	out := make([]DailyCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, DailyCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TotalApplicants sums the decoded applicant entries across subs. Lists kept
// as raw text count as zero.
func TotalApplicants(subs []models.Submission) int {
	total := 0
	for _, s := range subs {
		if s.Applicants.Invalid {
			continue
		}
		total += len(s.Applicants.Entries)
	}
	return total
}
