package models

type SubmissionStatus string

const (
	StatusApplied           SubmissionStatus = "APPLIED"
	StatusUnderReview       SubmissionStatus = "UNDER_REVIEW"
	StatusReviewDone        SubmissionStatus = "REVIEW_DONE"
	StatusLawsuitInProgress SubmissionStatus = "LAWSUIT_IN_PROGRESS"
	StatusFinished          SubmissionStatus = "FINISHED"
	StatusCanceled          SubmissionStatus = "CANCELED"
)

var statusOrder = []SubmissionStatus{
	StatusApplied,
	StatusUnderReview,
	StatusReviewDone,
	StatusLawsuitInProgress,
	StatusFinished,
	StatusCanceled,
}

var statusLabels = map[SubmissionStatus]string{
	StatusApplied:           "접수완료",
	StatusUnderReview:       "검토중",
	StatusReviewDone:        "검토완료",
	StatusLawsuitInProgress: "소송진행",
	StatusFinished:          "종결",
	StatusCanceled:          "취소",
}

var labelStatuses = func() map[string]SubmissionStatus {
	out := make(map[string]SubmissionStatus, len(statusLabels))
	for code, label := range statusLabels {
		out[label] = code
	}
	return out
}()

// Statuses returns every known status in workflow order.
func Statuses() []SubmissionStatus {
	out := make([]SubmissionStatus, len(statusOrder))
	copy(out, statusOrder)
	return out
}

func (s SubmissionStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label. Unknown codes are shown as stored.
func (s SubmissionStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// StatusFromLabel maps a display label back to its code.
func StatusFromLabel(label string) (SubmissionStatus, bool) {
	s, ok := labelStatuses[label]
	return s, ok
}
