package dashboard

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"classaction-admin/internal/common/errors"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/common/metrics"
	"classaction-admin/internal/common/validation"
	"classaction-admin/internal/models"
)

const tracerName = "classaction-admin/dashboard"

// DefaultLocation is the zone dates are reported in when none is configured.
var DefaultLocation = time.FixedZone("KST", 9*60*60)

// RecordSource is a record store whose fetches can be dropped and re-read.
type RecordSource interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	ListSubmissions(ctx context.Context) ([]models.Submission, error)
	Invalidate(ctx context.Context) error
}

// ExportFile is a ready-to-download spreadsheet.
type ExportFile struct {
	FileName string
	MimeType string
	Content  []byte
	RowCount int
}

// Summary is the headline numbers shown above the tables.
type Summary struct {
	Members         int `json:"members"`
	Submissions     int `json:"submissions"`
	TotalApplicants int `json:"totalApplicants"`
}

// Stats summarizes a filtered submission set.
type Stats struct {
	DailyCounts      []DailyCount `json:"dailyCounts"`
	TotalSubmissions int          `json:"totalSubmissions"`
	TotalApplicants  int          `json:"totalApplicants"`
}

// Service answers dashboard reads over a RecordSource.
type Service struct {
	source   RecordSource
	location *time.Location
	now      func() time.Time
	tracer   trace.Tracer
	logger   logger.Logger
}

type Option func(*Service)

// WithLocation sets the zone record dates are shown, bucketed and exported
// in, and the zone export file names are stamped in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(source RecordSource, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		source:   source,
		location: DefaultLocation,
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
		logger:   log.WithFields(map[string]interface{}{"component": "dashboard"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) MemberTable(ctx context.Context, f MemberFilter) (Table, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.MemberTable")
	defer span.End()

	members, err := s.members(ctx, span, f)
	if err != nil {
		return Table{}, err
	}
	return MemberTable(members), nil
}

func (s *Service) SubmissionTable(ctx context.Context, f SubmissionFilter) (Table, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.SubmissionTable")
	defer span.End()

	subs, err := s.submissions(ctx, span, f)
	if err != nil {
		return Table{}, err
	}
	return SubmissionTable(subs), nil
}

// MemberDetail looks a member up by exact email.
func (s *Service) MemberDetail(ctx context.Context, email string) ([]DetailField, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.MemberDetail")
	defer span.End()

	members, err := s.listMembers(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	for _, m := range members {
		if m.Email == email {
			return MemberDetail(m), nil
		}
	}
	return nil, recordErr(span, errors.NewMemberNotFoundError(email))
}

func (s *Service) SubmissionDetail(ctx context.Context, id int64) ([]DetailField, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.SubmissionDetail")
	defer span.End()

	sub, err := s.findSubmission(ctx, id)
	if err != nil {
		return nil, recordErr(span, err)
	}
	return SubmissionDetail(sub), nil
}

func (s *Service) ExportMembers(ctx context.Context, f MemberFilter) (*ExportFile, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.ExportMembers")
	defer span.End()

	members, err := s.members(ctx, span, f)
	if err != nil {
		return nil, err
	}
	return s.export(span, ExportMembers, MemberTable(members))
}

func (s *Service) ExportSubmissions(ctx context.Context, f SubmissionFilter) (*ExportFile, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.ExportSubmissions")
	defer span.End()

	subs, err := s.submissions(ctx, span, f)
	if err != nil {
		return nil, err
	}
	return s.export(span, ExportSubmissions, SubmissionTable(subs))
}

// DailyCounts counts the submissions passing f per day.
func (s *Service) DailyCounts(ctx context.Context, f SubmissionFilter) ([]DailyCount, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.DailyCounts")
	defer span.End()

	subs, err := s.submissions(ctx, span, f)
	if err != nil {
		return nil, err
	}
	return DailyCounts(subs), nil
}

// SubmissionStats aggregates the submissions passing f.
func (s *Service) SubmissionStats(ctx context.Context, f SubmissionFilter) (Stats, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.SubmissionStats")
	defer span.End()

	subs, err := s.submissions(ctx, span, f)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		DailyCounts:      DailyCounts(subs),
		TotalSubmissions: len(subs),
		TotalApplicants:  TotalApplicants(subs),
	}, nil
}

// Summary always covers the unfiltered record sets.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.Summary")
	defer span.End()

	members, err := s.listMembers(ctx)
	if err != nil {
		return Summary{}, recordErr(span, err)
	}
	subs, err := s.listSubmissions(ctx)
	if err != nil {
		return Summary{}, recordErr(span, err)
	}
	return Summary{
		Members:         len(members),
		Submissions:     len(subs),
		TotalApplicants: TotalApplicants(subs),
	}, nil
}

// Refresh drops the cached record sets.
func (s *Service) Refresh(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.Refresh")
	defer span.End()

	if err := s.source.Invalidate(ctx); err != nil {
		return recordErr(span, err)
	}
	return nil
}

// SaveSubmissionEdit validates an edit and rejects it. Edits are not
// persisted anywhere, so a well-formed edit of an existing submission ends
// in EDIT_NOT_SUPPORTED.
func (s *Service) SaveSubmissionEdit(ctx context.Context, id int64, payload map[string]interface{}) error {
	ctx, span := s.tracer.Start(ctx, "dashboard.SaveSubmissionEdit", trace.WithAttributes(attribute.Int64("submission.id", id)))
	defer span.End()

	result, err := validation.ValidateSubmissionEdit(payload)
	if err != nil {
		return recordErr(span, errors.NewEditValidationFailedError(err.Error()))
	}
	if !result.Valid {
		return recordErr(span, errors.NewEditValidationFailedError(joinMessages(result.GetErrorMessages())))
	}

	if _, err := s.findSubmission(ctx, id); err != nil {
		return recordErr(span, err)
	}

	s.logger.Warn("submission edit rejected", map[string]interface{}{
		"submissionId": id,
		"fields":       len(payload),
	})
	return recordErr(span, errors.NewEditNotSupportedError(id))
}

// listMembers reads every member with CreatedAt moved into the service
// location.
func (s *Service) listMembers(ctx context.Context) ([]models.Member, error) {
	members, err := s.source.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Member, len(members))
	for i, m := range members {
		m.CreatedAt = s.localize(m.CreatedAt)
		out[i] = m
	}
	return out, nil
}

func (s *Service) listSubmissions(ctx context.Context) ([]models.Submission, error) {
	subs, err := s.source.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Submission, len(subs))
	for i, sub := range subs {
		sub.CreatedAt = s.localize(sub.CreatedAt)
		out[i] = sub
	}
	return out, nil
}

// localize leaves zero timestamps untouched.
func (s *Service) localize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.In(s.location)
}

func (s *Service) members(ctx context.Context, span trace.Span, f MemberFilter) ([]models.Member, error) {
	members, err := s.listMembers(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	out := FilterMembers(members, f)
	span.SetAttributes(attribute.Int("records.total", len(members)), attribute.Int("records.matched", len(out)))
	return out, nil
}

func (s *Service) submissions(ctx context.Context, span trace.Span, f SubmissionFilter) ([]models.Submission, error) {
	subs, err := s.listSubmissions(ctx)
	if err != nil {
		return nil, recordErr(span, err)
	}
	out := FilterSubmissions(subs, f)
	span.SetAttributes(attribute.Int("records.total", len(subs)), attribute.Int("records.matched", len(out)))
	return out, nil
}

func (s *Service) findSubmission(ctx context.Context, id int64) (models.Submission, error) {
	subs, err := s.listSubmissions(ctx)
	if err != nil {
		return models.Submission{}, err
	}
	for _, sub := range subs {
		if sub.ID == id {
			return sub, nil
		}
	}
	return models.Submission{}, errors.NewSubmissionNotFoundError(id)
}

func (s *Service) export(span trace.Span, kind ExportKind, t Table) (*ExportFile, error) {
	content, err := EncodeXLSX(t, kind.Title())
	if err != nil {
		return nil, recordErr(span, err)
	}

	metrics.ExportFiles.WithLabelValues(string(kind)).Inc()
	metrics.ExportBytes.WithLabelValues(string(kind)).Observe(float64(len(content)))

	file := &ExportFile{
		FileName: ExportFileName(kind, s.now().In(s.location)),
		MimeType: XLSXMimeType,
		Content:  content,
		RowCount: t.Len(),
	}
	s.logger.Info("export generated", map[string]interface{}{
		"kind":     string(kind),
		"fileName": file.FileName,
		"rows":     file.RowCount,
		"bytes":    len(content),
	})
	return file, nil
}

func recordErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func joinMessages(messages []string) string {
	out := ""
	for i, m := range messages {
		if i > 0 {
			out += "; "
		}
		out += m
	}
	return out
}
