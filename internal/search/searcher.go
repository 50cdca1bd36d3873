package search

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"classaction-admin/internal/common/errors"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/models"
)

const DefaultIndex = "submissions"

// indexMapping keeps franchise and status as keywords so term filters
// match whole values.
const indexMapping = `{
  "mappings": {
    "properties": {
      "member_email": {"type": "text"},
      "litigation":   {"type": "text"},
      "franchise":    {"type": "keyword"},
      "status":       {"type": "keyword"},
      "created_at":   {"type": "date"},
      "applicants":   {"properties": {"name": {"type": "text"}}},
      "stores":       {"properties": {"name": {"type": "text"}}}
    }
  }
}`

// Hit is one matching submission.
type Hit struct {
	ID             string            `json:"id"`
	Score          float64           `json:"score"`
	Submission     models.Submission `json:"submission"`
	LitigationHTML *string           `json:"litigationHtml"`
}

// Result is one page of hits.
type Result struct {
	Items []Hit `json:"items"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

// Searcher runs submission searches against one index.
type Searcher struct {
	client  *elasticsearch.Client
	index   string
	timeout time.Duration
	loc     *time.Location
	logger  logger.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLocation sets the zone date bounds are read in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Searcher) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewSearcher(client *elasticsearch.Client, index string, timeout time.Duration, log logger.Logger, opts ...Option) *Searcher {
	if index == "" {
		index = DefaultIndex
	}
	s := &Searcher{
		client:  client,
		index:   index,
		timeout: timeout,
		loc:     time.UTC,
		logger:  log.WithFields(map[string]interface{}{"component": "search", "index": index}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Searcher) Index() string {
	return s.index
}

type searchResponse struct {
	Hits struct {
		Total json.RawMessage `json:"total"`
		Hits  []struct {
			ID        string              `json:"_id"`
			Score     *float64            `json:"_score"`
			Source    models.Submission   `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search normalizes q and returns the requested page.
func (s *Searcher) Search(ctx context.Context, q Query) (*Result, error) {
	q = q.Normalize()
	q.loc = s.loc
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, err)
	}

	from, size := q.From(), q.Size
	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}

	start := time.Now()
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, s.requestError(ctx, err)
	}
	defer res.Body.Close()

	if err := s.responseError(res); err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(s.index, fmt.Errorf("decode response: %w", err))
	}

	out := &Result{
		Items: make([]Hit, 0, len(parsed.Hits.Hits)),
		Page:  q.Page,
		Size:  q.Size,
		Total: totalHits(parsed.Hits.Total),
	}
	for _, h := range parsed.Hits.Hits {
		hit := Hit{ID: h.ID, Submission: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		if frags := h.Highlight["litigation"]; len(frags) > 0 {
			hit.LitigationHTML = &frags[0]
		}
		out.Items = append(out.Items, hit)
	}

	s.logger.Debug("search completed", map[string]interface{}{
		"q":        q.Q,
		"total":    out.Total,
		"returned": len(out.Items),
		"duration": time.Since(start).String(),
	})
	return out, nil
}

// EnsureIndex creates the index with its mapping unless it already exists.
func (s *Searcher) EnsureIndex(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return s.requestError(ctx, err)
	}
	exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  bytes.NewReader([]byte(indexMapping)),
	}.Do(ctx, s.client)
	if err != nil {
		return s.requestError(ctx, err)
	}
	defer res.Body.Close()
	return s.responseError(res)
}

// IndexSubmissions writes subs keyed by submission id and makes them
// searchable before returning.
func (s *Searcher) IndexSubmissions(ctx context.Context, subs []models.Submission) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	indexed := 0
	for _, sub := range subs {
		doc, err := json.Marshal(indexDocument(sub))
		if err != nil {
			return indexed, errors.NewSearchQueryFailedError(s.index, err)
		}

		res, err := esapi.IndexRequest{
			Index:      s.index,
			DocumentID: strconv.FormatInt(sub.ID, 10),
			Body:       bytes.NewReader(doc),
			Refresh:    "wait_for",
		}.Do(ctx, s.client)
		if err != nil {
			return indexed, s.requestError(ctx, err)
		}
		err = s.responseError(res)
		res.Body.Close()
		if err != nil {
			return indexed, err
		}
		indexed++
	}

	s.logger.Info("submissions indexed", map[string]interface{}{"count": indexed})
	return indexed, nil
}

// indexDocument blanks store and applicant lists that were kept as raw text;
// the mapping only accepts objects there.
func indexDocument(sub models.Submission) models.Submission {
	if sub.Stores.Invalid {
		sub.Stores = models.StoreList{}
	}
	if sub.Applicants.Invalid {
		sub.Applicants = models.ApplicantList{}
	}
	return sub
}

func (s *Searcher) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Searcher) requestError(ctx context.Context, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewSearchTimeoutError(s.index)
	}
	return errors.NewSearchQueryFailedError(s.index, err)
}

func (s *Searcher) responseError(res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	if res.StatusCode == http.StatusNotFound {
		return errors.NewIndexNotFoundError(s.index)
	}
	return errors.NewSearchQueryFailedError(s.index, fmt.Errorf("elasticsearch error: %s", res.String()))
}

// totalHits reads hits.total in either the object or the bare number form.
func totalHits(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var obj struct {
		Value int64 `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}
