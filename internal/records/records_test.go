package records

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classaction-admin/internal/cache"
	commonerrors "classaction-admin/internal/common/errors"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/models"
)

// ==========================
// Fixture
// ==========================

func TestFixture_Records(t *testing.T) {
	f := NewFixture()
	ctx := context.Background()

	members, err := f.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "demo1@example.com", members[0].Email)
	assert.Equal(t, "김철수", members[1].Name)

	subs, err := f.ListSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, models.StatusApplied, subs[0].Status)
	assert.Equal(t, models.StatusUnderReview, subs[1].Status)
	assert.Equal(t, []models.StoreEntry{{Name: "서울 1호점", Period: "2020-01 ~ 2023-01"}}, subs[0].Stores.Entries)
	assert.Equal(t, "김철수", subs[1].Applicants.Entries[0].Name)
	assert.Equal(t, "2025-11-05", subs[1].CreatedAt.Format("2006-01-02"))
}

func TestFixture_ReturnsSnapshots(t *testing.T) {
	f := NewFixture()
	ctx := context.Background()

	first, _ := f.ListMembers(ctx)
	first[0].Name = "changed"

	second, _ := f.ListMembers(ctx)
	assert.Equal(t, "홍길동", second[0].Name)
}

// ==========================
// Postgres
// ==========================

func TestPostgres_ListMembers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, email, name, phone, national_id, address, created_at\s+FROM members`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "phone", "national_id", "address", "created_at"}).
			AddRow(int64(1), "demo1@example.com", "홍길동", "010-1234-5678", "900101-1234567", "서울", created).
			AddRow(int64(2), "demo2@example.com", nil, nil, nil, nil, created))

	members, err := NewPostgres(db, time.Second).ListMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "홍길동", members[0].Name)
	assert.True(t, created.Equal(members[0].CreatedAt))
	assert.Empty(t, members[1].Name)
	assert.Empty(t, members[1].Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListSubmissions_NormalizesLists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	columns := []string{
		"id", "member_email", "intention", "address", "email", "franchise", "backup_phone",
		"coupon_used", "agree_privacy", "confirm_info", "stores", "applicants",
		"created_at", "status", "litigation",
	}
	mock.ExpectQuery(`(?s)SELECT id, member_email, .+FROM submissions`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "demo1@example.com", "참여", "서울", "demo1@example.com", "배달의민족", "010",
				true, true, true, `[{"name":"서울 1호점","period":"2020-01 ~ 2023-01"}]`, []byte(`[{"name":"홍길동"}]`),
				created, "APPLIED", "배민 수수료 소송").
			AddRow(int64(2), "demo2@example.com", nil, nil, nil, nil, nil,
				false, false, false, "not-json", nil,
				created, "ON_HOLD", nil))

	subs, err := NewPostgres(db, 0).ListSubmissions(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, "서울 1호점", subs[0].Stores.Entries[0].Name)
	assert.Equal(t, "홍길동", subs[0].Applicants.Entries[0].Name)
	assert.Equal(t, models.StatusApplied, subs[0].Status)

	assert.True(t, subs[1].Stores.Invalid)
	assert.Equal(t, "not-json", subs[1].Stores.Raw)
	assert.Empty(t, subs[1].Applicants.Entries)
	assert.Equal(t, models.SubmissionStatus("ON_HOLD"), subs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_QueryErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode commonerrors.ErrorCode
	}{
		{name: "driver failure", err: errors.New("connection reset"), wantCode: commonerrors.ErrCodeQueryExecutionFailed},
		{name: "deadline", err: context.DeadlineExceeded, wantCode: commonerrors.ErrCodeQueryTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`FROM members`).WillReturnError(tt.err)

			_, err = NewPostgres(db, time.Second).ListMembers(context.Background())
			require.Error(t, err)
			assert.True(t, commonerrors.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestPostgres_InsertSubmissions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	subs := FixtureSubmissions()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO submissions`)
	prep.ExpectExec().
		WithArgs(int64(1), "demo1@example.com", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "배달의민족", sqlmock.AnyArg(),
			true, true, true, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "APPLIED", "배민 수수료 소송").
		WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(2, 0))
	mock.ExpectCommit()

	n, err := NewPostgres(db, 0).InsertSubmissions(context.Background(), subs)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS members`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgres(db, 0).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Cached
// ==========================

type countingStore struct {
	Store
	members     atomic.Int32
	submissions atomic.Int32
	err         error
}

func (s *countingStore) ListMembers(ctx context.Context) ([]models.Member, error) {
	s.members.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.Store.ListMembers(ctx)
}

func (s *countingStore) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	s.submissions.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.Store.ListSubmissions(ctx)
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func TestCached_ServesWithinTTL(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: NewFixture()}
	clk := &clock{now: time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)}
	c := NewCached(store, cache.NewMemory(), DefaultTTL, logger.NewTestLogger(t), WithClock(clk.Now))

	first, err := c.ListSubmissions(ctx)
	require.NoError(t, err)

	clk.now = clk.now.Add(599 * time.Second)
	second, err := c.ListSubmissions(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(1), store.submissions.Load())
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].Applicants, second[0].Applicants)
	assert.True(t, first[0].CreatedAt.Equal(second[0].CreatedAt))

	clk.now = clk.now.Add(2 * time.Second)
	_, err = c.ListSubmissions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), store.submissions.Load())
}

func TestCached_InvalidateForcesRefetch(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: NewFixture()}
	c := NewCached(store, cache.NewMemory(), DefaultTTL, logger.NewTestLogger(t))

	_, _ = c.ListMembers(ctx)
	_, _ = c.ListSubmissions(ctx)
	_, _ = c.ListMembers(ctx)
	assert.Equal(t, int32(1), store.members.Load())

	require.NoError(t, c.Invalidate(ctx))

	_, _ = c.ListMembers(ctx)
	_, _ = c.ListSubmissions(ctx)
	assert.Equal(t, int32(2), store.members.Load())
	assert.Equal(t, int32(2), store.submissions.Load())
}

func TestCached_StoreErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: NewFixture(), err: commonerrors.NewRecordStoreUnavailableError(errors.New("down"))}
	c := NewCached(store, cache.NewMemory(), DefaultTTL, logger.NewTestLogger(t))

	_, err := c.ListMembers(ctx)
	require.Error(t, err)

	store.err = nil
	members, err := c.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, int32(2), store.members.Load())
}

type brokenCache struct{}

func (brokenCache) Load(context.Context, cache.Kind) (cache.Entry, bool, error) {
	return cache.Entry{}, false, commonerrors.NewCacheUnavailableError("get", errors.New("down"))
}

func (brokenCache) Save(context.Context, cache.Kind, cache.Entry) error {
	return commonerrors.NewCacheUnavailableError("set", errors.New("down"))
}

func (brokenCache) Invalidate(context.Context, ...cache.Kind) error {
	return commonerrors.NewCacheUnavailableError("del", errors.New("down"))
}

func TestCached_BrokenCacheFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: NewFixture()}
	c := NewCached(store, brokenCache{}, DefaultTTL, logger.NewTestLogger(t))

	members, err := c.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	err = c.Invalidate(ctx)
	assert.True(t, commonerrors.HasCode(err, commonerrors.ErrCodeCacheUnavailable))
}
