package submissionstats

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"classaction-admin/internal/cache"
	"classaction-admin/internal/common/camunda/camundatest"
	"classaction-admin/internal/common/errors"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/dashboard"
	"classaction-admin/internal/models"
	"classaction-admin/internal/records"
)

type unavailableStore struct{}

func (unavailableStore) ListMembers(context.Context) ([]models.Member, error) {
	return nil, errors.NewRecordStoreUnavailableError(stderrors.New("connection refused"))
}

func (unavailableStore) ListSubmissions(context.Context) ([]models.Submission, error) {
	return nil, errors.NewRecordStoreUnavailableError(stderrors.New("connection refused"))
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createTestService(t *testing.T, store records.Store) *dashboard.Service {
	log := createTestLogger(t)
	return dashboard.NewService(records.NewCached(store, cache.NewMemory(), records.DefaultTTL, log), log)
}

func TestExecute(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestService(t, records.NewFixture()), createTestLogger(t))

	tests := []struct {
		name  string
		input *Input
		want  *Output
	}{
		{
			name:  "all submissions",
			input: &Input{},
			want: &Output{
				DailyCounts:      []dashboard.DailyCount{{Date: "2025-11-03", Count: 1}, {Date: "2025-11-05", Count: 1}},
				TotalApplicants:  2,
				TotalSubmissions: 2,
			},
		},
		{
			name:  "by franchise",
			input: &Input{Franchise: "쿠팡"},
			want: &Output{
				DailyCounts:      []dashboard.DailyCount{{Date: "2025-11-05", Count: 1}},
				TotalApplicants:  1,
				TotalSubmissions: 1,
			},
		},
		{
			name:  "nothing matches",
			input: &Input{Litigation: "없는 소송"},
			want:  &Output{DailyCounts: []dashboard.DailyCount{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandle_CompletesJob(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestService(t, records.NewFixture()), createTestLogger(t))
	client := camundatest.NewJobClient()

	job, err := camundatest.NewJob(21, 3, Input{MemberEmail: "demo1"})
	require.NoError(t, err)

	handler.Handle(client, job)

	require.Len(t, client.Completed(), 1)
	vars, err := client.CompletedVariables(0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, vars["totalSubmissions"])
	assert.EqualValues(t, 1, vars["totalApplicants"])
	assert.Len(t, vars["dailyCounts"], 1)
}

func TestHandle_StoreDownFailsJobForRetry(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestService(t, unavailableStore{}), createTestLogger(t))
	client := camundatest.NewJobClient()

	job, err := camundatest.NewJob(22, 3, Input{})
	require.NoError(t, err)

	handler.Handle(client, job)

	assert.Empty(t, client.Completed())
	assert.Empty(t, client.Thrown())
	require.Len(t, client.Failed(), 1)
	assert.Equal(t, int32(2), client.Failed()[0].Retries)
}

func TestHandle_LastRetryThrowsError(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestService(t, unavailableStore{}), createTestLogger(t))
	client := camundatest.NewJobClient()

	job, err := camundatest.NewJob(23, 0, Input{})
	require.NoError(t, err)

	handler.Handle(client, job)

	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "RECORD_STORE_UNAVAILABLE", client.Thrown()[0].ErrorCode)
}
