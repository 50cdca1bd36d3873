package exportrecords

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"classaction-admin/internal/cache"
	"classaction-admin/internal/common/camunda/camundatest"
	"classaction-admin/internal/common/config"
	"classaction-admin/internal/common/errors"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/dashboard"
	"classaction-admin/internal/records"
)

func createTestConfig() *Config {
	return &Config{
		Timeout:         5 * time.Second,
		MaxContentBytes: 1 << 20,
	}
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createTestService(t *testing.T) *dashboard.Service {
	log := createTestLogger(t)
	source := records.NewCached(records.NewFixture(), cache.NewMemory(), records.DefaultTTL, log)
	return dashboard.NewService(source, log)
}

func decodeRows(t *testing.T, content string) [][]string {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(content)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	return rows
}

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.WorkerConfig{})
	assert.Equal(t, 60*time.Second, cfg.Timeout)

	cfg = LoadConfig(config.WorkerConfig{Timeout: 1500})
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
}

func TestExecute(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestService(t), createTestLogger(t))
	ctx := context.Background()

	tests := []struct {
		name     string
		input    *Input
		wantRows int
		wantName string
	}{
		{name: "all members", input: &Input{Kind: "members"}, wantRows: 2, wantName: "_회원목록.xlsx"},
		{name: "filtered members", input: &Input{Kind: "members", Query: "철수"}, wantRows: 1, wantName: "_회원목록.xlsx"},
		{name: "submissions by franchise", input: &Input{Kind: "submissions", Franchise: "쿠팡"}, wantRows: 1, wantName: "_신청명단.xlsx"},
		{name: "no matching submissions", input: &Input{Kind: "submissions", MemberEmail: "nobody"}, wantRows: 0, wantName: "_신청명단.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := handler.Execute(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, out.RowCount)
			assert.Contains(t, out.FileName, tt.wantName)
			assert.Equal(t, dashboard.XLSXMimeType, out.MimeType)
			assert.Len(t, decodeRows(t, out.Content), tt.wantRows+1)
		})
	}
}

func TestExecute_Errors(t *testing.T) {
	ctx := context.Background()

	handler := NewHandler(createTestConfig(), createTestService(t), createTestLogger(t))
	_, err := handler.Execute(ctx, &Input{Kind: "invoices"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFilterFormat))

	_, err = handler.Execute(ctx, nil)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidFilterFormat))

	small := &Config{Timeout: time.Second, MaxContentBytes: 16}
	handler = NewHandler(small, createTestService(t), createTestLogger(t))
	_, err = handler.Execute(ctx, &Input{Kind: "members"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeExportEncodingFailed))
}

func TestHandle_CompletesJob(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestService(t), createTestLogger(t))
	client := camundatest.NewJobClient()

	job, err := camundatest.NewJob(11, 3, Input{Kind: "submissions", MemberEmail: "demo1"})
	require.NoError(t, err)

	handler.Handle(client, job)

	require.Len(t, client.Completed(), 1)
	assert.Empty(t, client.Thrown())
	assert.Equal(t, int64(11), client.Completed()[0].JobKey)

	vars, err := client.CompletedVariables(0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, vars["rowCount"])
	assert.Equal(t, dashboard.XLSXMimeType, vars["mimeType"])

	rows := decodeRows(t, vars["content"].(string))
	require.Len(t, rows, 2)
	assert.Equal(t, "demo1@example.com", rows[1][1])
}

func TestHandle_InvalidKindThrowsError(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestService(t), createTestLogger(t))
	client := camundatest.NewJobClient()

	job, err := camundatest.NewJob(12, 3, Input{Kind: "invoices"})
	require.NoError(t, err)

	handler.Handle(client, job)

	assert.Empty(t, client.Completed())
	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INVALID_FILTER_FORMAT", client.Thrown()[0].ErrorCode)
}

func TestHandle_MalformedVariables(t *testing.T) {
	handler := NewHandler(createTestConfig(), createTestService(t), createTestLogger(t))
	client := camundatest.NewJobClient()

	job := entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 13, Retries: 3, Variables: "{not json"}}
	handler.Handle(client, job)

	assert.Empty(t, client.Completed())
	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, int64(13), client.Thrown()[0].JobKey)
}
