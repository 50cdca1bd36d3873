package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classaction-admin/internal/common/camunda/camundatest"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.messages = append(l.messages, msg)
}

func TestHasCode_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load members: %w", NewMemberNotFoundError("a@b.c"))

	assert.True(t, HasCode(err, ErrCodeMemberNotFound))
	assert.False(t, HasCode(err, ErrCodeSubmissionNotFound))
	assert.True(t, stderrors.Is(err, &StandardError{Code: ErrCodeMemberNotFound}))
}

func TestNormalize(t *testing.T) {
	known := NewSearchTimeoutError("submissions")
	assert.Same(t, known, Normalize(known))

	unknown := Normalize(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternal, unknown.Code)
	assert.Equal(t, "boom", unknown.Details)
	assert.False(t, unknown.Retryable)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidFilterFormat, http.StatusBadRequest},
		{ErrCodeEditValidationFailed, http.StatusBadRequest},
		{ErrCodeMemberNotFound, http.StatusNotFound},
		{ErrCodeSubmissionNotFound, http.StatusNotFound},
		{ErrCodeEditNotSupported, http.StatusNotImplemented},
		{ErrCodeSearchDisabled, http.StatusServiceUnavailable},
		{ErrCodeRecordStoreUnavailable, http.StatusServiceUnavailable},
		{ErrCodeQueryTimeout, http.StatusGatewayTimeout},
		{ErrCodeSearchQueryFailed, http.StatusBadGateway},
		{ErrCodeExportEncodingFailed, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewRecordStoreUnavailableError(stderrors.New("dial tcp")))
	assert.Equal(t, "RECORD_STORE_UNAVAILABLE", bpmn.Code)
	assert.Equal(t, 3, bpmn.Retries)

	vars := bpmn.ToErrorVariables()
	assert.Equal(t, "RECORD_STORE_UNAVAILABLE", vars["errorCode"])
	assert.Equal(t, "dial tcp", vars["errorDetails"])
	assert.Equal(t, "RECORD_STORE_UNAVAILABLE", vars["originalErrorCode"])

	bpmn = ConvertToBPMNError(NewEditNotSupportedError(1))
	assert.Equal(t, 0, bpmn.Retries)
	assert.False(t, bpmn.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want string
	}{
		{ErrCodeSearchTimeout, "SEARCH"},
		{ErrCodeIndexNotFound, "SEARCH"},
		{ErrCodeRecordStoreUnavailable, "DATABASE"},
		{ErrCodeQueryTimeout, "DATABASE"},
		{ErrCodeCacheUnavailable, "CACHE"},
		{ErrCodeExportEncodingFailed, "EXPORT"},
		{ErrCodeEditNotSupported, "EDIT"},
		{ErrCodeMemberNotFound, "LOOKUP"},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.code))
		})
	}
}

func TestIsRetryableErrorCode(t *testing.T) {
	assert.True(t, IsRetryableErrorCode(ErrCodeQueryExecutionFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeSearchTimeout))
	assert.False(t, IsRetryableErrorCode(ErrCodeInvalidFilterFormat))
	assert.False(t, IsRetryableErrorCode(ErrCodeEditNotSupported))
}

func TestHandleJobError_RetryableFailsJob(t *testing.T) {
	log := &recordingLogger{}
	client := camundatest.NewJobClient()
	job, err := camundatest.NewJob(7, 2, map[string]interface{}{})
	require.NoError(t, err)

	NewJobErrorHandler(log).HandleJobError(context.Background(), client, job,
		NewQueryExecutionFailedError("select members", stderrors.New("syntax error")))

	require.Len(t, client.Failed(), 1)
	assert.Empty(t, client.Thrown())

	failed := client.Failed()[0]
	assert.Equal(t, int64(7), failed.JobKey)
	assert.Equal(t, int32(1), failed.Retries)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(failed.Variables), &vars))
	assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["errorCode"])
	assert.Contains(t, log.messages, "job failed")
}

func TestHandleJobError_NonRetryableThrows(t *testing.T) {
	client := camundatest.NewJobClient()
	job, err := camundatest.NewJob(8, 3, map[string]interface{}{})
	require.NoError(t, err)

	NewJobErrorHandler(&recordingLogger{}).HandleJobError(context.Background(), client, job,
		NewInvalidFilterFormatError("bad kind"))

	assert.Empty(t, client.Failed())
	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INVALID_FILTER_FORMAT", client.Thrown()[0].ErrorCode)
}

func TestHandleJobError_UnknownErrorThrowsInternal(t *testing.T) {
	client := camundatest.NewJobClient()
	job, err := camundatest.NewJob(9, 3, map[string]interface{}{})
	require.NoError(t, err)

	NewJobErrorHandler(&recordingLogger{}).HandleJobError(context.Background(), client, job, stderrors.New("panic-ish"))

	require.Len(t, client.Thrown(), 1)
	assert.Equal(t, "INTERNAL_ERROR", client.Thrown()[0].ErrorCode)
}
