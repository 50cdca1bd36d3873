package exportrecords

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"classaction-admin/internal/common/errors"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/common/metrics"
	"classaction-admin/internal/dashboard"
)

const (
	TaskType = "export-records"
)

type Handler struct {
	config  *Config
	service *dashboard.Service
	logger  logger.Logger
}

func NewHandler(config *Config, service *dashboard.Service, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		service: service,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewInvalidFilterFormatError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())

	h.logger.Info("export completed", map[string]interface{}{
		"jobKey":   job.Key,
		"fileName": output.FileName,
		"rowCount": output.RowCount,
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidFilterFormatError("input cannot be nil")
	}

	var (
		file *dashboard.ExportFile
		err  error
	)
	switch dashboard.ExportKind(input.Kind) {
	case dashboard.ExportMembers:
		file, err = h.service.ExportMembers(ctx, dashboard.MemberFilter{Query: input.Query})
	case dashboard.ExportSubmissions:
		file, err = h.service.ExportSubmissions(ctx, dashboard.SubmissionFilter{
			MemberEmail: input.MemberEmail,
			Litigation:  input.Litigation,
			Franchise:   input.Franchise,
		})
	default:
		return nil, errors.NewInvalidFilterFormatError(fmt.Sprintf("unknown export kind %q", input.Kind))
	}
	if err != nil {
		return nil, err
	}

	if h.config.MaxContentBytes > 0 && len(file.Content) > h.config.MaxContentBytes {
		return nil, errors.NewExportEncodingFailedError(file.FileName,
			fmt.Errorf("workbook is %d bytes, limit is %d", len(file.Content), h.config.MaxContentBytes))
	}

	return &Output{
		FileName: file.FileName,
		MimeType: file.MimeType,
		RowCount: file.RowCount,
		Content:  base64.StdEncoding.EncodeToString(file.Content),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	errors.NewJobErrorHandler(h.logger).HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
