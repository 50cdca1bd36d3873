package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"classaction-admin/internal/common/config"
	"classaction-admin/internal/common/logger"
)

const meterName = "classaction-admin/workers"

// StartWorker opens a job worker for taskType. It returns nil when the
// worker is disabled in config.
func StartWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler worker.JobHandler, log logger.Logger) worker.JobWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return nil
	}

	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return jobWorker
}

// Instrument counts activations of taskType and records how long each
// takes through the global OpenTelemetry meter provider.
func Instrument(taskType string, handler worker.JobHandler) worker.JobHandler {
	meter := otel.Meter(meterName)
	processed, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs handled"),
	)
	duration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job handling duration"),
		otelmetric.WithUnit("ms"),
	)
	attrs := otelmetric.WithAttributes(attribute.String("task_type", taskType))

	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		handler(client, job)

		ctx := context.Background()
		processed.Add(ctx, 1, attrs)
		duration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
	}
}
