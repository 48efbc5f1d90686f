package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	SurveyRequestsTotal   metric.Int64Counter
	SurveyDurationSeconds metric.Float64Histogram
	SearchRequestsTotal   metric.Int64Counter
	SearchDurationSeconds metric.Float64Histogram
	ModelCallErrorsTotal  metric.Int64Counter
	GuidesRankedPerSearch metric.Int64Histogram
	DbQueryErrorsTotal    metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once,
// using the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("mastour-server")
		var err error
		m := &AppMetrics{}

		m.SurveyRequestsTotal, err = meter.Int64Counter(
			"survey_requests_total",
			metric.WithDescription("Total number of personality survey submissions completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create survey_requests_total: %v", err)
		}

		m.SurveyDurationSeconds, err = meter.Float64Histogram(
			"survey_duration_seconds",
			metric.WithDescription("Duration of survey submissions in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create survey_duration_seconds: %v", err)
		}

		m.SearchRequestsTotal, err = meter.Int64Counter(
			"search_requests_total",
			metric.WithDescription("Total number of guide match searches completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create search_requests_total: %v", err)
		}

		m.SearchDurationSeconds, err = meter.Float64Histogram(
			"search_duration_seconds",
			metric.WithDescription("Duration of guide match searches in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create search_duration_seconds: %v", err)
		}

		m.ModelCallErrorsTotal, err = meter.Int64Counter(
			"model_call_errors_total",
			metric.WithDescription("Total number of failed external model calls"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create model_call_errors_total: %v", err)
		}

		m.GuidesRankedPerSearch, err = meter.Int64Histogram(
			"guides_ranked_per_search",
			metric.WithDescription("Number of candidate guides ranked per search"),
			metric.WithUnit("{guide}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create guides_ranked_per_search: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance. InitAppMetrics must run first.
func Get() *AppMetrics {
	return appMetrics
}
