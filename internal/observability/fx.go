package observability

import (
	"github.com/hopelink/hopelink/internal/observability/logger"
	"github.com/hopelink/hopelink/internal/observability/metrics"
	"github.com/hopelink/hopelink/internal/observability/tracing"
	"go.uber.org/fx"
)

// Module wires logging, tracing and metrics into the fx graph.
var Module = fx.Module("observability",
	fx.Provide(LoadConfig),
	fx.Provide(provideLoggerConfig),
	fx.Provide(logger.New),
	fx.Provide(provideTracingConfig),
	fx.Provide(tracing.NewProvider),
	fx.Provide(provideMetricsConfig),
	fx.Provide(metrics.NewProvider),
	fx.Provide(metrics.New),
	fx.Provide(metrics.NewHTTPMetrics),
)

func provideLoggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		Debug:               cfg.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: true,
	}
}

func provideTracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.OtelEnabled,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
		Version:          cfg.Version,
		SamplingRatio:    cfg.OtelSamplingRatio,
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.OtelEnabled,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
	}
}
