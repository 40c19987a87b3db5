package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBConfig controls database instrumentation
type DBConfig struct {
	TraceEnabled       bool
	SlowQueryThreshold time.Duration
}

const startedAtKey = "telemetry:started_at"

// DBInstrumentation times every GORM statement, warns about slow ones and,
// when tracing is on, installs the otelgorm span and pool-stats plugin.
type DBInstrumentation struct {
	duration metric.Float64Histogram
	slow     metric.Int64Counter
	errors   metric.Int64Counter
	cfg      DBConfig
	logger   *zap.Logger
}

// InstrumentDB registers the callbacks on db
func InstrumentDB(db *gorm.DB, meter metric.Meter, cfg DBConfig, logger *zap.Logger) (*DBInstrumentation, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}

	duration, err := meter.Float64Histogram("db.client.operation.duration",
		metric.WithDescription("Duration of database statements"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	slow, err := meter.Int64Counter("db.client.slow_queries",
		metric.WithDescription("Statements slower than the configured threshold"))
	if err != nil {
		return nil, err
	}
	errCount, err := meter.Int64Counter("db.client.errors",
		metric.WithDescription("Statements that returned an error other than record not found"))
	if err != nil {
		return nil, err
	}

	in := &DBInstrumentation{duration: duration, slow: slow, errors: errCount, cfg: cfg, logger: logger}

	if cfg.TraceEnabled {
		if err := db.Use(otelgorm.NewPlugin(
			otelgorm.WithDBName(db.Dialector.Name()),
			otelgorm.WithoutQueryVariables(),
		)); err != nil {
			return nil, err
		}
	}
	if err := in.register(db); err != nil {
		return nil, err
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.TraceEnabled),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return in, nil
}

func (in *DBInstrumentation) register(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, h := range hooks {
		if err := h.before("telemetry:before_"+h.op, in.start); err != nil {
			return err
		}
		if err := h.after("telemetry:after_"+h.op, in.finish(h.op)); err != nil {
			return err
		}
	}
	return nil
}

func (in *DBInstrumentation) start(db *gorm.DB) {
	db.InstanceSet(startedAtKey, time.Now())
}

func (in *DBInstrumentation) finish(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(started)

		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		attrs := metric.WithAttributes(
			attribute.String("db.operation.name", op),
			attribute.String("db.collection.name", db.Statement.Table),
		)
		in.duration.Record(ctx, elapsed.Seconds(), attrs)

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			in.errors.Add(ctx, 1, attrs)
		}
		if elapsed >= in.cfg.SlowQueryThreshold {
			in.slow.Add(ctx, 1, attrs)
			in.logger.Warn("Slow database statement",
				zap.String("operation", op),
				zap.String("table", db.Statement.Table),
				zap.Duration("elapsed", elapsed),
				zap.Int64("rows", db.Statement.RowsAffected),
			)
		}
	}
}
