package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

func TestInstrumentDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&widget{}))

	reader, provider := testMeter()
	core, logs := observer.New(zap.WarnLevel)

	_, err = InstrumentDB(db, provider.Meter("db"), DBConfig{SlowQueryThreshold: time.Nanosecond}, zap.New(core))
	require.NoError(t, err)

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	var found []widget
	require.NoError(t, db.Find(&found).Error)
	err = db.First(&widget{}, 999).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got := collect(t, reader)
	hist, ok := got["db.client.operation.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
	assert.Equal(t, int64(3), sumInt(t, got["db.client.slow_queries"]))
	_, hasErrors := got["db.client.errors"]
	assert.False(t, hasErrors, "record not found is not an error")

	assert.Equal(t, 3, logs.FilterMessage("Slow database statement").Len())
}

func TestInstrumentDB_NilMeter(t *testing.T) {
	_, err := InstrumentDB(nil, nil, DBConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrMeterNil)
}
