package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DailySchedule fires once a day at Hour:Minute (local time)
type DailySchedule struct {
	Hour   int
	Minute int
}

// ParseDailySchedule accepts the daily subset of cron syntax: "m h * * *"
func ParseDailySchedule(expr string) (DailySchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return DailySchedule{}, fmt.Errorf("%w %q: expected 5 fields", ErrInvalidSchedule, expr)
	}
	for _, f := range fields[2:] {
		if f != "*" {
			return DailySchedule{}, fmt.Errorf("%w %q: only daily schedules are supported", ErrInvalidSchedule, expr)
		}
	}

	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return DailySchedule{}, fmt.Errorf("%w %q: bad minute", ErrInvalidSchedule, expr)
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return DailySchedule{}, fmt.Errorf("%w %q: bad hour", ErrInvalidSchedule, expr)
	}
	return DailySchedule{Hour: hour, Minute: minute}, nil
}

// Matches reports whether t falls in the scheduled minute
func (d DailySchedule) Matches(t time.Time) bool {
	return t.Hour() == d.Hour && t.Minute() == d.Minute
}

func (d DailySchedule) String() string {
	return fmt.Sprintf("%d %d * * *", d.Minute, d.Hour)
}
