package model

import (
	"fmt"
	"strconv"
	"time"
)

type PeriodUnit string

const (
	Hour PeriodUnit = "h"
	Day  PeriodUnit = "d"
)

// Period is a lookback window like "1h" or "7d". The same value drives
// both the window span and the kline interval granularity, so the two
// can't drift apart.
type Period struct {
	Value int
	Unit  PeriodUnit
}

func ParsePeriod(s string) (Period, error) {
	if len(s) < 2 {
		return Period{}, fmt.Errorf("invalid period %q", s)
	}

	unit := PeriodUnit(s[len(s)-1])
	if unit != Hour && unit != Day {
		return Period{}, fmt.Errorf("invalid period unit %q", s)
	}

	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Period{}, fmt.Errorf("%w: invalid period value %q", err, s)
	}
	if value <= 0 {
		return Period{}, fmt.Errorf("non-positive period %q", s)
	}

	return Period{Value: value, Unit: unit}, nil
}

func ParsePeriods(ss []string) ([]Period, error) {
	periods := make([]Period, 0, len(ss))
	for _, s := range ss {
		p, err := ParsePeriod(s)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}

func (p Period) String() string {
	return strconv.Itoa(p.Value) + string(p.Unit)
}

func (p Period) Seconds() int64 {
	if p.Unit == Day {
		return int64(p.Value) * 86400
	}
	return int64(p.Value) * 3600
}

func (p Period) Duration() time.Duration {
	return time.Duration(p.Seconds()) * time.Second
}

// KlineInterval is the Bybit interval parameter matching this lookback:
// minute candles for windows up to an hour, hourly candles otherwise.
func (p Period) KlineInterval() string {
	if p.Duration() <= time.Hour {
		return "1"
	}
	return "60"
}

func (p Period) IntervalDuration() time.Duration {
	if p.KlineInterval() == "1" {
		return time.Minute
	}
	return time.Hour
}
