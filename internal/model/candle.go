package model

import "time"

type Candle struct {
	Ts       time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
	Turnover float64
}

// CandleSeries is ordered by Ts ascending with no duplicate timestamps.
// An empty series means the fetch failed or the window had no data.
type CandleSeries []Candle

func (s CandleSeries) VolumeSum() float64 {
	var sum float64
	for _, c := range s {
		sum += c.Volume
	}
	return sum
}

func (s CandleSeries) MaxHigh() float64 {
	if len(s) == 0 {
		return 0
	}
	max := s[0].High
	for _, c := range s[1:] {
		if c.High > max {
			max = c.High
		}
	}
	return max
}

func (s CandleSeries) MinLow() float64 {
	if len(s) == 0 {
		return 0
	}
	min := s[0].Low
	for _, c := range s[1:] {
		if c.Low < min {
			min = c.Low
		}
	}
	return min
}

type Ticker struct {
	Symbol      string
	LastPrice   float64
	Turnover24h float64
	FundingRate float64
}
