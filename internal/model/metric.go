package model

type Metric string

const (
	PriceChange  Metric = "price_change"
	PriceRange   Metric = "price_range"
	VolumeChange Metric = "volume_change"
	Correlation  Metric = "correlation"
	FundingRate  Metric = "funding_rate"
)

// Metrics lists every supported metric in dashboard order.
var Metrics = []Metric{PriceChange, PriceRange, VolumeChange, Correlation, FundingRate}

func ParseMetric(s string) (Metric, bool) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// PerPeriod reports whether the metric has a value per lookback period.
// funding_rate is a single instantaneous value per symbol.
func (m Metric) PerPeriod() bool {
	return m != FundingRate
}

// Table is a formatted metric table as served to the dashboard. A nil
// cell means the value is undefined for that symbol and period.
type Table struct {
	Columns []string    `json:"columns"`
	Rows    [][]*string `json:"rows"`
}
