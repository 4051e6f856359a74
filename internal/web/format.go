package web

import (
	"fmt"

	"github.com/perp-tools/bybit-screener/internal/model"
	"github.com/perp-tools/bybit-screener/internal/screener"
	"github.com/perp-tools/bybit-screener/internal/tools"
)

type cellFormat struct {
	places  int32
	percent bool
	scale   float64
}

// funding rates come in as fractions (0.0001), shown as 0.0100%.
// Correlation is unitless and stays a plain decimal.
var cellFormats = map[model.Metric]cellFormat{
	model.PriceChange:  {places: 2, percent: true, scale: 1},
	model.PriceRange:   {places: 2, percent: true, scale: 1},
	model.VolumeChange: {places: 2, percent: true, scale: 1},
	model.FundingRate:  {places: 4, percent: true, scale: 100},
	model.Correlation:  {places: 2, percent: false, scale: 1},
}

// FormatTable turns a raw engine result into the presentation table.
// Undefined cells stay nil and serialize as JSON null.
func FormatTable(res screener.Result) model.Table {
	columns := []string{"symbol"}
	if res.Metric.PerPeriod() {
		for _, p := range res.Periods {
			columns = append(columns, fmt.Sprintf("%s_%s", res.Metric, p))
		}
	} else {
		columns = append(columns, string(res.Metric))
	}

	f := cellFormats[res.Metric]

	rows := make([][]*string, 0, len(res.Rows))
	for _, r := range res.Rows {
		row := make([]*string, 0, len(r.Values)+1)
		symbol := r.Symbol
		row = append(row, &symbol)
		for _, v := range r.Values {
			row = append(row, formatCell(v, f))
		}
		rows = append(rows, row)
	}

	return model.Table{Columns: columns, Rows: rows}
}

func formatCell(v *float64, f cellFormat) *string {
	if v == nil {
		return nil
	}
	var s string
	if f.percent {
		s = tools.FormatPercent(*v*f.scale, f.places)
	} else {
		s = tools.FormatDecimal(*v*f.scale, f.places)
	}
	return &s
}
