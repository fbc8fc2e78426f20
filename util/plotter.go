package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ChartBar is one colored bar of a count chart.
type ChartBar struct {
	Label string
	Value int
	Color string
}

// PlotCountChart renders a bar chart page, one bar per entry, to w.
func PlotCountChart(w io.Writer, title string, bars []ChartBar) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	labels := make([]string, 0, len(bars))
	data := make([]opts.BarData, 0, len(bars))
	for _, b := range bars {
		labels = append(labels, b.Label)
		data = append(data, opts.BarData{
			Name:      b.Label,
			Value:     b.Value,
			ItemStyle: &opts.ItemStyle{Color: b.Color},
		})
	}

	bar.SetXAxis(labels).AddSeries("Events", data,
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
		}),
	)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
