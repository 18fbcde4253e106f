package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes a self-contained echarts page for series to w. All
// series must share the same sample times.
func RenderHTML(w io.Writer, title string, series []Series) error {
	if len(series) == 0 {
		return ErrNoSeries
	}

	x := make([]string, len(series[0].Points))
	for i, pt := range series[0].Points {
		x[i] = strconv.FormatFloat(pt.T, 'f', -1, 64)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("competitors=%d samples=%d", len(series), len(x))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "elapsed (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "distance", NameLocation: "middle", NameGap: 45}),
	)
	line.SetXAxis(x)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Points))
		for i, pt := range s.Points {
			data[i] = opts.LineData{Value: pt.D}
		}
		line.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
