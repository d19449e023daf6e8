package httpapi

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-monthly/internal/usecase"
)

const (
	chartWidth        = 880
	chartHeight       = 360
	chartMarginLeft   = 56
	chartMarginRight  = 16
	chartMarginTop    = 16
	chartMarginBottom = 40
	chartYTicks       = 5
)

var chartPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

type svgTick struct {
	Pos   float64
	Label string
}

type svgLine struct {
	Label  string
	Color  string
	Points string
	Final  int
}

// svgChart is the precomputed geometry of the cumulative chart so the template
// only emits elements.
type svgChart struct {
	Width, Height int
	Left, Right   float64
	Top, Bottom   float64
	XTicks        []svgTick
	YTicks        []svgTick
	Lines         []svgLine
}

func buildSVGChart(chart usecase.Chart) svgChart {
	out := svgChart{
		Width:  chartWidth,
		Height: chartHeight,
		Left:   chartMarginLeft,
		Right:  chartWidth - chartMarginRight,
		Top:    chartMarginTop,
		Bottom: chartHeight - chartMarginBottom,
	}
	if chart.IsEmpty() {
		return out
	}

	lo, hi := 0, 0
	for _, s := range chart.Series {
		for _, v := range s.Cumulative {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	n := len(chart.Gameweeks)
	x := func(i int) float64 {
		if n == 1 {
			return (out.Left + out.Right) / 2
		}
		return out.Left + float64(i)*(out.Right-out.Left)/float64(n-1)
	}
	y := func(v int) float64 {
		return out.Bottom - float64(v-lo)*(out.Bottom-out.Top)/float64(hi-lo)
	}

	step := max(1, (n+11)/12)
	for i, gw := range chart.Gameweeks {
		if i%step != 0 && i != n-1 {
			continue
		}
		out.XTicks = append(out.XTicks, svgTick{Pos: x(i), Label: strconv.Itoa(gw)})
	}
	for i := 0; i <= chartYTicks; i++ {
		v := lo + (hi-lo)*i/chartYTicks
		out.YTicks = append(out.YTicks, svgTick{Pos: y(v), Label: strconv.Itoa(v)})
	}

	for idx, s := range chart.Series {
		var b strings.Builder
		for i, v := range s.Cumulative {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(x(i), 'f', 1, 64))
			b.WriteByte(',')
			b.WriteString(strconv.FormatFloat(y(v), 'f', 1, 64))
		}
		final := 0
		if len(s.Cumulative) > 0 {
			final = s.Cumulative[len(s.Cumulative)-1]
		}
		out.Lines = append(out.Lines, svgLine{
			Label:  s.Label,
			Color:  chartPalette[idx%len(chartPalette)],
			Points: b.String(),
			Final:  final,
		})
	}

	return out
}
