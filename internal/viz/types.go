// Package viz renders publication summaries as charts.
package viz

import (
	"fmt"
	"strings"

	"github.com/matsen/pubx/internal/aggregate"
)

// Chart geometry, in SVG user units.
const (
	chartWidth   = 720
	lineHeight   = 320
	marginLeft   = 56
	marginRight  = 24
	marginTop    = 24
	marginBottom = 56
	barRowHeight = 26
	barLabelArea = 200
	maxXLabels   = 12
	maxYTicks    = 5
)

// Charts contains everything needed to render the two publication charts.
type Charts struct {
	Title   string    `json:"title"`
	Records int       `json:"records"`
	Years   LineChart `json:"years"`
	Authors BarChart  `json:"authors"`
}

// LineChart is publications per year, laid out for SVG.
type LineChart struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Points   []Point `json:"points"`
	YTicks   []Tick  `json:"y_ticks"`
	Polyline string  `json:"-"`
	Baseline float64 `json:"-"`
	Left     float64 `json:"-"`
	Right    float64 `json:"-"`
}

// Point is one year on the line chart.
type Point struct {
	Label     string  `json:"label"`
	Count     int     `json:"count"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowLabel bool    `json:"-"`
}

// Tick is a labelled horizontal grid line.
type Tick struct {
	Value int     `json:"value"`
	Y     float64 `json:"y"`
}

// BarChart is the top authors, laid out for SVG as horizontal bars.
type BarChart struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Bars   []Bar `json:"bars"`
}

// Bar is one author row.
type Bar struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Y     float64 `json:"y"`
	Width float64 `json:"width"`
}

// IsEmpty returns true if neither chart has data.
func (c *Charts) IsEmpty() bool {
	return len(c.Years.Points) == 0 && len(c.Authors.Bars) == 0
}

// BuildCharts lays out a summary for rendering.
func BuildCharts(summary aggregate.Summary, title string) *Charts {
	return &Charts{
		Title:   title,
		Records: summary.Records,
		Years:   buildLineChart(summary.PerYear),
		Authors: buildBarChart(summary.TopAuthors),
	}
}

func buildLineChart(years []aggregate.YearCount) LineChart {
	lc := LineChart{
		Width:    chartWidth,
		Height:   lineHeight,
		Baseline: lineHeight - marginBottom,
		Left:     marginLeft,
		Right:    chartWidth - marginRight,
	}
	if len(years) == 0 {
		return lc
	}

	maxCount := 0
	for _, y := range years {
		if y.Count > maxCount {
			maxCount = y.Count
		}
	}

	plotW := float64(chartWidth - marginLeft - marginRight)
	plotH := float64(lineHeight - marginTop - marginBottom)
	step := plotW / float64(len(years))
	stride := (len(years) + maxXLabels - 1) / maxXLabels

	coords := make([]string, len(years))
	lc.Points = make([]Point, len(years))
	for i, y := range years {
		p := Point{
			Label:     y.Year,
			Count:     y.Count,
			X:         round1(marginLeft + step*(float64(i)+0.5)),
			Y:         round1(marginTop + plotH - plotH*float64(y.Count)/float64(maxCount)),
			ShowLabel: i%stride == 0,
		}
		lc.Points[i] = p
		coords[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	lc.Polyline = strings.Join(coords, " ")

	for _, v := range tickValues(maxCount) {
		lc.YTicks = append(lc.YTicks, Tick{
			Value: v,
			Y:     round1(marginTop + plotH - plotH*float64(v)/float64(maxCount)),
		})
	}
	return lc
}

// tickValues returns evenly spaced integer ticks from 0 up to top.
func tickValues(top int) []int {
	step := (top + maxYTicks - 1) / maxYTicks
	if step < 1 {
		step = 1
	}
	var ticks []int
	for v := 0; v <= top; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

func buildBarChart(authors []aggregate.AuthorCount) BarChart {
	bc := BarChart{
		Width:  chartWidth,
		Height: marginTop + len(authors)*barRowHeight + marginTop,
	}
	if len(authors) == 0 {
		return bc
	}

	maxCount := 0
	for _, a := range authors {
		if a.Count > maxCount {
			maxCount = a.Count
		}
	}

	plotW := float64(chartWidth - barLabelArea - marginRight - 40)
	bc.Bars = make([]Bar, len(authors))
	for i, a := range authors {
		bc.Bars[i] = Bar{
			Label: a.Author,
			Count: a.Count,
			Y:     float64(marginTop + i*barRowHeight),
			Width: round1(plotW * float64(a.Count) / float64(maxCount)),
		}
	}
	return bc
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
