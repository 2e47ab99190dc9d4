// Package chart renders analytics groups as PNG bar charts.
package chart

import (
	"bytes"
	"errors"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"

	"task-tracker/internal/domain"
)

var ErrNoData = errors.New("chart: no groups to render")

type BarRenderer struct {
	Width    int
	Height   int
	BarWidth int
}

func NewBarRenderer(width, height int) *BarRenderer {
	if width <= 0 {
		width = 600
	}
	if height <= 0 {
		height = 400
	}
	return &BarRenderer{Width: width, Height: height, BarWidth: 40}
}

func (r *BarRenderer) Render(groups []domain.GroupCount, groupBy domain.GroupBy) ([]byte, error) {
	if len(groups) == 0 {
		return nil, ErrNoData
	}
	bars := make([]gochart.Value, 0, len(groups))
	top := 1
	for _, g := range groups {
		bars = append(bars, gochart.Value{Label: g.Label, Value: float64(g.Count)})
		if g.Count > top {
			top = g.Count
		}
	}

	graph := gochart.BarChart{
		Title:      fmt.Sprintf("Tasks by %s", groupBy),
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   r.BarWidth,
		// fixed range: go-chart rejects a zero-height range when all bars are equal
		YAxis: gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: float64(top)}},
		Bars:  bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}
