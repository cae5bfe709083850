package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gosurvey/domain/survey"
)

// TrendPoints is the number of points sampled along a fitted trendline.
const TrendPoints = 100

// Trend is a least-squares line y = Intercept + Slope*x, with sampled points for drawing.
type Trend struct {
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
}

// Pairs collects the rows where both columns hold numbers.
func Pairs(t *survey.Table, xCol, yCol string) (xs, ys []float64, err error) {
	xv, err := t.Column(xCol)
	if err != nil {
		return nil, nil, err
	}
	yv, err := t.Column(yCol)
	if err != nil {
		return nil, nil, err
	}
	for i := range xv {
		x, okX := xv[i].Float()
		y, okY := yv[i].Float()
		if okX && okY {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys, nil
}

// FitTrend fits a degree-1 least-squares line. It reports false, without error, when there are
// fewer than two pairs, any value is NaN or infinite, or every x is the same.
func FitTrend(xs, ys []float64) (*Trend, bool) {
	if len(xs) < 2 || len(xs) != len(ys) || !finite(xs) || !finite(ys) {
		return nil, false
	}
	lo, _ := stats.Min(xs)
	hi, _ := stats.Max(xs)
	if lo == hi {
		return nil, false
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	tr := &Trend{
		Slope:     slope,
		Intercept: intercept,
		X:         floats.Span(make([]float64, TrendPoints), lo, hi),
		Y:         make([]float64, TrendPoints),
	}
	for i, x := range tr.X {
		tr.Y[i] = intercept + slope*x
	}
	return tr, true
}

func finite(vs []float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
