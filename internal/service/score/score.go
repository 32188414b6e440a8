// Package score сводит историю цен к оценке привлекательности 0..100.
//
// Оценка = до 50 баллов за рост (последняя цена к первой, в порядке поступления точек)
// + до 50 баллов за стабильность (обратно выборочному стандартному отклонению цен).
// Точки не сортируются: порядок задаёт upstream.
package score

import (
	"math"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/domain"
)

const (
	growthWeight   = 200.0
	growthCap      = 50.0
	stabilityScale = 5.0
	stabilityEps   = 0.001
	stabilityCap   = 50.0
	maxScore       = 100.0
)

// Score — оценка истории цен. Пустая история даёт 0.
func Score(points []domain.PricePoint) int {
	if len(points) == 0 {
		return 0
	}
	first := points[0].Price
	last := points[len(points)-1].Price
	if len(points) == 1 && first == 0 {
		return 0
	}

	growth := 0.0
	if first != 0 {
		growth = (last - first) / first
	}
	growthPart := clamp(growth*growthWeight, 0, growthCap)
	stabilityPart := clamp(stabilityScale/(StdDev(points)+stabilityEps), 0, stabilityCap)

	return roundScore(math.Min(maxScore, growthPart+stabilityPart))
}

// StdDev — выборочное стандартное отклонение цен (делитель n-1); для одной точки 0.
func StdDev(points []domain.PricePoint) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Price
	}
	mean := sum / float64(n)

	var sq float64
	for _, p := range points {
		d := p.Price - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}

// clamp ограничивает v отрезком [lo, hi]; NaN считается нулём.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

// roundScore — округление до ближайшего целого, половины к чётному.
func roundScore(v float64) int {
	return int(math.RoundToEven(v))
}
