package dashboard

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Value ranges used by RandomGenerator. Upper bounds are exclusive except
// for the conversion rate, which is rounded to one decimal place.
const (
	minRevenue           = 50000
	maxRevenue           = 100000
	minUsers             = 1000
	maxUsers             = 6000
	minPerformance       = 70
	maxPerformance       = 100
	minGrowth            = 10
	maxGrowth            = 60
	minPageViews         = 10000
	maxPageViews         = 60000
	minBounceRate        = 25
	maxBounceRate        = 55
	minSessionSeconds    = 120
	maxSessionSeconds    = 300
	minConversionRate    = 2.0
	conversionRateSpread = 5.0

	minChartValue = 8.0
	maxChartValue = 90.0
)

// Months labels the chart points in calendar order.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// RandomGenerator produces mock dashboard values from a seeded PRNG.
type RandomGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomGenerator builds a generator. The same seed yields the same sequence.
func NewRandomGenerator(seed uint64) *RandomGenerator {
	return &RandomGenerator{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// NewTimeSeededGenerator builds a generator seeded from the wall clock.
func NewTimeSeededGenerator() *RandomGenerator {
	return NewRandomGenerator(uint64(time.Now().UnixNano()))
}

// Metrics returns a new set of business KPIs.
func (g *RandomGenerator) Metrics() Metrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Metrics{
		Revenue:     g.between(minRevenue, maxRevenue),
		Users:       g.between(minUsers, maxUsers),
		Performance: g.between(minPerformance, maxPerformance),
		Growth:      g.between(minGrowth, maxGrowth),
	}
}

// Analytics returns a new set of engagement KPIs.
func (g *RandomGenerator) Analytics() Analytics {
	g.mu.Lock()
	defer g.mu.Unlock()
	conversion := minConversionRate + g.rnd.Float64()*conversionRateSpread
	return Analytics{
		PageViews:         g.between(minPageViews, maxPageViews),
		BounceRate:        g.between(minBounceRate, maxBounceRate),
		AvgSessionSeconds: g.between(minSessionSeconds, maxSessionSeconds),
		ConversionRate:    math.Round(conversion*10) / 10,
	}
}

// ChartPoints returns twelve monthly bars shaped by a sine wave plus jitter.
// The values are cosmetic and unrelated to the current Metrics.
func (g *RandomGenerator) ChartPoints() []ChartPoint {
	g.mu.Lock()
	defer g.mu.Unlock()
	points := make([]ChartPoint, len(Months))
	for i, month := range Months {
		wave := 45 + 35*math.Sin(float64(i)*0.6)
		value := clampChartValue(math.Round(wave + g.rnd.Float64()*10 - 5))
		points[i] = ChartPoint{
			Month:   month,
			Value:   value,
			Revenue: int(value*1000) + g.rnd.IntN(500),
		}
	}
	return points
}

// between returns an int in [lo, hi). Callers hold g.mu.
func (g *RandomGenerator) between(lo, hi int) int {
	return lo + g.rnd.IntN(hi-lo)
}

func clampChartValue(v float64) float64 {
	return math.Max(minChartValue, math.Min(maxChartValue, v))
}

// StaticGenerator always returns the same values. Useful for tests and demos.
type StaticGenerator struct {
	Fixed     Metrics
	Secondary Analytics
	Points    []ChartPoint
}

// Metrics returns the fixed metrics.
func (g StaticGenerator) Metrics() Metrics { return g.Fixed }

// Analytics returns the fixed analytics.
func (g StaticGenerator) Analytics() Analytics { return g.Secondary }

// ChartPoints returns a copy of the fixed points.
func (g StaticGenerator) ChartPoints() []ChartPoint {
	return append([]ChartPoint(nil), g.Points...)
}
