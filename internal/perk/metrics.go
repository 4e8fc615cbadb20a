package perk

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	SeedSkipped prometheus.Counter
}

// NewMetrics registers the perk collectors on reg. size is sampled at scrape time.
func NewMetrics(reg prometheus.Registerer, size func() int) *Metrics {
	m := &Metrics{
		SeedSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perks_seed_skipped_total",
			Help: "Seed records skipped because they had no id",
		}),
	}

	stored := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "perks_stored",
			Help: "Perks currently held in the store",
		},
		func() float64 { return float64(size()) },
	)

	reg.MustRegister(m.SeedSkipped, stored)
	return m
}

func (m *Metrics) seedSkipped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.SeedSkipped.Add(float64(n))
}
