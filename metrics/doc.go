// Package metrics provides ready-made types.MetricsCollector implementations
// for the tickshard scheduler.
//
// The scheduler falls back to a no-op collector when none is configured, so
// wiring metrics is always optional:
//
//	reg := prometheus.NewRegistry()
//	sched, err := tickshard.NewScheduler(&cfg, world, strat,
//	    tickshard.WithMetrics(metrics.NewPrometheus(reg, "tickshard")),
//	)
//
// Consumers with their own metrics pipeline implement types.MetricsCollector
// directly instead.
package metrics
