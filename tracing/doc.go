// Package tracing integrates observability back-ends with the tickshard
// scheduler to provide distributed tracing information. Spans are no-ops
// until an application installs a provider through Init or InitWithExporter,
// so applications which do not require tracing pay only for the span wrapper
// calls.
package tracing
