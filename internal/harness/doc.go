// Package harness runs a fixed number of independent trials concurrently and
// aggregates their outcomes.
//
// Every trial gets its own goroutine and its own sampler, so no lock guards
// the generate, score and classify stages. The only shared resource touched
// from trial goroutines is the sink, which serialises its own writes. When
// ordered output is requested results are buffered by index and emitted only
// after every trial has been joined.
//
// A failing trial never cancels its siblings: failures are recorded in the
// per-trial Result and summarised in the Report.
package harness
