// Package sampler draws the single observation a trial classifies.
//
// A Sampler owns its random source and is not safe for concurrent use: the
// harness builds one per trial, seeded independently, so trials never share
// generator state and never contend on a lock to draw a value.
package sampler
