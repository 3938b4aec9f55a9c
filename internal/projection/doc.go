// Package projection folds active log events into point-in-time snapshots.
//
// The fold is pure: no hidden state, no I/O. Weather lookups read only the
// forecast tables carried by forecast_generated events already present in
// the input sequence, so identical inputs always produce identical
// snapshots. Snapshots are ephemeral read models; they are recomputed on
// demand and never persisted.
package projection
