// Package model defines the data structures shared across onionwatch.
//
// This package contains the following main types:
//   - Sentiment: the three-way label produced by the analyzer
//   - ScrapedRecord: the persisted, append-only form of a successful fetch
//   - RunResult: the transient, in-memory outcome of one target within a run
//
// ParseList splits the comma-separated target and keyword lists operators type.
//
// The models live in their own package so that the fetch, analyzer, database,
// pipeline, report and notify packages can share them without import cycles.
package model
