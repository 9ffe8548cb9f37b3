// Package analyzer turns extracted page text into keyword hits and a
// three-way sentiment label.
//
// Both operations are pure and deterministic: the same text and keyword
// list always produce the same Analysis.
package analyzer
