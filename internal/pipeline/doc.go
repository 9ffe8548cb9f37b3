// Package pipeline runs the monitoring loop: acquire one Tor session, then
// fetch, analyze and persist each target in order.
//
// Each target flows through a small Pipeline of Steps (fetch, analyze,
// persist) operating on a TargetReport. The Runner drives the per-target
// pipelines, isolates failures so one bad target never aborts the run, and
// reports progress to Observers. Worker runs a Runner in the background for
// interactive front ends.
package pipeline
