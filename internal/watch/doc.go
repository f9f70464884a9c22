// Package watch re-runs csvprune whenever its input file changes, so a CSV
// regenerated by another tool is filtered again without a manual re-run.
// It watches the file's directory (editors and exporters often replace
// files by rename), debounces bursts of events, and serializes runs.
package watch
