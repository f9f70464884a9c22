// Package filter decides which CSV columns survive csvprune's projection.
// It supports exclusion by exact column name and ships the built-in removal
// list for engine-monitor exports.
//
// The package is built around the [Filter] interface and [Chain] type, which
// allow composable, ordered filter application.
package filter
