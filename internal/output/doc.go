// Package output provides the destinations csvprune's watch mode writes
// filtered CSV to, via the [Writer] interface, with [StdoutWriter] and
// [FileWriter] implementations.
package output
