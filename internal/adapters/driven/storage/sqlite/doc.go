// Package sqlite persists runs, genomes and ratings in a single SQLite file
// using the pure Go modernc.org/sqlite driver.
//
// One Store hands out the RunStore, GenomeStore and FitnessStore views over a
// shared connection. Genomes are immutable rows; a generation is a set of
// (run, generation, position) membership rows, so an elite that survives
// into the next generation is stored once and referenced twice. Ratings are
// keyed by run, generation and genome.
//
// Schema changes live in migrations/ as numbered .up.sql files and are
// applied on open. The default location is ~/.promptbreeder/data.
package sqlite
