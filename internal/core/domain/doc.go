// Package domain holds the types every other package shares: genomes,
// runs, fitness records, evolution and application settings, and the
// sentinel errors callers match with errors.Is.
//
// It imports only the standard library.
package domain
