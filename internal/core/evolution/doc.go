// Package evolution implements the prompt evolution core: the genome
// mutator and the population manager.
//
// Every transition is a pure function of its inputs and an injected
// RandomSource. The package performs no I/O and keeps no package-level
// mutable state, so independent runs may evolve concurrently as long as
// each owns its own RandomSource.
//
// # Architectural Position
//
// Evolution sits inside the core next to the services. Services drive it;
// it never calls ports.
//
// # Import Rules
//
//   - Can Import: domain, standard library
//   - Cannot Import: ports, services, adapters, any external dependency
package evolution
