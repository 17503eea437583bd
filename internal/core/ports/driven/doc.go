// Package driven declares what the core needs from the outside world.
//
// The three stores (RunStore, GenomeStore, FitnessStore) and ConfigStore are
// always wired. FitnessOracle and LLMService may be absent: without an
// oracle only explicit ratings drive selection. AIConfigValidator is only
// used when LLM settings change.
package driven
