// Package services implements the driving ports on top of the evolution
// engine and the driven stores.
//
// BreederService owns the run lifecycle: seeding the first generation,
// recording ratings, asking the oracle for more, and breeding the next
// generation. SettingsService reads and writes application settings.
package services
