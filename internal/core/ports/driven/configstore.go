package driven

// ConfigStore is a flat key/value view of the settings file.
// Keys are dotted paths such as "evolution.population_size".
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	// GetString returns "" for missing or non-string values.
	GetString(key string) string

	// GetInt returns 0 for missing or non-numeric values.
	GetInt(key string) int

	// GetFloat widens integers. Returns 0 for missing or non-numeric values.
	GetFloat(key string) float64

	// Set stores a value. File-backed stores write through.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path returns where the configuration lives.
	Path() string
}
