package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/promptbreeder/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore persists settings as TOML. Dotted keys such as
// "evolution.population_size" are written as tables and flattened again
// on load. Reads are served from memory.
type ConfigStore struct {
	*memory.ConfigStore

	// writeMu serialises file writes.
	writeMu  sync.Mutex
	filePath string
}

// NewConfigStore opens configDir/config.toml, creating configDir if needed.
// An empty configDir means ~/.promptbreeder.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".promptbreeder")
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		ConfigStore: memory.NewConfigStore(),
		filePath:    filepath.Join(configDir, "config.toml"),
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Set stores value and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	if err := s.ConfigStore.Set(key, value); err != nil {
		return err
	}
	return s.Save()
}

// Save writes every key to disk with owner-only permissions.
func (s *ConfigStore) Save() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	data, err := toml.Marshal(nest(s.Snapshot()))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	// May hold API keys.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load replaces the in-memory values with the file contents.
// A missing file leaves the store empty.
func (s *ConfigStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.Replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("decode config %s: %w", s.filePath, err)
	}

	flat := make(map[string]any)
	flatten(tree, "", flat)
	s.Replace(flat)
	return nil
}

// Path returns the TOML file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

func flatten(tree map[string]any, prefix string, out map[string]any) {
	for key, value := range tree {
		if prefix != "" {
			key = prefix + "." + key
		}
		if table, ok := value.(map[string]any); ok {
			flatten(table, key, out)
			continue
		}
		out[key] = value
	}
}

// nest turns dotted keys back into tables. A key that collides with a
// scalar at one of its prefixes is kept quoted at the top level.
func nest(flat map[string]any) map[string]any {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	// Shorter keys first so scalars claim their names before tables do.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})

	root := make(map[string]any)
	for _, key := range keys {
		if !place(root, strings.Split(key, "."), flat[key]) {
			root[key] = flat[key]
		}
	}
	return root
}

func place(table map[string]any, path []string, value any) bool {
	if len(path) == 1 {
		if _, taken := table[path[0]]; taken {
			return false
		}
		table[path[0]] = value
		return true
	}
	child, exists := table[path[0]]
	if !exists {
		next := make(map[string]any)
		table[path[0]] = next
		return place(next, path[1:], value)
	}
	next, ok := child.(map[string]any)
	if !ok {
		return false
	}
	return place(next, path[1:], value)
}
