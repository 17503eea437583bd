package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/promptbreeder/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed defaults/*.txt defaults/README.md
var defaults embed.FS

// DefaultPrompt returns the built-in template for a prompt name.
func DefaultPrompt(name string) (string, bool) {
	data, err := defaults.ReadFile(path.Join("defaults", name+".txt"))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

// PromptStore serves oracle prompts from name.txt files in a directory the
// user can edit. The directory is seeded with the built-in templates on
// first Load; unreadable files fall back to the built-in text.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a store over promptDir (default
// ~/.promptbreeder/prompts). Nothing touches the disk until Load.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".promptbreeder", "prompts")
	}
	return &PromptStore{dir: promptDir, cache: make(map[string]string)}, nil
}

// Load returns the named template.
func (s *PromptStore) Load(name string) (string, error) {
	fallback, known := DefaultPrompt(name)

	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt directory unavailable: %w", s.seedErr)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	prompt := strings.TrimSpace(string(data))

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[name]; ok {
		return existing, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops cached templates so edits on disk are picked up.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// seed copies each built-in file into the directory unless the user
// already has one with that name.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	entries, err := defaults.ReadDir("defaults")
	if err != nil {
		s.seedErr = err
		return
	}
	for _, entry := range entries {
		target := filepath.Join(s.dir, entry.Name())
		if _, err := os.Stat(target); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		data, err := defaults.ReadFile(path.Join("defaults", entry.Name()))
		if err != nil {
			s.seedErr = err
			return
		}
		if err := os.WriteFile(target, data, 0600); err != nil {
			s.seedErr = fmt.Errorf("write %s: %w", entry.Name(), err)
			return
		}
	}
}
