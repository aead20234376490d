package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/laidout/impose/pkg/errors"
)

// FileStore keeps one JSON file per preset in a directory. It backs the CLI
// when no database is configured.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates the directory if needed.
// If baseDir is empty, defaults to ~/.config/impose/presets/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "impose", "presets")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create preset dir")
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

func (s *FileStore) presetPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) read(name string) (*Preset, error) {
	if err := errors.ValidatePresetName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.presetPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read preset %q", name)
	}
	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse preset %q", name)
	}
	return &p, nil
}

func (s *FileStore) Get(ctx context.Context, name string) (*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(name)
}

func (s *FileStore) Put(ctx context.Context, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.read(p.Name)
	if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
		return err
	}
	stamp(p, prev, s.now())

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal preset %q", p.Name)
	}
	tmp := s.presetPath(p.Name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write preset %q", p.Name)
	}
	if err := os.Rename(tmp, s.presetPath(p.Name)); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeStorage, err, "write preset %q", p.Name)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidatePresetName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.presetPath(name)); err != nil {
		if os.IsNotExist(err) {
			return notFound(name)
		}
		return errors.Wrap(errors.ErrCodeStorage, err, "remove preset %q", name)
	}
	return nil
}

// List skips files that do not parse.
func (s *FileStore) List(ctx context.Context) ([]*Preset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read preset dir")
	}
	out := make([]*Preset, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		p, err := s.read(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b *Preset) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the preset files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
