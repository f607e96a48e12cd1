package sde

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
)

// Service provides in-memory access to the SDE types and groups exported as JSON.
// Entries written through UpsertType/UpsertGroup live until the process exits.
type Service struct {
	types       map[int32]*Type
	typesByName map[string]*Type
	groups      map[int32]*Group
	loaded      bool
	loadMu      sync.Mutex // Only used during initial loading
	mu          sync.RWMutex
	dataDir     string
}

// NewService creates a new SDE service instance reading from dataDir
func NewService(dataDir string) *Service {
	return &Service{
		types:       make(map[int32]*Type),
		typesByName: make(map[string]*Type),
		groups:      make(map[int32]*Group),
		dataDir:     dataDir,
	}
}

// NewStaticService creates a service preloaded with the given entries. It never touches disk.
func NewStaticService(types []*Type, groups []*Group) *Service {
	s := NewService("")
	for _, t := range types {
		s.putType(t)
	}
	for _, g := range groups {
		s.groups[g.GroupID] = g
	}
	s.loaded = true
	return s
}

// ensureLoaded loads SDE data if not already loaded
func (s *Service) ensureLoaded() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.loaded {
		return nil
	}

	if err := s.loadTypes(); err != nil {
		return fmt.Errorf("failed to load types: %w", err)
	}

	if err := s.loadGroups(); err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}

	s.loaded = true

	// Log memory usage after loading SDE data
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	slog.Info("SDE data loaded successfully",
		"types_count", len(s.types),
		"groups_count", len(s.groups),
		"heap_size", humanize.IBytes(m.HeapAlloc),
	)

	return nil
}

// loadTypes loads type data from JSON file
func (s *Service) loadTypes() error {
	var raw map[string]*Type
	if err := readJSON(filepath.Join(s.dataDir, "types.json"), &raw); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range raw {
		id, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid type id %q: %w", key, err)
		}
		t.TypeID = int32(id)
		s.putType(t)
	}
	return nil
}

// loadGroups loads group data from JSON file
func (s *Service) loadGroups() error {
	var raw map[string]*Group
	if err := readJSON(filepath.Join(s.dataDir, "groups.json"), &raw); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, g := range raw {
		id, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid group id %q: %w", key, err)
		}
		g.GroupID = int32(id)
		s.groups[g.GroupID] = g
	}
	return nil
}

func readJSON(path string, dest any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}

// putType expects s.mu to be held or the service not yet shared.
func (s *Service) putType(t *Type) {
	s.types[t.TypeID] = t
	if name := t.EnglishName(); name != "" {
		s.typesByName[strings.ToLower(name)] = t
	}
}

// TypeByID retrieves a type by ID
func (s *Service) TypeByID(_ context.Context, typeID int32) (*Type, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	t, exists := s.types[typeID]
	if !exists {
		return nil, fmt.Errorf("type %d: %w", typeID, ErrNotFound)
	}
	return t, nil
}

// TypeByName retrieves a type by its english name
func (s *Service) TypeByName(_ context.Context, name string) (*Type, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	t, exists := s.typesByName[strings.ToLower(strings.TrimSpace(name))]
	if !exists {
		return nil, fmt.Errorf("type %q: %w", name, ErrNotFound)
	}
	return t, nil
}

// GroupByID retrieves a group by ID
func (s *Service) GroupByID(_ context.Context, groupID int32) (*Group, error) {
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	g, exists := s.groups[groupID]
	if !exists {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	return g, nil
}

func (s *Service) UpsertType(_ context.Context, t *Type) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putType(t)
	return nil
}

func (s *Service) UpsertGroup(_ context.Context, g *Group) error {
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.GroupID] = g
	return nil
}

// IsLoaded reports whether the JSON files have been read.
func (s *Service) IsLoaded() bool {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loaded
}
