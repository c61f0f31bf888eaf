package logic

import (
	"sort"
	"sync"

	"editgrep/internal/domain"
)

// MemoryEntityStore is an in-memory implementation of EntityStore
type MemoryEntityStore struct {
	mu       sync.RWMutex
	entities map[string]*domain.Entity
}

// NewMemoryEntityStore creates a new memory-based entity store
func NewMemoryEntityStore() *MemoryEntityStore {
	return &MemoryEntityStore{
		entities: make(map[string]*domain.Entity),
	}
}

// NewMemoryEntityStoreFrom creates a store seeded with entities
func NewMemoryEntityStoreFrom(entities []domain.Entity) *MemoryEntityStore {
	s := NewMemoryEntityStore()
	for i := range entities {
		e := entities[i]
		s.AddEntity(&e)
	}
	return s
}

func (s *MemoryEntityStore) GetEntity(id string) *domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entities[id]
}

func (s *MemoryEntityStore) GetAllEntities() map[string]*domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// Return a copy to prevent external modification
	result := make(map[string]*domain.Entity)
	for k, v := range s.entities {
		result[k] = v
	}
	return result
}

func (s *MemoryEntityStore) AddEntity(entity *domain.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entity.ID] = entity
}

func (s *MemoryEntityStore) UpdateEntity(entity *domain.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities[entity.ID] = entity
}

func (s *MemoryEntityStore) RemoveEntity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entities, id)
}

// Entities lists every entity sorted by ID
func (s *MemoryEntityStore) Entities() []domain.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MemoryOpenFileStore is an in-memory implementation of OpenFileStore
type MemoryOpenFileStore struct {
	mu    sync.RWMutex
	files map[string]*OpenFile
}

// NewMemoryOpenFileStore creates a new memory-based open file store
func NewMemoryOpenFileStore() *MemoryOpenFileStore {
	return &MemoryOpenFileStore{
		files: make(map[string]*OpenFile),
	}
}

func (s *MemoryOpenFileStore) GetOpenFile(path string) *OpenFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.files[path]
}

func (s *MemoryOpenFileStore) GetAllOpenFiles() map[string]*OpenFile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]*OpenFile)
	for k, v := range s.files {
		result[k] = v
	}
	return result
}

func (s *MemoryOpenFileStore) AddOpenFile(file *OpenFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file.Path] = file
}

func (s *MemoryOpenFileStore) RemoveOpenFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
}
