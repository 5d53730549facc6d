package registry

import (
	"context"
	"sync"

	"github.com/okian/varsity/internal/domain/model"
	"github.com/okian/varsity/pkg/metrics"
)

// MemStore is the in-memory Store implementation. The catalog is written
// once at construction; the mutex only guards against a caller racing reads
// with a Reload.
type MemStore struct {
	mu               sync.RWMutex
	programs         []model.Program
	programsByID     map[string]int
	institutions     []model.Institution
	institutionsByID map[string]int
}

// NewMemStore builds a store from the given catalog slices. Duplicate ids
// keep their first occurrence.
func NewMemStore(programs []model.Program, institutions []model.Institution) *MemStore {
	s := &MemStore{}
	s.replace(programs, institutions)
	return s
}

// Reload swaps the catalog wholesale. Intended for process startup and
// tests; the engine itself never mutates the catalog.
func (s *MemStore) Reload(programs []model.Program, institutions []model.Institution) {
	s.replace(programs, institutions)
}

func (s *MemStore) replace(programs []model.Program, institutions []model.Institution) {
	byProgram := make(map[string]int, len(programs))
	for i, p := range programs {
		if _, taken := byProgram[p.ID]; !taken {
			byProgram[p.ID] = i
		}
	}
	byInstitution := make(map[string]int, len(institutions))
	for i, in := range institutions {
		if _, taken := byInstitution[in.ID]; !taken {
			byInstitution[in.ID] = i
		}
	}

	s.mu.Lock()
	s.programs = programs
	s.programsByID = byProgram
	s.institutions = institutions
	s.institutionsByID = byInstitution
	s.mu.Unlock()

	metrics.UpdateCatalogPrograms(len(programs))
	metrics.UpdateCatalogInstitutions(len(institutions))
}

// Program implements Store.Program.
func (s *MemStore) Program(ctx context.Context, id string) (model.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.programsByID[id]
	if !ok {
		return model.Program{}, ErrProgramNotFound
	}
	return s.programs[i], nil
}

// Programs implements Store.Programs.
func (s *MemStore) Programs(ctx context.Context) []model.Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Program, len(s.programs))
	copy(out, s.programs)
	return out
}

// Institution implements Store.Institution.
func (s *MemStore) Institution(ctx context.Context, id string) (model.Institution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.institutionsByID[id]
	if !ok {
		return model.Institution{}, ErrInstitutionNotFound
	}
	return s.institutions[i], nil
}

// Institutions implements Store.Institutions.
func (s *MemStore) Institutions(ctx context.Context) []model.Institution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Institution, len(s.institutions))
	copy(out, s.institutions)
	return out
}

// HasInstitution implements Store.HasInstitution.
func (s *MemStore) HasInstitution(ctx context.Context, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.institutionsByID[id]
	return ok
}

// CountPrograms implements Store.CountPrograms.
func (s *MemStore) CountPrograms(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.programs)
}

// CountInstitutions implements Store.CountInstitutions.
func (s *MemStore) CountInstitutions(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.institutions)
}
