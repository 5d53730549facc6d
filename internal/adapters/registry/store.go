// Package registry defines the read-only program catalog and institution
// registry, and the loading of both from the catalog document.
package registry

import (
	"context"

	"github.com/okian/varsity/internal/domain/model"
)

// Store provides read access to the reference catalog. Implementations are
// read-only after construction and safe for any number of concurrent
// readers.
type Store interface {
	// Program returns one catalog program by id.
	// Returns ErrProgramNotFound when the id is unknown.
	Program(ctx context.Context, id string) (model.Program, error)

	// Programs returns every catalog program in load order.
	Programs(ctx context.Context) []model.Program

	// Institution returns one institution by id.
	// Returns ErrInstitutionNotFound when the id is unknown.
	Institution(ctx context.Context, id string) (model.Institution, error)

	// Institutions returns every institution in load order.
	Institutions(ctx context.Context) []model.Institution

	// HasInstitution reports whether an institution id is known.
	HasInstitution(ctx context.Context, id string) bool

	// CountPrograms returns the number of catalog programs.
	CountPrograms(ctx context.Context) int

	// CountInstitutions returns the number of institutions.
	CountInstitutions(ctx context.Context) int
}
