package registry

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrProgramNotFound     = errors.New("program not found")
	ErrInstitutionNotFound = errors.New("institution not found")
	ErrEmptyCatalog        = errors.New("catalog has no programs")
	ErrLoadCatalog         = errors.New("load catalog failed")
)
