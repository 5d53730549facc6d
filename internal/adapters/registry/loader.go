package registry

import (
	"context"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/varsity/internal/domain/model"
)

// document mirrors the on-disk catalog YAML.
type document struct {
	Institutions []model.Institution `koanf:"institutions"`
	Programs     []model.Program     `koanf:"programs"`
}

// Load reads the catalog document at path and builds a MemStore from it.
// The file must contain at least one program; institutions may be empty
// only in test fixtures.
func Load(ctx context.Context, path string) (*MemStore, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	var doc document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCatalog, err)
	}

	if len(doc.Programs) == 0 {
		return nil, ErrEmptyCatalog
	}

	return NewMemStore(doc.Programs, doc.Institutions), nil
}
