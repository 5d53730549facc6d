package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/varsity/internal/domain/assignment"
	"github.com/okian/varsity/internal/domain/model"
)

func TestMemStore(t *testing.T) {
	Convey("Given a populated in-memory store", t, func() {
		ctx := context.Background()
		store := NewMemStore(
			[]model.Program{
				{ID: "bsc-cs", Name: "BSc Computer Science", DefaultAPS: 32, Rule: assignment.AllInstitutions()},
				{ID: "llb", Name: "Bachelor of Laws", DefaultAPS: 35, Rule: assignment.Include("uct")},
			},
			[]model.Institution{
				{ID: "uct", Name: "University of Cape Town"},
				{ID: "wits", Name: "University of the Witwatersrand"},
			},
		)

		Convey("When looking up a known program", func() {
			p, err := store.Program(ctx, "bsc-cs")

			Convey("Then the program is returned", func() {
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "BSc Computer Science")
			})
		})

		Convey("When looking up an unknown program", func() {
			_, err := store.Program(ctx, "missing")

			Convey("Then the not-found sentinel is returned", func() {
				So(errors.Is(err, ErrProgramNotFound), ShouldBeTrue)
			})
		})

		Convey("When looking up institutions", func() {
			inst, err := store.Institution(ctx, "wits")
			_, missErr := store.Institution(ctx, "harvard")

			Convey("Then known ids resolve and unknown ids do not", func() {
				So(err, ShouldBeNil)
				So(inst.Name, ShouldEqual, "University of the Witwatersrand")
				So(errors.Is(missErr, ErrInstitutionNotFound), ShouldBeTrue)
				So(store.HasInstitution(ctx, "uct"), ShouldBeTrue)
				So(store.HasInstitution(ctx, "harvard"), ShouldBeFalse)
			})
		})

		Convey("When counting entries", func() {
			Convey("Then counts reflect the loaded catalog", func() {
				So(store.CountPrograms(ctx), ShouldEqual, 2)
				So(store.CountInstitutions(ctx), ShouldEqual, 2)
			})
		})

		Convey("When reloading with a new catalog", func() {
			store.Reload(
				[]model.Program{{ID: "bcom", Name: "BCom", DefaultAPS: 30, Rule: assignment.AllInstitutions()}},
				[]model.Institution{{ID: "up", Name: "University of Pretoria"}},
			)

			Convey("Then the old entries are gone", func() {
				So(store.CountPrograms(ctx), ShouldEqual, 1)
				So(store.HasInstitution(ctx, "uct"), ShouldBeFalse)
				So(store.HasInstitution(ctx, "up"), ShouldBeTrue)
			})
		})
	})

	Convey("Given duplicate ids in the input", t, func() {
		ctx := context.Background()
		store := NewMemStore(
			[]model.Program{
				{ID: "dup", Name: "First", DefaultAPS: 20, Rule: assignment.AllInstitutions()},
				{ID: "dup", Name: "Second", DefaultAPS: 40, Rule: assignment.AllInstitutions()},
			},
			nil,
		)

		Convey("When resolving by id", func() {
			p, err := store.Program(ctx, "dup")

			Convey("Then the first occurrence wins", func() {
				So(err, ShouldBeNil)
				So(p.Name, ShouldEqual, "First")
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a catalog file on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "catalog.yaml")

		doc := `
institutions:
  - id: uct
    name: University of Cape Town
    abbreviation: UCT
programs:
  - id: bsc-cs
    name: BSc Computer Science
    faculty: Science
    default_aps: 32
    required_subjects:
      - name: Mathematics
        level: 6
        is_required: true
    rule:
      kind: include
      institutions: [uct]
`
		So(os.WriteFile(path, []byte(doc), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			store, err := Load(ctx, path)

			Convey("Then the store holds the decoded catalog", func() {
				So(err, ShouldBeNil)
				So(store.CountPrograms(ctx), ShouldEqual, 1)
				So(store.CountInstitutions(ctx), ShouldEqual, 1)

				p, perr := store.Program(ctx, "bsc-cs")
				So(perr, ShouldBeNil)
				So(p.DefaultAPS, ShouldEqual, 32)
				So(p.RequiredSubjects, ShouldHaveLength, 1)
				So(p.Rule.Kind, ShouldEqual, assignment.KindInclude)
			})
		})
	})

	Convey("Given a missing file", t, func() {
		Convey("When loading it", func() {
			_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))

			Convey("Then the load sentinel is returned", func() {
				So(errors.Is(err, ErrLoadCatalog), ShouldBeTrue)
			})
		})
	})

	Convey("Given a catalog with no programs", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "empty.yaml")
		So(os.WriteFile(path, []byte("institutions: []\nprograms: []\n"), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			_, err := Load(context.Background(), path)

			Convey("Then the empty-catalog sentinel is returned", func() {
				So(errors.Is(err, ErrEmptyCatalog), ShouldBeTrue)
			})
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the built-in catalog", t, func() {
		ctx := context.Background()
		store := Default()

		Convey("When inspecting it", func() {
			Convey("Then it carries institutions and programs covering every rule kind", func() {
				So(store.CountInstitutions(ctx), ShouldBeGreaterThan, 0)
				So(store.CountPrograms(ctx), ShouldBeGreaterThan, 0)

				kinds := map[assignment.Kind]bool{}
				for _, p := range store.Programs(ctx) {
					kinds[p.Rule.Kind] = true
				}
				So(kinds[assignment.KindAll], ShouldBeTrue)
				So(kinds[assignment.KindInclude], ShouldBeTrue)
				So(kinds[assignment.KindExclude], ShouldBeTrue)
			})
		})

		Convey("When validating rule references", func() {
			bad := 0
			for _, p := range store.Programs(ctx) {
				for _, id := range p.Rule.Institutions {
					if !store.HasInstitution(ctx, id) {
						bad++
					}
				}
			}

			Convey("Then every referenced institution exists", func() {
				So(bad, ShouldEqual, 0)
			})
		})
	})
}
