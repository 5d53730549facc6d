// Package subject reconciles free-form subject names against a canonical
// curriculum vocabulary.
package subject

import "strings"

// Canonical describes one curriculum subject identity: the normalized name,
// the synonyms that resolve to it, and the canonical names it must never
// satisfy. Exclusion intent is symmetric; resolution checks both sides even
// when only one direction is listed here.
type Canonical struct {
	Name     string
	Synonyms []string
	Excludes []string
}

// Table is a read-only registry of canonical subjects. Safe for concurrent
// readers after construction; nothing mutates it afterwards.
type Table struct {
	subjects []Canonical
	byName   map[string]int // lowercased canonical name or synonym -> subjects index
}

// NewTable builds a table from canonical subject definitions. A name claimed
// by more than one subject keeps its first owner; later claims are ignored so
// resolution stays unambiguous.
func NewTable(subjects []Canonical) *Table {
	t := &Table{
		subjects: make([]Canonical, len(subjects)),
		byName:   make(map[string]int),
	}
	copy(t.subjects, subjects)
	for i, s := range t.subjects {
		key := normalize(s.Name)
		if _, taken := t.byName[key]; !taken {
			t.byName[key] = i
		}
		for _, syn := range s.Synonyms {
			key = normalize(syn)
			if _, taken := t.byName[key]; !taken {
				t.byName[key] = i
			}
		}
	}
	return t
}

// Resolve maps a raw subject name to its canonical identity.
func (t *Table) Resolve(name string) (Canonical, bool) {
	i, ok := t.byName[normalize(name)]
	if !ok {
		return Canonical{}, false
	}
	return t.subjects[i], true
}

// Synonyms returns the synonym list of the subject a raw name resolves to,
// or nil when the name is unknown.
func (t *Table) Synonyms(name string) []string {
	c, ok := t.Resolve(name)
	if !ok {
		return nil
	}
	return c.Synonyms
}

// Excluded reports whether two canonical identities exclude each other.
// Checked in both directions: a one-sided excludes entry blocks both ways.
func (t *Table) Excluded(a, b Canonical) bool {
	return listsExclusion(a, b.Name) || listsExclusion(b, a.Name)
}

// Len returns the number of canonical subjects in the table.
func (t *Table) Len() int {
	return len(t.subjects)
}

func listsExclusion(c Canonical, canonicalName string) bool {
	for _, ex := range c.Excludes {
		if strings.EqualFold(ex, canonicalName) {
			return true
		}
	}
	return false
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultTable returns the National Senior Certificate curriculum table the
// service ships with. The Mathematics / Mathematical Literacy exclusion is
// the reason this table exists at all: the two subjects share a prefix but
// neither may ever satisfy a requirement for the other. The same holds for
// Information Technology and Computer Applications Technology.
func DefaultTable() *Table {
	return NewTable([]Canonical{
		{
			Name:     "Mathematics",
			Synonyms: []string{"Maths", "Math", "Core Mathematics", "Pure Mathematics"},
			Excludes: []string{"Mathematical Literacy"},
		},
		{
			Name:     "Mathematical Literacy",
			Synonyms: []string{"Maths Lit", "Math Lit", "Maths Literacy"},
			Excludes: []string{"Mathematics", "Technical Mathematics"},
		},
		{
			Name:     "Technical Mathematics",
			Synonyms: []string{"Tech Maths", "Tech Math"},
			Excludes: []string{"Mathematical Literacy"},
		},
		{
			Name:     "Physical Sciences",
			Synonyms: []string{"Physical Science", "Physics and Chemistry", "Physics"},
		},
		{
			Name:     "Life Sciences",
			Synonyms: []string{"Life Science", "Biology", "Bio"},
		},
		{
			Name:     "English Home Language",
			Synonyms: []string{"English HL", "English Home"},
		},
		{
			Name:     "English First Additional Language",
			Synonyms: []string{"English FAL", "English First Additional"},
		},
		{
			Name:     "Afrikaans Home Language",
			Synonyms: []string{"Afrikaans HL", "Afrikaans Home"},
		},
		{
			Name:     "Afrikaans First Additional Language",
			Synonyms: []string{"Afrikaans FAL", "Afrikaans First Additional"},
		},
		{
			Name:     "Information Technology",
			Synonyms: []string{"IT"},
			Excludes: []string{"Computer Applications Technology"},
		},
		{
			Name:     "Computer Applications Technology",
			Synonyms: []string{"CAT", "Computer Applications"},
			Excludes: []string{"Information Technology"},
		},
		{
			Name:     "Accounting",
			Synonyms: []string{"Accountancy"},
		},
		{
			Name:     "Business Studies",
			Synonyms: []string{"Business"},
		},
		{
			Name:     "Economics",
			Synonyms: []string{"Econ"},
		},
		{
			Name:     "Geography",
			Synonyms: []string{"Geo"},
		},
		{
			Name:     "History",
			Synonyms: []string{"Hist"},
		},
		{
			Name:     "Life Orientation",
			Synonyms: []string{"LO"},
		},
		{
			Name:     "Engineering Graphics and Design",
			Synonyms: []string{"EGD", "Technical Drawing"},
		},
		{
			Name:     "Agricultural Sciences",
			Synonyms: []string{"Agricultural Science", "Agric"},
		},
		{
			Name:     "Consumer Studies",
			Synonyms: []string{"Consumer Science"},
		},
		{
			Name:     "Tourism",
			Synonyms: []string{},
		},
		{
			Name:     "Visual Arts",
			Synonyms: []string{"Art", "Fine Art"},
		},
		{
			Name:     "Dramatic Arts",
			Synonyms: []string{"Drama"},
		},
		{
			Name:     "Music",
			Synonyms: []string{},
		},
	})
}
