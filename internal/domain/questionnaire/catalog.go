package questionnaire

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is an immutable registry of definitions keyed by bracket.
// It is built once and passed to whoever needs it; there is no package-level registry.
type Catalog struct {
	defs map[Bracket]Definition
}

type catalogDoc struct {
	Questionnaires []Definition `yaml:"questionnaires"`
}

// NewCatalog validates and indexes the given definitions.
func NewCatalog(defs ...Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[Bracket]Definition, len(defs))}
	for _, d := range defs {
		if err := validateDefinition(d); err != nil {
			return nil, err
		}
		if _, dup := c.defs[d.Bracket]; dup {
			return nil, eris.Wrapf(ErrInvalidCatalog, "duplicate questionnaire for %q", d.Bracket)
		}
		c.defs[d.Bracket] = d.clone()
	}
	return c, nil
}

// LoadCatalog parses a YAML questionnaire document.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var doc catalogDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, eris.Wrap(err, "questionnaire: decode catalog")
	}
	return NewCatalog(doc.Questionnaires...)
}

// LoadCatalogFile reads a YAML questionnaire document from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "questionnaire: open %s", path)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// DefaultCatalog returns the built-in questionnaires.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(defaultCatalogYAML))
	if err != nil {
		panic("questionnaire: embedded catalog is invalid: " + err.Error())
	}
	return c
}

// Lookup returns a copy of the definition for a bracket.
func (c *Catalog) Lookup(b Bracket) (Definition, error) {
	d, ok := c.defs[b]
	if !ok {
		return Definition{}, eris.Wrapf(ErrScreeningUnavailable, "bracket %q", b)
	}
	return d.clone(), nil
}

// ForAge selects the questionnaire for a child born on dob.
func (c *Catalog) ForAge(dob, now time.Time) (Definition, error) {
	return c.Lookup(BracketFor(dob, now))
}

// Brackets lists the brackets this catalog covers, youngest first.
func (c *Catalog) Brackets() []Bracket {
	var out []Bracket
	for _, b := range Brackets {
		if _, ok := c.defs[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

func validateDefinition(d Definition) error {
	if d.Bracket == "" || d.Bracket == BracketOutOfRange {
		return eris.Wrapf(ErrInvalidCatalog, "questionnaire %q has no usable age group", d.Name)
	}
	if d.MaxPossibleScore <= 0 {
		return eris.Wrapf(ErrInvalidCatalog, "%s: max possible score must be positive", d.Bracket)
	}
	t := d.RiskThresholds
	if !(t.Low <= t.Medium && t.Medium <= t.High) {
		return eris.Wrapf(ErrInvalidCatalog, "%s: thresholds must ascend, got %d/%d/%d", d.Bracket, t.Low, t.Medium, t.High)
	}
	if d.CriticalItemsThreshold <= 0 {
		return eris.Wrapf(ErrInvalidCatalog, "%s: critical items threshold must be positive", d.Bracket)
	}

	seen := map[string]bool{}
	for _, s := range d.Sections {
		for _, q := range s.Questions {
			if q.ID == "" {
				return eris.Wrapf(ErrInvalidCatalog, "%s: question without id in section %s", d.Bracket, s.ID)
			}
			if seen[q.ID] {
				return eris.Wrapf(ErrInvalidCatalog, "%s: duplicate question id %s", d.Bracket, q.ID)
			}
			seen[q.ID] = true
			if len(q.Options) == 0 {
				return eris.Wrapf(ErrInvalidCatalog, "%s: question %s has no options", d.Bracket, q.ID)
			}
			for _, o := range q.Options {
				if o.Points < 0 {
					return eris.Wrapf(ErrInvalidCatalog, "%s: question %s option %s has negative points", d.Bracket, q.ID, o.Value)
				}
			}
		}
	}
	if len(seen) == 0 {
		return eris.Wrapf(ErrInvalidCatalog, "%s: no questions", d.Bracket)
	}
	return nil
}
