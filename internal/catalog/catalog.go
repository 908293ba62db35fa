package catalog

import (
	_ "embed"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

//go:embed data/grades.yaml
var gradesYAML []byte

// folder performs Unicode case folding so searches match regions and grade
// names that carry non-ASCII characters.
var folder = cases.Fold()

// Fold case-folds s for caseless matching against catalog text.
func Fold(s string) string {
	return folder.String(s)
}

// Catalog is the immutable in-memory table of reference grades. It is loaded
// once at process start and shared read-only across all scoring calls.
type Catalog struct {
	version string
	grades  []GradeSpec
	byID    map[string]int
}

type catalogFile struct {
	Version string      `yaml:"version"`
	Grades  []GradeSpec `yaml:"grades"`
}

// Load parses and validates the embedded reference data.
func Load() (*Catalog, error) {
	return Parse(gradesYAML)
}

// Parse builds a Catalog from raw YAML. Malformed entries (min > max, typical
// outside the band, missing required ranges, duplicate ids) abort the load.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "catalog: parse grades yaml")
	}

	c := &Catalog{
		version: file.Version,
		grades:  file.Grades,
		byID:    make(map[string]int, len(file.Grades)),
	}
	for i := range c.grades {
		g := &c.grades[i]
		if err := g.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[g.ID]; dup {
			return nil, eris.Errorf("catalog: duplicate grade id %s", g.ID)
		}
		c.byID[g.ID] = i
	}
	return c, nil
}

// Version returns the data-asset version string.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of loaded grades.
func (c *Catalog) Len() int {
	return len(c.grades)
}

// All returns every grade in catalog order. The returned slice is shared;
// callers must treat it as read-only.
func (c *Catalog) All() []GradeSpec {
	return c.grades
}

// GetByID returns the grade with the given id, or false when unknown.
func (c *Catalog) GetByID(id string) (GradeSpec, bool) {
	i, ok := c.byID[id]
	if !ok {
		return GradeSpec{}, false
	}
	return c.grades[i], true
}

// ByCountry returns all grades attributed to the given country code,
// case-insensitively, in catalog order.
func (c *Catalog) ByCountry(code string) []GradeSpec {
	var out []GradeSpec
	for _, g := range c.grades {
		if strings.EqualFold(g.Country, code) {
			out = append(out, g)
		}
	}
	return out
}

// ByType returns all grades whose type label contains the given substring,
// case-insensitively, in catalog order.
func (c *Catalog) ByType(substr string) []GradeSpec {
	needle := folder.String(substr)
	var out []GradeSpec
	for _, g := range c.grades {
		if strings.Contains(folder.String(g.Type), needle) {
			out = append(out, g)
		}
	}
	return out
}

// Search matches the query as a case-folded substring over grade name,
// region, type and country, in catalog order.
func (c *Catalog) Search(query string) []GradeSpec {
	needle := folder.String(query)
	var out []GradeSpec
	for _, g := range c.grades {
		haystack := folder.String(g.Name + " " + g.Region + " " + g.Type + " " + g.Country)
		if strings.Contains(haystack, needle) {
			out = append(out, g)
		}
	}
	return out
}
