package repository

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var embeddedFixtures []byte

// Fixtures is the seed data a session starts from.
type Fixtures struct {
	Customers []Customer `yaml:"customers"`
	Deals     []Deal     `yaml:"deals"`
}

// DefaultFixtures returns the embedded demo data set.
func DefaultFixtures() (Fixtures, error) {
	return ParseFixtures(embeddedFixtures)
}

// LoadFixtures reads fixtures from path. An empty path selects the embedded
// data set.
func LoadFixtures(path string) (Fixtures, error) {
	if path == "" {
		return DefaultFixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("reading fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes YAML fixtures and checks that every deal points to
// a known customer and uses a known stage.
func ParseFixtures(data []byte) (Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("parsing fixtures: %w", err)
	}

	known := make(map[string]struct{}, len(f.Customers))
	for i, c := range f.Customers {
		if c.Name == "" {
			return Fixtures{}, fmt.Errorf("fixtures: customer %d has no name", i)
		}
		known[c.ID.String()] = struct{}{}
	}
	for i, d := range f.Deals {
		if _, ok := known[d.CustomerID.String()]; !ok {
			return Fixtures{}, fmt.Errorf("fixtures: deal %d (%s) references unknown customer %s", i, d.Title, d.CustomerID)
		}
		if !IsPipelineStage(d.Stage) {
			return Fixtures{}, fmt.Errorf("fixtures: deal %d (%s) has unknown stage %q", i, d.Title, d.Stage)
		}
	}
	return f, nil
}

// NewSeededRepository builds a memory repository from fixtures at path.
func NewSeededRepository(path string) (*MemoryRepository, error) {
	f, err := LoadFixtures(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryRepository(f.Customers, f.Deals), nil
}
