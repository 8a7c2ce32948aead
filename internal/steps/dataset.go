package steps

import (
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

//go:embed data/builtin.yaml
var builtinFS embed.FS

// SchemaConstraint is the range of dataset schema versions this build reads.
const SchemaConstraint = "^1"

// ErrInvalidDataset is returned when a dataset fails validation.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is an ordered, read-only sequence of steps.
type Dataset struct {
	Version string `yaml:"version"`
	Title   string `yaml:"title"`
	Steps   []Step `yaml:"steps"`
}

// New builds an in-memory dataset from steps.
func New(title string, steps ...Step) *Dataset {
	return &Dataset{Version: "1.0.0", Title: title, Steps: steps}
}

// Len returns the number of steps.
func (d *Dataset) Len() int {
	return len(d.Steps)
}

// Step returns the step at index i. Callers keep i within [0, Len()).
func (d *Dataset) Step(i int) Step {
	return d.Steps[i]
}

// Validate checks the schema version and every step.
func (d *Dataset) Validate() error {
	if d.Version != "" {
		v, err := semver.NewVersion(d.Version)
		if err != nil {
			return fmt.Errorf("%w: version %q: %v", ErrInvalidDataset, d.Version, err)
		}
		c, err := semver.NewConstraint(SchemaConstraint)
		if err != nil {
			return fmt.Errorf("schema constraint: %w", err)
		}
		if !c.Check(v) {
			return fmt.Errorf("%w: version %s does not satisfy %s", ErrInvalidDataset, v, SchemaConstraint)
		}
	}

	if len(d.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidDataset)
	}

	for i, s := range d.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrInvalidDataset, i, err)
		}
	}
	return nil
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (*Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Load reads a dataset file from disk.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Builtin returns the dataset that ships with the binary.
func Builtin() (*Dataset, error) {
	data, err := builtinFS.ReadFile("data/builtin.yaml")
	if err != nil {
		return nil, fmt.Errorf("read builtin dataset: %w", err)
	}
	return Parse(data)
}

// LoadOrBuiltin loads path, or the built-in dataset when path is empty.
func LoadOrBuiltin(path string) (*Dataset, error) {
	if path == "" {
		return Builtin()
	}
	return Load(path)
}
