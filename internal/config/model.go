package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/distsplit/internal/dist"
)

// Precision names the floating-point width a run is computed in.
type Precision string

const (
	Float32 Precision = "float32"
	Float64 Precision = "float64"
)

// ParsePrecision accepts "float32"/"f32" or "float64"/"f64" in any case.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "f32":
		return Float32, nil
	case "float64", "f64":
		return Float64, nil
	default:
		return "", fmt.Errorf("unknown precision %q: must be 'float32' or 'float64'", s)
	}
}

// Distribution is one candidate Gaussian.
type Distribution struct {
	Name   string  `cty:"name"`
	Mean   float64 `cty:"mean"`
	StdDev float64 `cty:"stddev"`
}

// Range is the sampling interval.
type Range struct {
	Low  float64 `cty:"low"`
	High float64 `cty:"high"`
}

// Experiment is the unified, format-agnostic description of one run.
type Experiment struct {
	Name      string
	Trials    int
	Precision Precision
	Ordered   bool
	Seed      uint64
	Workers   int
	Range     Range
	// Distributions holds exactly two candidates, in label order.
	Distributions [2]Distribution
	// Source is the file the experiment was read from, empty for defaults.
	Source string
}

// DefaultName is the name of the built-in experiment.
const DefaultName = "default"

// Default returns the built-in experiment: ten trials over [1, 100] against
// N(30, 4) and N(90, 12) in 32-bit precision.
func Default() *Experiment {
	return &Experiment{
		Name:      DefaultName,
		Trials:    10,
		Precision: Float32,
		Range:     Range{Low: 1, High: 100},
		Distributions: [2]Distribution{
			{Name: "first", Mean: 30, StdDev: 4},
			{Name: "second", Mean: 90, StdDev: 12},
		},
	}
}

// Validate rejects any experiment that would make a trial fail for reasons
// known before it starts.
func (e *Experiment) Validate() error {
	var errs []error
	if e.Trials <= 0 {
		errs = append(errs, fmt.Errorf("%w: trials must be positive, got %d", dist.ErrInvalidParameter, e.Trials))
	}
	if e.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers must not be negative, got %d", dist.ErrInvalidParameter, e.Workers))
	}
	if _, err := ParsePrecision(string(e.Precision)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", dist.ErrInvalidParameter, err))
	}
	if err := (dist.Range[float64]{Low: e.Range.Low, High: e.Range.High}).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("range: %w", err))
	}
	for i, d := range e.Distributions {
		if err := (dist.Params[float64]{Mean: d.Mean, StdDev: d.StdDev}).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("distribution %d (%s): %w", i+1, d.Name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("experiment %q is invalid: %w", e.Name, errors.Join(errs...))
	}
	return nil
}

// Catalog holds every experiment read by a Loader, keyed by name.
type Catalog struct {
	Experiments map[string]*Experiment
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{Experiments: make(map[string]*Experiment)}
}

// Add inserts e, rejecting duplicate names.
func (c *Catalog) Add(e *Experiment) error {
	if prev, ok := c.Experiments[e.Name]; ok {
		return fmt.Errorf("experiment %q defined twice (%s and %s)", e.Name, prev.Source, e.Source)
	}
	c.Experiments[e.Name] = e
	return nil
}

// Names returns the experiment names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Experiments))
	for n := range c.Experiments {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Select returns the named experiment. An empty name is accepted only when
// the catalog holds exactly one experiment.
func (c *Catalog) Select(name string) (*Experiment, error) {
	if name == "" {
		switch len(c.Experiments) {
		case 0:
			return nil, errors.New("no experiments defined")
		case 1:
			for _, e := range c.Experiments {
				return e, nil
			}
		default:
			return nil, fmt.Errorf("multiple experiments defined, choose one of: %s", strings.Join(c.Names(), ", "))
		}
	}
	e, ok := c.Experiments[name]
	if !ok {
		return nil, fmt.Errorf("experiment %q not found, available: %s", name, strings.Join(c.Names(), ", "))
	}
	return e, nil
}
