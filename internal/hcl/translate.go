package hcl

import (
	"fmt"

	"github.com/vk/distsplit/internal/config"
)

// translate converts the HCL-specific experiment schema into the agnostic
// model, filling omitted values from the loader's defaults.
func (l *Loader) translate(b *experimentBlock, path string) (*config.Experiment, error) {
	exp := *l.defaults
	exp.Name = b.Name
	exp.Source = path

	where := fmt.Sprintf("experiment %q (%s)", b.Name, b.DeclRange.String())

	if b.Trials != nil {
		exp.Trials = *b.Trials
	}
	if b.Precision != nil {
		p, err := config.ParsePrecision(*b.Precision)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", where, err)
		}
		exp.Precision = p
	}
	if b.Ordered != nil {
		exp.Ordered = *b.Ordered
	}
	if b.Seed != nil {
		exp.Seed = *b.Seed
	}
	if b.Workers != nil {
		exp.Workers = *b.Workers
	}
	if b.Range != nil {
		exp.Range = config.Range{Low: b.Range.Low, High: b.Range.High}
	}

	switch len(b.Distributions) {
	case 0:
	case 2:
		for i, d := range b.Distributions {
			exp.Distributions[i] = config.Distribution{Name: d.Name, Mean: d.Mean, StdDev: d.StdDev}
		}
		if exp.Distributions[0].Name == exp.Distributions[1].Name {
			return nil, fmt.Errorf("%s: distribution names must differ, both are %q", where, exp.Distributions[0].Name)
		}
	default:
		return nil, fmt.Errorf("%s: exactly two distribution blocks are required, got %d", where, len(b.Distributions))
	}

	return &exp, nil
}
