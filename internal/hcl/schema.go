package hcl

import "github.com/hashicorp/hcl/v2"

// file represents the top-level structure of an experiment file for decoding.
type file struct {
	Experiments []*experimentBlock `hcl:"experiment,block"`
}

// experimentBlock mirrors an `experiment "<name>" { ... }` block. Every
// attribute is optional; omitted values fall back to the built-in defaults.
type experimentBlock struct {
	Name          string               `hcl:"name,label"`
	Trials        *int                 `hcl:"trials,optional"`
	Precision     *string              `hcl:"precision,optional"`
	Ordered       *bool                `hcl:"ordered,optional"`
	Seed          *uint64              `hcl:"seed,optional"`
	Workers       *int                 `hcl:"workers,optional"`
	Range         *rangeBlock          `hcl:"range,block"`
	Distributions []*distributionBlock `hcl:"distribution,block"`
	DeclRange     hcl.Range            `hcl:",def_range"`
}

type rangeBlock struct {
	Low  float64 `hcl:"low"`
	High float64 `hcl:"high"`
}

type distributionBlock struct {
	Name   string  `hcl:"name,label"`
	Mean   float64 `hcl:"mean"`
	StdDev float64 `hcl:"stddev"`
}
