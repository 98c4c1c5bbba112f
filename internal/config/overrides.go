package config

// Overrides carries values set explicitly on the command line. Nil fields
// leave the experiment untouched.
type Overrides struct {
	Trials    *int
	Precision *Precision
	Ordered   *bool
	Seed      *uint64
	Workers   *int
	Low       *float64
	High      *float64
	Mean1     *float64
	StdDev1   *float64
	Mean2     *float64
	StdDev2   *float64
}

// Apply returns a copy of e with every non-nil override applied.
func (o Overrides) Apply(e *Experiment) *Experiment {
	out := *e
	if o.Trials != nil {
		out.Trials = *o.Trials
	}
	if o.Precision != nil {
		out.Precision = *o.Precision
	}
	if o.Ordered != nil {
		out.Ordered = *o.Ordered
	}
	if o.Seed != nil {
		out.Seed = *o.Seed
	}
	if o.Workers != nil {
		out.Workers = *o.Workers
	}
	if o.Low != nil {
		out.Range.Low = *o.Low
	}
	if o.High != nil {
		out.Range.High = *o.High
	}
	if o.Mean1 != nil {
		out.Distributions[0].Mean = *o.Mean1
	}
	if o.StdDev1 != nil {
		out.Distributions[0].StdDev = *o.StdDev1
	}
	if o.Mean2 != nil {
		out.Distributions[1].Mean = *o.Mean2
	}
	if o.StdDev2 != nil {
		out.Distributions[1].StdDev = *o.StdDev2
	}
	return &out
}
