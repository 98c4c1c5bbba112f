package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/distsplit/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// defaultsView is the shape of the `defaults` variable visible to
// experiment files, e.g. `high = defaults.high * 2`.
type defaultsView struct {
	Trials        int                   `cty:"trials"`
	Low           float64               `cty:"low"`
	High          float64               `cty:"high"`
	Distributions []config.Distribution `cty:"distributions"`
}

// functions are the helpers available inside experiment files.
var functions = map[string]function.Function{
	"abs":      stdlib.AbsoluteFunc,
	"ceil":     stdlib.CeilFunc,
	"floor":    stdlib.FloorFunc,
	"lookup":   stdlib.LookupFunc,
	"max":      stdlib.MaxFunc,
	"min":      stdlib.MinFunc,
	"parseint": stdlib.ParseIntFunc,
	"pow":      stdlib.PowFunc,
	"tonumber": stdlib.MakeToFunc(cty.Number),
}

// newEvalContext builds the evaluation context shared by every file of a load.
func newEvalContext(defaults *config.Experiment, environ []string) (*hcl.EvalContext, error) {
	view := defaultsView{
		Trials:        defaults.Trials,
		Low:           defaults.Range.Low,
		High:          defaults.Range.High,
		Distributions: defaults.Distributions[:],
	}
	val, err := ToCtyValue(view)
	if err != nil {
		return nil, fmt.Errorf("building defaults variable: %w", err)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"defaults": val,
			"env":      envValue(environ),
		},
		Functions: functions,
	}, nil
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
func ToCtyValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	return gocty.ToCtyValue(v, ty)
}
