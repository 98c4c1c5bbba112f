package hcl

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// envValue exposes the process environment to experiment files as the `env`
// map, e.g. `seed = parseint(lookup(env, "SEED", "0"), 10)`.
func envValue(environ []string) cty.Value {
	vars := make(map[string]cty.Value, len(environ))
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && pair[0] != "" {
			vars[pair[0]] = cty.StringVal(pair[1])
		}
	}
	if len(vars) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(vars)
}
