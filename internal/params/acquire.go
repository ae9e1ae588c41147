package params

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cameronsjo/csogen/internal/ui"
)

// flagPattern matches a whole token of the form -x, --name or --name=value.
var flagPattern = regexp.MustCompile(`^(-\w|--\w[\w-]*)(=.*)?$`)

// Acquire parses args against base, then keeps declaring the leading
// unrecognized flag as a dynamic string parameter and parsing again until
// nothing is left unrecognized. A leftover token that is not a flag is an
// error.
func Acquire(base Schema, args []string) (*Result, error) {
	schema := base

	ui.Debug("Parsing all args")
	res, err := Parse(schema, args)
	if err != nil {
		return nil, err
	}

	for len(res.unrecognized) > 0 {
		m := flagPattern.FindStringSubmatch(res.unrecognized[0])
		if m == nil {
			break
		}

		decl := dynamicDeclaration(m[1])
		ui.Debug("Adding argument: %s", m[1])
		if schema, err = schema.With(decl); err != nil {
			return nil, err
		}
		if res, err = Parse(schema, args); err != nil {
			return nil, err
		}
	}

	if len(res.unrecognized) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognized, strings.Join(res.unrecognized, " "))
	}
	ui.Debug("Parsed final set of args (%d dynamic)", len(res.Dynamic()))
	return res, nil
}

func dynamicDeclaration(flag string) Declaration {
	name := strings.TrimLeft(flag, "-")
	d := Declaration{
		Name:    name,
		Kind:    KindString,
		Usage:   "Template parameter",
		Dynamic: true,
	}
	if !strings.HasPrefix(flag, "--") {
		d.Shorthand = name
	}
	return d
}
