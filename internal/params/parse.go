package params

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cameronsjo/csogen/internal/version"
)

// negativeNumber matches values such as -1 or -0.5 that follow a flag.
var negativeNumber = regexp.MustCompile(`^-\d`)

// ParameterSet maps parameter keys to their values. Values are strings,
// bools, or nil for parameters that were declared but not given.
type ParameterSet map[string]any

// Result is the outcome of parsing arguments against one schema.
type Result struct {
	schema       Schema
	values       ParameterSet
	unrecognized []string
}

// Parse binds args against schema. Arguments the schema does not recognize
// are collected rather than rejected: an unknown flag token is kept together
// with the non-flag token directly following it, and surplus positionals are
// appended after them. Parse has no side effects and may be called
// repeatedly with extended schemas.
func Parse(schema Schema, args []string) (*Result, error) {
	res := &Result{schema: schema, values: ParameterSet{}}
	for _, d := range schema.decls {
		if _, seen := res.values[d.BindKey()]; !seen || d.Default != nil {
			res.values[d.BindKey()] = d.Default
		}
	}

	fs := res.flagSet()
	known, unknown, err := split(schema, fs, args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(known); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	positionals := fs.Args()
	for _, d := range schema.positionals() {
		if len(positionals) == 0 {
			if d.Required && !res.Bool(KeyHelp) {
				return nil, fmt.Errorf("%w: %s", ErrRequired, d.Name)
			}
			continue
		}
		value := positionals[0]
		positionals = positionals[1:]

		if d.Kind == KindVersion {
			var v version.Flag
			if err := v.Set(value); err != nil {
				return nil, fmt.Errorf("argument %s: %w", d.Name, err)
			}
			value = v.String()
		}
		res.values[d.BindKey()] = value
	}

	res.unrecognized = append(unknown, positionals...)
	return res, nil
}

// flagSet builds a fresh pflag.FlagSet whose flags write into res.values.
func (res *Result) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("csogen", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.Usage = func() {}

	for _, d := range res.schema.decls {
		if d.Positional {
			continue
		}
		switch d.Kind {
		case KindSwitch:
			f := fs.VarPF(&switchValue{values: res.values, key: d.BindKey(), value: d.Value}, d.Name, d.Shorthand, d.Usage)
			f.NoOptDefVal = "true"
		default:
			fs.VarP(&stringValue{values: res.values, key: d.BindKey()}, d.Name, d.Shorthand, d.Usage)
		}
	}
	return fs
}

// FlagSet returns the schema's flags for usage output. Parsing it has no effect.
func (s Schema) FlagSet() *pflag.FlagSet {
	res := &Result{schema: s, values: ParameterSet{}}
	for _, d := range s.decls {
		if d.Default != nil {
			res.values[d.BindKey()] = d.Default
		}
	}
	return res.flagSet()
}

// split separates args into tokens the flag set knows and tokens it does not.
func split(schema Schema, fs *pflag.FlagSet, args []string) (known, unknown []string, err error) {
	for i := 0; i < len(args); i++ {
		tok := args[i]
		if tok == "--" {
			known = append(known, args[i:]...)
			break
		}
		if !isFlag(tok) {
			known = append(known, tok)
			continue
		}

		name, inline := flagName(tok)
		flag := lookup(fs, tok, name)
		if flag == nil {
			unknown = append(unknown, tok)
			if !inline && i+1 < len(args) && isValue(args[i+1]) {
				unknown = append(unknown, args[i+1])
				i++
			}
			continue
		}

		known = append(known, tok)
		if inline || flag.NoOptDefVal != "" || isShortCluster(tok) {
			continue
		}
		if i+1 >= len(args) || !isValue(args[i+1]) {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingValue, display(declarationFor(schema, flag.Name)))
		}
		known = append(known, args[i+1])
		i++
	}
	return known, unknown, nil
}

func isFlag(tok string) bool {
	return len(tok) > 1 && tok[0] == '-'
}

// isValue reports whether tok can be taken as the value of a preceding flag.
func isValue(tok string) bool {
	return !isFlag(tok) || negativeNumber.MatchString(tok)
}

// flagName returns the flag name of tok and whether it carries an inline value.
func flagName(tok string) (string, bool) {
	name := strings.TrimLeft(tok, "-")
	if strings.HasPrefix(tok, "--") {
		if idx := strings.Index(name, "="); idx >= 0 {
			return name[:idx], true
		}
		return name, false
	}
	// -x, -x=value, -xvalue
	return name[:1], len(name) > 1
}

func isShortCluster(tok string) bool {
	return !strings.HasPrefix(tok, "--") && len(tok) > 2
}

func lookup(fs *pflag.FlagSet, tok, name string) *pflag.Flag {
	if strings.HasPrefix(tok, "--") {
		return fs.Lookup(name)
	}
	return fs.ShorthandLookup(name)
}

func declarationFor(schema Schema, name string) Declaration {
	d, _ := schema.Lookup(name)
	return d
}

// Values returns a copy of the bound parameters.
func (res *Result) Values() ParameterSet {
	out := make(ParameterSet, len(res.values))
	for k, v := range res.values {
		out[k] = v
	}
	return out
}

// String returns the string value bound to key, or "" when unset.
func (res *Result) String(key string) string {
	if s, ok := res.values[key].(string); ok {
		return s
	}
	return ""
}

// Bool returns the bool value bound to key, or false when unset.
func (res *Result) Bool(key string) bool {
	b, _ := res.values[key].(bool)
	return b
}

// Dynamic returns the sorted keys of dynamically declared parameters.
func (res *Result) Dynamic() []string {
	var keys []string
	for _, d := range res.schema.decls {
		if d.Dynamic {
			keys = append(keys, d.BindKey())
		}
	}
	sort.Strings(keys)
	return keys
}

// DynamicValues returns only the dynamically declared parameters.
func (res *Result) DynamicValues() ParameterSet {
	out := ParameterSet{}
	for _, key := range res.Dynamic() {
		out[key] = res.values[key]
	}
	return out
}

type stringValue struct {
	values ParameterSet
	key    string
}

func (v *stringValue) String() string {
	if s, ok := v.values[v.key].(string); ok {
		return s
	}
	return ""
}

func (v *stringValue) Set(s string) error {
	v.values[v.key] = s
	return nil
}

func (v *stringValue) Type() string { return "string" }

// switchValue stores a constant when its flag is given. An explicit
// --flag=false leaves the key untouched.
type switchValue struct {
	values ParameterSet
	key    string
	value  any
}

func (v *switchValue) String() string {
	if v.values[v.key] == v.value {
		return "true"
	}
	return "false"
}

func (v *switchValue) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		v.values[v.key] = v.value
	}
	return nil
}

func (v *switchValue) Type() string { return "bool" }

// IsBoolFlag lets pflag render the flag without a value placeholder.
func (v *switchValue) IsBoolFlag() bool { return true }
