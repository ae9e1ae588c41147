package version

import "github.com/spf13/pflag"

// Flag is a pflag.Value holding a validated version. The zero value is unset.
type Flag struct {
	value string
}

var _ pflag.Value = (*Flag)(nil)

// String implements pflag.Value.
func (f *Flag) String() string {
	return f.value
}

// Set implements pflag.Value. Values without a leading v are stored with one.
func (f *Flag) Set(raw string) error {
	v, err := Validate(raw)
	if err != nil {
		return err
	}
	f.value = v
	return nil
}

// Type implements pflag.Value.
func (f *Flag) Type() string {
	return "version"
}
