package cmd

import (
	"strings"

	"github.com/spf13/pflag"
)

// normalizeFlagName makes --log_level and --log.level equivalent to
// --log-level, matching the spelling of the configuration keys.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.NewReplacer("_", "-", ".", "-").Replace(name))
}

// flagChanged reports whether the named flag was set on the command line.
func flagChanged(flags *pflag.FlagSet, name string) bool {
	flag := flags.Lookup(name)
	return flag != nil && flag.Changed
}
