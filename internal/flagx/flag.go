// Package flagx picks the arguments a flag.FlagSet understands out of a
// shared command line, so several parsers can read the same os.Args
// without tripping over each other's flags.
package flagx

import (
	"flag"
	"strings"
)

type boolFlag interface {
	IsBoolFlag() bool
}

// FilterArgs returns the subset of args that names a flag defined on fs,
// together with the values those flags consume.
//
// Both "-name value" and "-name=value" are accepted, with one or two
// leading dashes. Boolean flags never consume the following argument,
// matching the flag package; use "-ssl=false" to switch one off.
// Everything else (unknown flags, positionals, "--") is dropped.
func FilterArgs(fs *flag.FlagSet, args []string) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		name, hasValue, ok := flagName(args[i])
		if !ok {
			continue
		}

		f := fs.Lookup(name)
		if f == nil {
			continue
		}

		filtered = append(filtered, args[i])
		if hasValue || isBool(f) {
			continue
		}

		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ParseKnown filters args through FilterArgs and parses the result with fs.
func ParseKnown(fs *flag.FlagSet, args []string) error {
	return fs.Parse(FilterArgs(fs, args))
}

// JsonConfigFlags extracts the config file path given via -c or -config
// from args (without the program name). Other arguments are ignored, so
// callers can parse their own flags from the same slice afterwards.
//
// If neither flag is present, an empty string is returned.
func JsonConfigFlags(args []string) string {
	var config string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = ParseKnown(fs, args)

	return config
}

func flagName(arg string) (name string, hasValue bool, ok bool) {
	if len(arg) < 2 || arg[0] != '-' || arg == "--" {
		return "", false, false
	}

	name = strings.TrimPrefix(arg[1:], "-")
	if name == "" || name[0] == '-' || name[0] == '=' {
		return "", false, false
	}

	name, _, hasValue = strings.Cut(name, "=")
	return name, hasValue, true
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(boolFlag)
	return ok && b.IsBoolFlag()
}
