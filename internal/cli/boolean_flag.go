package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName        = "bool"
	toggleFlagAcceptedValues  = "true, false, yes, no, on, off, 1, 0"
	errorToggleFlagFormat     = "invalid boolean value %q for --%s; accepted values: %s"
	flagArgumentTerminator    = "--"
	longFlagPrefix            = "--"
	inlineFlagValueSeparator  = "="
	inlineFlagArgumentPattern = "--%s=%s"
)

var toggleFlagLiterals = map[string]bool{
	"true": true, "t": true, "1": true, "yes": true, "y": true, "on": true,
	"false": false, "f": false, "0": false, "no": false, "n": false, "off": false,
}

// parseToggleLiteral interprets input as a boolean literal. An empty input means true.
func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	value, known := toggleFlagLiterals[normalized]
	return value, known
}

// toggleFlag is a boolean flag that also accepts yes/no/on/off and a separate value argument.
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	value, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(errorToggleFlagFormat, input, flag.name, toggleFlagAcceptedValues)
	}
	*flag.target = value
	return nil
}

func (flag *toggleFlag) String() string {
	if flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

// registerToggleFlag defines a toggle flag on flagSet initialized to defaultValue.
func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlag{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = strconv.FormatBool(true)
}

// joinToggleFlagValues rewrites "--flag value" into "--flag=value" for every
// toggle flag of command and its subcommands when value is a boolean literal,
// so that "--tree no" is not read as "--tree" followed by a positional "no".
func joinToggleFlagValues(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}

	joined := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == flagArgumentTerminator {
			return append(joined, arguments[index:]...)
		}
		flagName, isLongFlag := strings.CutPrefix(argument, longFlagPrefix)
		if isLongFlag && !strings.Contains(flagName, inlineFlagValueSeparator) && index+1 < len(arguments) {
			if _, isToggle := toggleNames[flagName]; isToggle {
				nextArgument := arguments[index+1]
				if _, known := toggleFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; known {
					joined = append(joined, fmt.Sprintf(inlineFlagArgumentPattern, flagName, nextArgument))
					index++
					continue
				}
			}
		}
		joined = append(joined, argument)
	}
	return joined
}

func collectToggleFlagNames(command *cobra.Command, names map[string]struct{}) {
	collect := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlag); isToggle {
			names[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(collect)
	command.Flags().VisitAll(collect)
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, names)
	}
}
