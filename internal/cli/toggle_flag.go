package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleAcceptedValues     = "true, false, yes, no, on, off, 1, 0"
	toggleInvalidValueFormat = "invalid value %q for --%s; accepted values: %s"
	longFlagPrefix           = "--"
	argumentTerminator       = "--"
)

// parseToggle interprets the literals accepted by toggle flags. An empty value means true.
func parseToggle(input string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "true", "t", "1", "yes", "y", "on":
		return true, true
	case "false", "f", "0", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

// toggleValue is a pflag.Value for on/off switches that also accepts yes/no and on/off spellings.
type toggleValue struct {
	target *bool
	name   string
}

func (value *toggleValue) Set(input string) error {
	parsed, recognized := parseToggle(input)
	if !recognized {
		return fmt.Errorf(toggleInvalidValueFormat, input, value.name, toggleAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Type() string {
	return toggleFlagTypeName
}

// addToggleFlag registers a toggle that may be given bare (--copy), with a value (--copy=no)
// or followed by a separate literal once arguments pass through expandToggleArguments.
func addToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleValue{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = strconv.FormatBool(true)
}

// expandToggleArguments joins "--flag value" pairs into "--flag=value" for boolean flags of command
// and its subcommands when value is a toggle literal. Everything after "--" is left untouched.
func expandToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := collectToggleNames(command, map[string]bool{})
	expanded := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == argumentTerminator {
			return append(expanded, arguments[index:]...)
		}
		flagName, isLongFlag := strings.CutPrefix(argument, longFlagPrefix)
		hasInlineValue := strings.Contains(flagName, "=")
		if isLongFlag && !hasInlineValue && toggleNames[flagName] && index+1 < len(arguments) {
			nextArgument := arguments[index+1]
			if _, recognized := parseToggle(nextArgument); recognized && nextArgument != "" && !strings.HasPrefix(nextArgument, "-") {
				expanded = append(expanded, argument+"="+nextArgument)
				index++
				continue
			}
		}
		expanded = append(expanded, argument)
	}
	return expanded
}

func collectToggleNames(command *cobra.Command, toggleNames map[string]bool) map[string]bool {
	if command == nil {
		return toggleNames
	}
	recordToggle := func(flag *pflag.Flag) {
		if flag.Value.Type() == toggleFlagTypeName {
			toggleNames[flag.Name] = true
		}
	}
	command.PersistentFlags().VisitAll(recordToggle)
	command.Flags().VisitAll(recordToggle)
	for _, subcommand := range command.Commands() {
		collectToggleNames(subcommand, toggleNames)
	}
	return toggleNames
}
