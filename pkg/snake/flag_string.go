package snake

import (
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// PromptFlagString asks for a free-form value, validated by the flag's own
// parser. Empty input keeps the current value.
func PromptFlagString(cmd *cobra.Command, f *pflag.Flag) (string, error) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s [%s] Default: %s\n", asFlags(f), f.Usage, f.Value.Type(), f.DefValue)

	current := f.Value.String()
	validate := func(input string) error {
		if input == "" {
			return nil
		}
		return ValidateValue(f, input)
	}

	prompt := promptui.Prompt{
		Label:     fmt.Sprintf(`[%q]`, current),
		Templates: answerTemplates,
		Validate:  validate,
		Stdin:     io.NopCloser(cmd.InOrStdin()),
		Stdout:    NopCloser(cmd.OutOrStdout()),
	}

	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("snake: --%s: %w", f.Name, err)
	}
	if result == "" {
		return current, nil
	}
	return result, nil
}

// ValidateValue reports whether input would parse as a value of f, without
// changing f.
func ValidateValue(f *pflag.Flag, input string) error {
	probe := pflag.NewFlagSet("probe", pflag.ContinueOnError)
	probe.SetOutput(io.Discard)
	switch f.Value.Type() {
	case "int":
		probe.Int("v", 0, "")
	case "duration":
		probe.Duration("v", 0, "")
	case "stringSlice":
		probe.StringSlice("v", nil, "")
	default:
		return nil
	}
	return probe.Set("v", input)
}
