// Package snake walks a cobra command's flags with interactive prompts.
package snake

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Continue is the sentinel entry that ends flag selection.
const Continue = "Continue..."

// Skip names flags the wizard never offers.
var Skip = map[string]bool{"help": true, "interactive": true}

// PromptArgs asks for the positional text when args is empty and returns the
// args to run with.
func PromptArgs(cmd *cobra.Command, label string, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	prompt := promptui.Prompt{
		Label:     label,
		Templates: answerTemplates,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("empty")
			}
			return nil
		},
		Stdin:  io.NopCloser(cmd.InOrStdin()),
		Stdout: NopCloser(cmd.OutOrStdout()),
	}
	result, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("snake: %s: %w", label, err)
	}
	return strings.Fields(result), nil
}

// PromptFlags lets the user pick flags of cmd one at a time and answer each,
// until Continue is chosen. Answers are set on cmd's flag set directly.
func PromptFlags(cmd *cobra.Command) error {
	fs := Candidates(cmd)
	if len(fs) == 0 {
		return nil
	}
	fs = append(fs, &pflag.Flag{
		Name:   Continue,
		Hidden: true,
		Value:  &continueType{},
	})

	templates := &promptui.SelectTemplates{
		Label:    "{{ . | magenta }} flags?",
		Active:   "➜ {{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }} {{ .Usage | green | cyan }}{{ end }}",
		Inactive: "  {{ if eq .Value.Type \"continue\" }}{{ .Name | faint | green }}{{ else }}{{ .Name }} {{ .Usage | cyan }}{{ end }}",
		Selected: "{{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }}{{ end }}",
		Details: `
--------- Details ----------
current: {{ .Value }}
type: {{ .Value.Type }}
`,
	}

	searcher := func(input string, index int) bool {
		name := strings.ReplaceAll(strings.ToLower(fs[index].Name), " ", "")
		input = strings.ReplaceAll(strings.ToLower(input), " ", "")
		return strings.Contains(name, input)
	}

	index := 0
	for {
		prompt := promptui.Select{
			HideHelp:  true,
			Label:     cmd.Name(),
			Items:     fs,
			Templates: templates,
			Size:      10,
			CursorPos: index,
			Searcher:  searcher,
			Stdin:     io.NopCloser(cmd.InOrStdin()),
			Stdout:    NopCloser(cmd.OutOrStdout()),
		}
		i, _, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("snake: select flag: %w", err)
		}
		index = i

		f := fs[i]
		var value string
		switch t := f.Value.Type(); t {
		case "continue":
			return nil
		case "bool":
			value, err = PromptFlagBool(cmd, f)
		default:
			value, err = PromptFlagString(cmd, f)
		}
		if err != nil {
			return err
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil {
			return fmt.Errorf("snake: --%s: %w", f.Name, err)
		}
	}
}

// Candidates returns the visible flags of cmd the wizard can prompt for.
func Candidates(cmd *cobra.Command) []*pflag.Flag {
	var fs []*pflag.Flag
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Hidden || Skip[f.Name] {
			return
		}
		fs = append(fs, f)
	})
	return fs
}

var answerTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . }} : ",
	Valid:   "{{ . | green }} : ",
	Invalid: "{{ . | red }} : ",
	Success: "{{ . | bold }} : ",
}

type continueType struct{}

func (*continueType) String() string { return "" }

func (*continueType) Set(string) error { return nil }

func (*continueType) Type() string { return "continue" }

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NopCloser adapts w for promptui, which wants to own its output.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopWriteCloser{w}
}
