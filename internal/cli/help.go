package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/normino/normino/internal/ui/pretty"
)

// Command groups listed by the root help.
const (
	groupCheck    = "check"
	groupWorkflow = "workflow"
	groupSetup    = "setup"
)

// checkFlagAnnotation marks the flags that tune a norm check.
const checkFlagAnnotation = "normino/check"

// commandGroups places each subcommand under a help heading.
//
//nolint:gochecknoglobals // Static lookup table
var commandGroups = map[string]string{
	"lint":    groupCheck,
	"push":    groupWorkflow,
	"test":    groupWorkflow,
	"clean":   groupWorkflow,
	"run":     groupSetup,
	"update":  groupSetup,
	"init":    groupSetup,
	"version": groupSetup,
}

const rootExamples = `  normino                        Check every .c and .h below the current directory
  normino ex00 ex01 -e           Check two exercises, showing only failures
  normino -x 'tests/*' -d        Skip tests, print every error message
  normino push "ex00 done"       Check the norm, then commit and push
  normino test get_next_line     Download the get_next_line tester`

// groupCommands registers the help headings and files every subcommand
// under one of them. Help and completion go with setup.
func groupCommands(root *cobra.Command) {
	root.AddGroup(
		&cobra.Group{ID: groupCheck, Title: "Norm Checks:"},
		&cobra.Group{ID: groupWorkflow, Title: "Project Workflow:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	root.SetHelpCommandGroupID(groupSetup)
	root.SetCompletionCommandGroupID(groupSetup)

	for _, sub := range root.Commands() {
		if id, ok := commandGroups[sub.Name()]; ok {
			sub.GroupID = id
		}
	}
}

// markCheckFlags tags the named flags of fs so help lists them under
// Check Flags.
func markCheckFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if f := fs.Lookup(name); f != nil {
			if f.Annotations == nil {
				f.Annotations = map[string][]string{}
			}
			f.Annotations[checkFlagAnnotation] = []string{"true"}
		}
	}
}

func isCheckFlag(f *pflag.Flag) bool {
	_, ok := f.Annotations[checkFlagAnnotation]
	return ok
}

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	Command    lipgloss.Style
	Heading    lipgloss.Style
	Subcommand lipgloss.Style
	Flag       lipgloss.Style
	Example    lipgloss.Style
	Dim        lipgloss.Style
}

// NewHelpStyles creates help styles in the normino palette.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	plain := lipgloss.NewStyle()
	if !colorEnabled {
		return &HelpStyles{
			Command:    plain,
			Heading:    plain,
			Subcommand: plain,
			Flag:       plain,
			Example:    plain,
			Dim:        plain,
		}
	}
	return &HelpStyles{
		Command:    plain.Foreground(pretty.ColorCyan).Bold(true),
		Heading:    plain.Foreground(pretty.ColorYellow).Bold(true),
		Subcommand: plain.Foreground(pretty.ColorGreen),
		Flag:       plain.Foreground(pretty.ColorOrange),
		Example:    plain.Foreground(pretty.ColorWhite).Faint(true),
		Dim:        plain.Faint(true),
	}
}

// HelpFormatter renders grouped, styled help for the normino commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const helpTemplate = `{{with (or .Long .Short)}}{{trimRight .}}

{{end}}{{heading "Usage:"}}
{{- if .Runnable}}
  {{command .UseLine}}
{{- end}}
{{- if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]
{{- end}}
{{- if .HasExample}}

{{heading "Examples:"}}
{{example .Example}}
{{- end}}
{{- if .HasAvailableSubCommands}}{{$cmds := .Commands}}
{{- range .Groups}}{{$group := .ID}}

{{heading .Title}}
{{- range $cmds}}{{if and (eq .GroupID $group) (or .IsAvailableCommand (eq .Name "help"))}}
  {{subcommand (pad .Name .NamePadding)}} {{.Short}}
{{- end}}{{end}}
{{- end}}
{{- end}}
{{- with checkFlags .LocalFlags}}

{{heading "Check Flags:"}}
{{.}}
{{- end}}
{{- with otherFlags .LocalFlags}}

{{heading "Flags:"}}
{{.}}
{{- end}}
{{- with otherFlags .InheritedFlags}}

{{heading "Global Flags:"}}
{{.}}
{{- end}}
{{- if not .HasParent}}

{{heading "Exit Codes:"}}
{{exitCodes}}
{{- end}}
{{- if .HasAvailableSubCommands}}

Run "{{command (print .CommandPath " [command] --help")}}" for more about a command.
{{- end}}
`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":    h.styles.Heading.Render,
		"command":    h.styles.Command.Render,
		"subcommand": h.styles.Subcommand.Render,
		"example":    h.styles.Example.Render,
		"pad":        pad,
		"trimRight":  trimRightLines,
		"exitCodes":  h.exitCodes,
		"checkFlags": func(fs *pflag.FlagSet) string {
			return h.flags(fs, isCheckFlag)
		},
		"otherFlags": func(fs *pflag.FlagSet) string {
			return h.flags(fs, func(f *pflag.Flag) bool { return !isCheckFlag(f) })
		},
	}
}

// ApplyToCommand installs the help and usage output on root and every
// command below it, and sets the root examples.
func (h *HelpFormatter) ApplyToCommand(root *cobra.Command) {
	if root.Example == "" {
		root.Example = rootExamples
	}

	tmpl := template.Must(template.New("help").Funcs(h.funcs()).Parse(helpTemplate))
	render := func(cmd *cobra.Command) error {
		if err := tmpl.Execute(cmd.OutOrStdout(), cmd); err != nil {
			return fmt.Errorf("render help: %w", err)
		}
		return nil
	}

	root.SetUsageFunc(render)
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := render(cmd); err != nil {
			cmd.PrintErrln(err)
		}
	})
}

// flags lays out the visible flags of fs that satisfy keep, aligning the
// descriptions in one column.
func (h *HelpFormatter) flags(fs *pflag.FlagSet, keep func(*pflag.Flag) bool) string {
	type row struct {
		plain, styled, usage string
	}

	var rows []row
	width := 0
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden || !keep(f) {
			return
		}

		names := "    --" + f.Name
		if f.Shorthand != "" {
			names = "-" + f.Shorthand + ", --" + f.Name
		}
		varName, usage := pflag.UnquoteUsage(f)
		if def := shownDefault(f); def != "" {
			usage += fmt.Sprintf(" (default %s)", def)
		}

		plain, styled := names, h.styles.Flag.Render(names)
		if varName != "" {
			plain += " " + varName
			styled += " " + h.styles.Dim.Render(varName)
		}

		rows = append(rows, row{plain: plain, styled: styled, usage: usage})
		width = max(width, len(plain))
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		gap := strings.Repeat(" ", width-len(r.plain)+3)
		lines = append(lines, "  "+r.styled+gap+r.usage)
	}
	return strings.Join(lines, "\n")
}

// shownDefault returns the default worth printing, or "" for zero values.
func shownDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "0", "0s", "false", "[]":
		return ""
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

func (h *HelpFormatter) exitCodes() string {
	codes := []struct {
		code int
		text string
	}{
		{ExitSuccess, "every file passed, or the run was cancelled with Ctrl-C"},
		{ExitFailure, "norm errors, an aborted push or a failed command"},
		{ExitConfigError, "invalid configuration"},
	}

	lines := make([]string, 0, len(codes))
	for _, c := range codes {
		lines = append(lines, fmt.Sprintf("  %s %s", h.styles.Flag.Render(pad(fmt.Sprint(c.code), 3)), c.text))
	}
	return strings.Join(lines, "\n")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimRightLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
