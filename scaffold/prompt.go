package scaffold

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// Choice is one entry of a selection prompt.
type Choice struct {
	Label string
	Value string
}

// Prompter asks the user for the options not given on the command line.
type Prompter interface {
	Input(label string, validate func(string) error) (string, error)
	Select(label string, choices []Choice, def string) (string, error)
	Confirm(label string, def bool) (bool, error)
}

// Missing marks the options that still have to be asked for.
type Missing struct {
	Name           bool
	Template       bool
	PackageManager bool
	Database       bool
	Examples       bool
}

var (
	templateChoices = []Choice{
		{Label: "Full - complete CMS with all features", Value: string(TemplateFull)},
		{Label: "Minimal - base setup without examples", Value: string(TemplateMinimal)},
	}
	packageManagerChoices = []Choice{
		{Label: "Bun (recommended)", Value: string(Bun)},
		{Label: "npm", Value: string(Npm)},
		{Label: "Yarn", Value: string(Yarn)},
		{Label: "pnpm", Value: string(Pnpm)},
	}
	databaseChoices = []Choice{
		{Label: "PostgreSQL (recommended)", Value: string(PostgreSQL)},
		{Label: "MySQL", Value: string(MySQL)},
		{Label: "SQLite (local development)", Value: string(SQLite)},
	}
)

// Resolve fills the missing options by prompting, in the order name,
// template, package manager, database, examples.
func Resolve(opts Options, missing Missing, p Prompter) (Options, error) {
	var err error
	if missing.Name {
		if opts.ProjectName, err = p.Input("Project name", ValidateProjectName); err != nil {
			return opts, err
		}
	}
	if missing.Template {
		v, err := p.Select("Which template do you want to use?", templateChoices, string(opts.Template))
		if err != nil {
			return opts, err
		}
		opts.Template = Template(v)
	}
	if missing.PackageManager {
		v, err := p.Select("Which package manager do you want to use?", packageManagerChoices, string(opts.PackageManager))
		if err != nil {
			return opts, err
		}
		opts.PackageManager = PackageManager(v)
	}
	if missing.Database {
		v, err := p.Select("Which database do you want to use?", databaseChoices, string(opts.Database))
		if err != nil {
			return opts, err
		}
		opts.Database = Database(v)
	}
	if missing.Examples {
		if opts.IncludeExamples, err = p.Confirm("Include example content and demo data", opts.IncludeExamples); err != nil {
			return opts, err
		}
	}
	return opts, opts.Validate()
}

// TerminalPrompter asks on the terminal with promptui.
type TerminalPrompter struct{}

func (TerminalPrompter) Input(label string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: validate,
	}
	return prompt.Run()
}

func (TerminalPrompter) Select(label string, choices []Choice, def string) (string, error) {
	cursor := 0
	for i, c := range choices {
		if c.Value == def {
			cursor = i
		}
	}
	sel := promptui.Select{
		Label:     label,
		Items:     choices,
		CursorPos: cursor,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "▸ {{ .Label | cyan }}",
			Inactive: "  {{ .Label }}",
			Selected: "✔ {{ .Label | green }}",
		},
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return choices[i].Value, nil
}

func (TerminalPrompter) Confirm(label string, def bool) (bool, error) {
	d := "n"
	if def {
		d = "y"
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   d,
	}
	answer, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if answer == "" {
		return def, nil
	}
	return true, nil
}
