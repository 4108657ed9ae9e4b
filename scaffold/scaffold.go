package scaffold

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/tidwall/sjson"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
)

// SeedPlaceholderDomain is replaced by the project domain in the seed files.
const SeedPlaceholderDomain = "template.de"

var seedFiles = []string{
	filepath.Join("prisma", "seed.ts"),
	filepath.Join("database", "seed.go"),
	filepath.Join("config", "config.go"),
}

// ErrTargetExists is returned when the project directory is already there.
type ErrTargetExists struct {
	Name string
}

func (e *ErrTargetExists) Error() string {
	return fmt.Sprintf("directory %q already exists", e.Name)
}

// Scaffolder runs the steps that turn the template into a new project.
type Scaffolder struct {
	Options Options
	Runner  Runner
	Out     io.Writer
	// Dir is the parent directory of the new project.
	Dir string
}

func New(opts Options, out io.Writer) *Scaffolder {
	dir, _ := os.Getwd()
	return &Scaffolder{Options: opts, Runner: ExecRunner{}, Out: out, Dir: dir}
}

// ProjectPath is where the project is created.
func (s *Scaffolder) ProjectPath() string {
	return filepath.Join(s.Dir, s.Options.ProjectName)
}

// Create runs every step in order and stops at the first failure.
func (s *Scaffolder) Create(ctx context.Context) error {
	if err := s.Options.Validate(); err != nil {
		return err
	}
	if _, err := os.Stat(s.ProjectPath()); err == nil {
		return &ErrTargetExists{Name: s.Options.ProjectName}
	} else if !os.IsNotExist(err) {
		return err
	}

	color.New(color.FgGreen).Fprintln(s.Out, "\nCreating your CMS project...")

	if err := s.withSpinner("Downloading template", "Template downloaded", func() error { return s.downloadTemplate(ctx) }); err != nil {
		return err
	}

	// The remaining steps depend on what kind of template was cloned.
	steps := []struct {
		title string
		done  string
		run   func(context.Context) error
		skip  bool
	}{
		{"Configuring project", "Project configured", s.setupProject, false},
		{fmt.Sprintf("Installing dependencies (%s)", s.installer()), "Dependencies installed", s.installDependencies, false},
		{"Setting up database", "Database ready", s.setupDatabase, !s.Options.IncludeExamples || s.unsupportedDatabase()},
	}
	for _, step := range steps {
		if step.skip {
			continue
		}
		if err := s.withSpinner(step.title, step.done, func() error { return step.run(ctx) }); err != nil {
			return err
		}
	}
	if s.Options.IncludeExamples && s.unsupportedDatabase() {
		color.New(color.FgYellow).Fprintf(s.Out, "! The Go backend has no %s driver, database setup skipped\n", s.Options.Database)
	}

	s.printNextSteps()
	return nil
}

// goTemplate reports whether the cloned template is a Go module without a
// package.json, like the default repository.
func (s *Scaffolder) goTemplate() bool {
	root := s.ProjectPath()
	if _, err := os.Stat(filepath.Join(root, "go.mod")); err != nil {
		return false
	}
	_, err := os.Stat(filepath.Join(root, "package.json"))
	return os.IsNotExist(err)
}

// installer names the tool that installs dependencies.
func (s *Scaffolder) installer() string {
	if s.goTemplate() {
		return "go"
	}
	return string(s.Options.PackageManager)
}

// unsupportedDatabase is true when a Go template cannot open the chosen database.
func (s *Scaffolder) unsupportedDatabase() bool {
	return s.goTemplate() && s.Options.Database == MySQL
}

func (s *Scaffolder) withSpinner(title, done string, fn func() error) error {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(s.Out))
	sp.Suffix = " " + title + "..."
	sp.Start()
	err := fn()
	sp.Stop()
	if err != nil {
		color.New(color.FgRed).Fprintf(s.Out, "✖ %s failed\n", title)
		return err
	}
	color.New(color.FgGreen).Fprintf(s.Out, "✔ %s\n", done)
	return nil
}

func (s *Scaffolder) downloadTemplate(ctx context.Context) error {
	path := s.ProjectPath()
	if err := s.Runner.Run(ctx, s.Dir, "git", "clone", "--depth", "1", s.Options.Repo, path); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(path, ".git")); err != nil {
		return err
	}
	if s.Options.Template == TemplateMinimal {
		return os.RemoveAll(filepath.Join(path, "packages"))
	}
	return nil
}

func (s *Scaffolder) setupProject(ctx context.Context) error {
	if err := s.rewritePackageJSON(); err != nil {
		return err
	}
	if err := s.writeEnv(); err != nil {
		return err
	}
	if err := s.rewriteSeed(); err != nil {
		return err
	}
	if err := s.rewriteGoModule(); err != nil {
		return err
	}
	return s.Runner.Run(ctx, s.ProjectPath(), "git", "init")
}

func (s *Scaffolder) rewritePackageJSON() error {
	path := filepath.Join(s.ProjectPath(), "package.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	if data, err = sjson.SetBytes(data, "name", s.Options.ProjectName); err != nil {
		return err
	}
	if data, err = sjson.SetBytes(data, "description", s.Options.ProjectName+" - CMS"); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// writeEnv copies .env.example to .env with the database settings of the
// project. Only the matching lines change; comments and order stay.
func (s *Scaffolder) writeEnv() error {
	data, err := os.ReadFile(filepath.Join(s.ProjectPath(), ".env.example"))
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	values := map[string]string{
		"DATABASE_URL":    s.Options.DatabaseURL(),
		"DATABASE_TYPE":   databaseType(s.Options.Database),
		"CMS_SEED_DOMAIN": s.Options.SeedDomain(),
	}
	lines := strings.Split(string(data), "\n")
	hasURL := false
	for i, line := range lines {
		key := envKey(line)
		value, ok := values[key]
		if !ok {
			continue
		}
		hasURL = hasURL || key == "DATABASE_URL"
		lines[i] = line[:strings.Index(line, "=")+1] + strconv.Quote(value)
	}

	out := strings.Join(lines, "\n")
	if !hasURL {
		if out != "" && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		out += "DATABASE_URL=" + strconv.Quote(values["DATABASE_URL"]) + "\n"
	}
	return os.WriteFile(filepath.Join(s.ProjectPath(), ".env"), []byte(out), 0o644)
}

// envKey returns the variable assigned on line, or "" for comments and blanks.
func envKey(line string) string {
	t := strings.TrimSpace(line)
	if t == "" || strings.HasPrefix(t, "#") {
		return ""
	}
	key, _, ok := strings.Cut(strings.TrimPrefix(t, "export "), "=")
	if !ok {
		return ""
	}
	return strings.TrimSpace(key)
}

func databaseType(db Database) string {
	switch db {
	case PostgreSQL:
		return "postgres"
	default:
		return string(db)
	}
}

func (s *Scaffolder) rewriteSeed() error {
	for _, name := range seedFiles {
		path := filepath.Join(s.ProjectPath(), name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		} else if err != nil {
			return err
		}
		out := strings.ReplaceAll(string(data), SeedPlaceholderDomain, s.Options.SeedDomain())
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// rewriteGoModule renames the module in go.mod and the imports that use it.
func (s *Scaffolder) rewriteGoModule() error {
	root := s.ProjectPath()
	gomod := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(gomod)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	f, err := modfile.Parse(gomod, data, nil)
	if err != nil {
		return err
	}
	if f.Module == nil {
		return nil
	}
	oldPath := f.Module.Mod.Path
	newPath, err := goModulePath(s.Options.ProjectName)
	if err != nil {
		color.New(color.FgYellow).Fprintf(s.Out, "! keeping module path %s: %v\n", oldPath, err)
		return nil
	}
	if oldPath == newPath {
		return nil
	}
	if err := f.AddModuleStmt(newPath); err != nil {
		return err
	}
	out, err := f.Format()
	if err != nil {
		return err
	}
	if err := os.WriteFile(gomod, out, 0o644); err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		replaced := strings.ReplaceAll(string(src), `"`+oldPath+`/`, `"`+newPath+`/`)
		replaced = strings.ReplaceAll(replaced, `"`+oldPath+`"`, `"`+newPath+`"`)
		if replaced == string(src) {
			return nil
		}
		return os.WriteFile(path, []byte(replaced), 0o644)
	})
}

// goModulePath derives the module path from the project name. A scoped
// name "@acme/shop" becomes "acme/shop".
func goModulePath(name string) (string, error) {
	path := strings.TrimPrefix(name, "@")
	if err := module.CheckImportPath(path); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Scaffolder) installDependencies(ctx context.Context) error {
	if s.goTemplate() {
		return s.Runner.Run(ctx, s.ProjectPath(), "go", "mod", "download")
	}
	return s.Runner.Run(ctx, s.ProjectPath(), string(s.Options.PackageManager), "install")
}

func (s *Scaffolder) setupDatabase(ctx context.Context) error {
	for _, cmd := range s.databaseCommands() {
		if err := s.Runner.Run(ctx, s.ProjectPath(), cmd[0], cmd[1:]...); err != nil {
			return err
		}
	}
	return nil
}

// databaseCommands creates the schema and inserts the demo data.
func (s *Scaffolder) databaseCommands() [][]string {
	if s.goTemplate() {
		return [][]string{
			{"go", "run", ".", "migrate"},
			{"go", "run", ".", "seed"},
		}
	}
	run := s.Options.PackageManager.RunCommand()
	cmds := make([][]string, 0, 2)
	for _, script := range []string{"db:push", "db:seed"} {
		cmds = append(cmds, append(append([]string{}, run...), script))
	}
	return cmds
}

func (s *Scaffolder) printNextSteps() {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	color.New(color.FgGreen, color.Bold).Fprintln(s.Out, "\nProject created successfully!")
	bold.Fprintln(s.Out, "\nNext steps:")
	cyan.Fprintf(s.Out, "   cd %s\n", s.Options.ProjectName)
	if s.Options.Database != SQLite && !s.unsupportedDatabase() {
		color.New(color.FgYellow).Fprintln(s.Out, "   # adjust DATABASE_URL in .env")
		cmds := s.databaseCommands()
		if !s.Options.IncludeExamples {
			cmds = cmds[:1]
		}
		for _, cmd := range cmds {
			cyan.Fprintf(s.Out, "   %s\n", strings.Join(cmd, " "))
		}
	}
	if s.goTemplate() {
		cyan.Fprintln(s.Out, "   go run . run")
	} else {
		cyan.Fprintf(s.Out, "   %s dev\n", strings.Join(s.Options.PackageManager.RunCommand(), " "))
	}

	if s.Options.IncludeExamples {
		domain := s.Options.SeedDomain()
		bold.Fprintln(s.Out, "\nDemo logins:")
		gray.Fprintf(s.Out, "   Superadmin: superadmin@%s / superadmin123\n", domain)
		gray.Fprintf(s.Out, "   Admin:      admin@%s / admin123\n", domain)
		gray.Fprintf(s.Out, "   User:       user@%s / user123\n", domain)
	}

	bold.Fprintln(s.Out, "\nUseful links:")
	color.New(color.FgBlue).Fprintln(s.Out, "   http://localhost:3000")
	color.New(color.FgBlue).Fprintln(s.Out, "   http://localhost:3000/admin")
	gray.Fprintln(s.Out, "\nTip: edit .env for your environment")
}
