package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/scaffold"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	defaults := scaffold.DefaultOptions()
	var (
		template   string
		pm         string
		database   string
		repo       string
		noExamples bool
		yes        bool
	)

	var rootCmd = &cobra.Command{
		Use:     "create-cms [project-name]",
		Short:   "Create a new CMS project",
		Version: config.GetVersion(),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			color.New(color.FgBlue, color.Bold).Println("Create CMS")

			opts := scaffold.Options{
				Template:        scaffold.Template(template),
				PackageManager:  scaffold.PackageManager(pm),
				Database:        scaffold.Database(database),
				IncludeExamples: !noExamples,
				Repo:            repo,
			}
			if len(args) > 0 {
				opts.ProjectName = args[0]
			}

			flags := cmd.Flags()
			missing := scaffold.Missing{Name: opts.ProjectName == ""}
			if !yes {
				missing.Template = !flags.Changed("template")
				missing.PackageManager = !flags.Changed("package-manager")
				missing.Database = !flags.Changed("database")
				missing.Examples = !flags.Changed("no-examples")
			}

			opts, err := scaffold.Resolve(opts, missing, scaffold.TerminalPrompter{})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return scaffold.New(opts, cmd.OutOrStdout()).Create(ctx)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&template, "template", "t", string(defaults.Template), "template to use (minimal|full)")
	flags.StringVarP(&pm, "package-manager", "p", string(defaults.PackageManager), "package manager (bun|npm|yarn|pnpm)")
	flags.StringVarP(&database, "database", "d", string(defaults.Database), "database type (postgresql|mysql|sqlite)")
	flags.StringVar(&repo, "repo", defaults.Repo, "template repository")
	flags.BoolVar(&noExamples, "no-examples", false, "skip example content")
	flags.BoolVarP(&yes, "yes", "y", false, "use defaults for options that were not given")

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error creating the project:", err)
		os.Exit(1)
	}
}
