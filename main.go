package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/next-levels/go-cms/config"
	"github.com/next-levels/go-cms/database"
	"github.com/next-levels/go-cms/database/model"
	"github.com/next-levels/go-cms/logger"
	"github.com/next-levels/go-cms/web"
	"github.com/next-levels/go-cms/web/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func initLogger() {
	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
}

func openDB() error {
	return database.Open(config.GetDatabaseConfig())
}

func closeDB() {
	if err := database.CloseDB(); err != nil {
		logger.Warning("close db err:", err)
	}
}

func runWebServer() error {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	initLogger()
	defer logger.CloseLogger()
	if err := openDB(); err != nil {
		return err
	}
	defer closeDB()

	server := web.NewServer()
	if err := server.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				return err
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return nil
		}
	}
}

func migrateDb() error {
	fmt.Println("Start migrating database...")
	if err := openDB(); err != nil {
		return err
	}
	defer closeDB()
	fmt.Println("Migration done!")
	return nil
}

func seedDb() error {
	if err := openDB(); err != nil {
		return err
	}
	defer closeDB()

	created, err := database.Seed(config.GetSeedDomain())
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	if len(created) == 0 {
		fmt.Println("All demo users already exist.")
		return nil
	}
	color.Green("Created %d demo users:", len(created))
	for _, u := range created {
		fmt.Printf("  %-10s %s / %s\n", u.Role, u.Email, u.Password)
	}
	return nil
}

func createUser(name, email, password, role string) error {
	if err := openDB(); err != nil {
		return err
	}
	defer closeDB()

	userService := service.UserService{}
	user, err := userService.CreateWithRole(name, email, password, model.Role(role))
	if err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	color.Green("created %s user %s (%s)", user.Role, user.Email, user.Id)
	return nil
}

func resetPassword(email, password string) error {
	if err := openDB(); err != nil {
		return err
	}
	defer closeDB()

	userService := service.UserService{}
	user, err := userService.FindUserByEmail(email)
	if err == nil && user == nil {
		err = service.ErrUserNotFound
	}
	if err == nil {
		err = userService.SetPassword(user.Id, password)
	}
	if err != nil {
		return fmt.Errorf("reset password failed: %w", err)
	}
	color.Green("password of %s has been reset", email)
	return nil
}

func testMail() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mailService := service.MailService{}
	if err := mailService.TestConfiguration(ctx); err != nil {
		return fmt.Errorf("mail server check failed: %w", err)
	}
	color.Green("mail server %s is reachable", config.GetMailConfig().Host)
	return nil
}

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Println("load env failed:", err)
	}

	var rootCmd = &cobra.Command{
		Use:           "go-cms",
		Short:         "Content management backend with role based admin UI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrateDb()
		},
	}

	var seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedDb()
		},
	}

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var createCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a user with any role",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")
			return createUser(name, email, password, role)
		},
	}
	createCmd.Flags().String("name", "", "display name")
	createCmd.Flags().String("email", "", "login e-mail")
	createCmd.Flags().String("password", "", "initial password")
	createCmd.Flags().String("role", string(model.RoleUser), "USER, ADMIN or SUPERADMIN")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	var resetCmd = &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			return resetPassword(email, password)
		},
	}
	resetCmd.Flags().String("email", "", "login e-mail")
	resetCmd.Flags().String("password", "", "new password")
	_ = resetCmd.MarkFlagRequired("email")
	_ = resetCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createCmd, resetCmd)

	var mailCmd = &cobra.Command{
		Use:   "mail",
		Short: "Mail utilities",
	}
	var mailTestCmd = &cobra.Command{
		Use:   "test",
		Short: "Check the SMTP configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return testMail()
		},
	}
	mailCmd.AddCommand(mailTestCmd)

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetName(), config.GetVersion())
		},
	}

	rootCmd.AddCommand(runCmd, migrateCmd, seedCmd, userCmd, mailCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}
