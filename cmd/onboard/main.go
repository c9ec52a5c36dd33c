package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/afrishop/storegen/internal/auth"
	"github.com/afrishop/storegen/internal/config"
	"github.com/afrishop/storegen/internal/i18n"
	"github.com/afrishop/storegen/internal/identity"
	"github.com/afrishop/storegen/internal/logging"
	"github.com/afrishop/storegen/internal/notification"
	"github.com/afrishop/storegen/internal/onboarding"
	"github.com/afrishop/storegen/internal/shop"
	"github.com/afrishop/storegen/internal/templates"
	"github.com/afrishop/storegen/internal/terminal"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		if errors.Is(err, terminal.ErrAborted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		locale        string
		dbPath        string
		confirmEmail  bool
		templatesFile string
		logLevel      string
	)

	cmd := &cobra.Command{
		Use:          "onboard",
		Short:        "Create a shop account with the interactive onboarding wizard",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("confirm-email") {
				confirmEmail = cfg.RequireEmailConfirmation
			}
			if locale == "" {
				locale = cfg.DefaultLocale
			}
			if templatesFile == "" {
				templatesFile = cfg.TemplatesFile
			}

			logger := logging.NewWithWriter(os.Stderr, logLevel, cfg.Env)

			repo, err := identity.OpenSQLite(dbPath)
			if err != nil {
				return err
			}
			defer repo.Close()

			catalog, err := templates.LoadFile(templatesFile)
			if err != nil {
				return err
			}
			messages := i18n.NewCatalog(cfg.DefaultLocale)

			ids := identity.NewService(repo, confirmEmail)
			tokens := auth.NewService(cfg, repo)
			signup := auth.NewSignupGateway(ids, tokens, notification.NewLoggerNotifier(logger), messages, cfg.PublicURL, logger)
			shops := shop.NewService(shop.NewMemoryRepository(), catalog, logger)

			printHandoff := onboarding.NavigatorFunc(func(_ context.Context, h onboarding.Handoff) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(h)
			})

			submitter := onboarding.NewSubmitter(signup, onboarding.NewLocalLock(), messages, logger)
			flow := onboarding.NewFlow(printHandoff, shops, templates.NewChooser(catalog), logger)
			runner := terminal.NewRunner(terminal.NewSurveyDriver(), submitter, flow, messages, messages.Negotiate(locale), logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			_, err = runner.Run(ctx)
			return err
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "wizard language, fr or en (default DEFAULT_LOCALE)")
	cmd.Flags().StringVar(&dbPath, "db", "storegen.db", "SQLite file holding created accounts")
	cmd.Flags().BoolVar(&confirmEmail, "confirm-email", true, "require email confirmation before a session is issued")
	cmd.Flags().StringVar(&templatesFile, "templates", "", "YAML template catalogue replacing the built-in one")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "log level written to stderr")
	return cmd
}
