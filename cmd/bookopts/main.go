package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-bookopts/internal/config"
	"github.com/goliatone/go-bookopts/internal/logging"
	"github.com/goliatone/go-bookopts/pkg/book"
	"github.com/goliatone/go-bookopts/pkg/codec"
	"github.com/goliatone/go-bookopts/pkg/session"
	"github.com/goliatone/go-bookopts/pkg/tui"
)

// app carries state shared by every subcommand once the root command has
// loaded configuration.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
	// driver replaces the survey prompts in tests.
	driver tui.PromptDriver
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	a := &app{}
	rootCmd := a.rootCmd()
	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bookopts",
		Short:         "Inspect and edit the options stored in a book",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger, err := logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("building logger: %w", err)
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default ./bookopts.yaml)")

	rootCmd.AddCommand(
		a.listCmd(),
		a.getCmd(),
		a.setCmd(),
		a.resetCmd(),
		a.editCmd(),
		a.formsCmd(),
	)
	return rootCmd
}

// openSession builds the option database from the configured definitions
// and loads the configured book into it. Callers close the session.
func (a *app) openSession(ctx context.Context) (*session.Session, error) {
	store, err := book.Open(ctx, book.Driver(a.cfg.Book.Driver), a.cfg.Book.Path)
	if err != nil {
		return nil, fmt.Errorf("opening book: %w", err)
	}
	s, err := session.Open(ctx,
		session.WithStore(store),
		session.WithDefinitionsPath(a.cfg.Definitions.Path),
		session.WithLogger(a.logger),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("loading definitions: %w", err)
	}
	a.logger.Info("book opened",
		zap.String("driver", a.cfg.Book.Driver),
		zap.String("path", a.cfg.Book.Path),
		zap.Int("options", s.Options().Len()),
	)
	return s, nil
}

func profileFlag(cmd *cobra.Command, target *string, def codec.Profile) {
	cmd.Flags().StringVar(target, "profile", def.String(), "value encoding: stream or scheme")
}
