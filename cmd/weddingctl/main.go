package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"wedding-site/internal/config"
	"wedding-site/internal/logging"
	"wedding-site/internal/storage"
)

// cli carries state shared by every sub-command
type cli struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func (c *cli) openDB() (*gorm.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := storage.Open(storage.Options{Type: c.cfg.Database.Type, DSN: c.cfg.Database.URL})
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

func (c *cli) close() {
	if c.db == nil {
		return
	}
	if sqlDB, err := c.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "weddingctl",
		Short:         "Offline tools for the wedding site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			c.cfg = cfg
			format := cfg.LogFormat
			if os.Getenv("LOG_FORMAT") == "" {
				format = "console"
			}
			c.log = logging.New(cfg.LogLevel, format, os.Stderr)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			c.close()
		},
	}

	root.AddCommand(
		newLocationCmd(c),
		newRSVPCmd(c),
		newPhotosCmd(c),
		newNotifyCmd(c),
		newPartyCmd(c),
		newWhatsAppCmd(c),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
