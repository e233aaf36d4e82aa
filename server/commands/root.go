package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"costumeshop/server/account"
	"costumeshop/server/config"
	"costumeshop/server/logging"
)

var (
	cfg    config.Server
	logger *slog.Logger
)

// Execute runs the shop CLI with os.Args.
func Execute() error {
	return newRoot(os.Stdout).Execute()
}

func newRoot(out io.Writer) *cobra.Command {
	var err error
	cfg, err = config.FromEnv()

	root := &cobra.Command{
		Use:           "costumeshop",
		Short:         "Costume shop economy server",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return err
			}
			logger = logging.New(os.Stderr, cfg.LogLevel)
			slog.SetDefault(logger)
			return nil
		},
	}
	root.SetOut(out)

	f := root.PersistentFlags()
	f.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory for users and player files")
	f.StringVar(&cfg.CatalogPath, "catalog", cfg.CatalogPath, "catalog YAML file (default: built-in catalog)")
	f.StringVar(&cfg.RedisURL, "redis", cfg.RedisURL, "redis URL for player records (default: files under --data)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	root.AddCommand(serveCmd(), catalogCmd(), grantCmd())
	return root
}

// openStore picks redis when configured, player files otherwise.
func openStore(ctx context.Context) (account.Store, func(), error) {
	if cfg.RedisURL == "" {
		return account.NewFileStore(playersDir()), func() {}, nil
	}
	rs, err := account.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return rs, func() {
		if err := rs.Close(); err != nil {
			logger.Warn("redis close", "error", err)
		}
	}, nil
}

func playersDir() string {
	return filepath.Join(cfg.DataDir, "players")
}
