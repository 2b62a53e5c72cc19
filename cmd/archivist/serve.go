// ABOUTME: The serve command: resolves configuration, validates the archive root, then serves HTTP.
// ABOUTME: Precedence is flags over environment over config file over defaults.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/2389-research/archivist/archive"
	"github.com/2389-research/archivist/config"
	"github.com/2389-research/archivist/web"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envConfigPath names a config file when --config is not given.
const envConfigPath = "ARCHIVIST_CONFIG"

type serveFlags struct {
	configPath string
	root       string
	host       string
	port       int
}

func newServeCmd(stderr io.Writer) *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an archive root over HTTP",
		Example: `  archivist serve --root ./site --port 8080
  ARCHIVIST_ROOT=/srv/forum PORT=3000 archivist serve`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveServeConfig(cmd.Flags(), f, os.LookupEnv)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.Log, stderr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}

	bindServeFlags(cmd.Flags(), &f)
	return cmd
}

func bindServeFlags(fs *pflag.FlagSet, f *serveFlags) {
	fs.StringVarP(&f.configPath, "config", "c", os.Getenv(envConfigPath), "Path to a YAML config file (env: "+envConfigPath+")")
	fs.StringVarP(&f.root, "root", "r", "", "Archive root directory (env: "+config.EnvRoot+")")
	fs.StringVar(&f.host, "host", "", "Listen host, empty for all interfaces (env: "+config.EnvHost+")")
	fs.IntVarP(&f.port, "port", "p", config.Default().Port, "Listen port (env: "+config.EnvPort+" or "+config.EnvPlatformPort+")")
}

// resolveServeConfig layers the config file, environment, and explicitly set
// flags, then validates the result.
func resolveServeConfig(fs *pflag.FlagSet, f serveFlags, lookup func(string) (string, bool)) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if fs.Changed("root") {
		cfg.Root = f.root
	}
	if fs.Changed("host") {
		cfg.Host = f.host
	}
	if fs.Changed("port") {
		cfg.Port = f.port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runServe performs the starting phase (root validation) and then serves
// until ctx is cancelled. A *archive.ConfigurationError means the server
// never started.
func runServe(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	log := logger.WithField("component", "cmd")
	log.WithFields(logrus.Fields{"action": "starting", "root": cfg.Root, "addr": cfg.Addr()}).Info("starting archive server")

	root, err := archive.Open(cfg.Root)
	if err != nil {
		log.WithField("action", "startup_failed").WithError(err).Error("archive root unusable")
		return err
	}

	srv, err := web.NewServer(web.ServerConfig{
		Root:            root,
		Addr:            cfg.Addr(),
		RequestTimeout:  cfg.RequestTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
		CacheMaxAge:     cfg.CacheMaxAge,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	log.WithField("action", "stopped").Info("archive server stopped")
	return nil
}
