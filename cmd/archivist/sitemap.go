// ABOUTME: The sitemap command: writes sitemap_N.xml files and sitemap_index.xml for an archive root.
package main

import (
	"io"

	"github.com/2389-research/archivist/config"
	"github.com/2389-research/archivist/sitemap"
	"github.com/spf13/cobra"
)

func newSitemapCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		opts     sitemap.Options
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "sitemap ROOT DOMAIN",
		Short: "Generate sitemaps and a sitemap index for an archive root",
		Example: `  archivist sitemap ./site https://archive.example.com
  archivist sitemap ./site https://archive.example.com --output ./site/sitemaps --max-url 5000`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(config.LogConfig{Level: logLevel, Format: "text"}, stderr)
			if err != nil {
				return &usageError{err: err}
			}

			opts.Root = args[0]
			opts.Domain = args[1]
			opts.Logger = logger

			res, err := sitemap.Generate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			res.Summary(stdout)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&opts.MaxURLs, "max-url", sitemap.DefaultMaxURLs, "Maximum number of URLs per sitemap file")
	fs.StringVar(&opts.OutputDir, "output", sitemap.DefaultOutputDir, "Output directory for sitemap files")
	fs.StringVar(&opts.PublicPath, "public-path", "", "URL path of the output directory under DOMAIN (default: --output)")
	fs.IntVar(&opts.Workers, "workers", sitemap.DefaultWorkers, "Pages read concurrently")
	fs.StringVar(&logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")
	return cmd
}
