package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"storefront_service/config"
	"storefront_service/internal/sitemap"
)

const outputDir = "public"

var rootCmd = &cobra.Command{
	Use:          "sitemap",
	Short:        "Regenerate public/sitemap.xml and public/robots.txt",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runSitemap,
}

func runSitemap(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig(logger)
	if err != nil {
		return err
	}
	return sitemap.Write(outputDir, cfg.SiteBaseURL, sitemap.Routes, time.Now(), logger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
