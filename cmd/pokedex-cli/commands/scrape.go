package commands

import (
	"log/slog"
	"os"
	"time"

	"pokedex-backend/lib/configutil"
	"pokedex-backend/lib/scrapers/pokedex"
	"pokedex-backend/lib/util/serviceutil"
	"pokedex-backend/services/pokedex/crawler"
	"pokedex-backend/services/pokedex/store"

	"github.com/spf13/cobra"
)

type ScrapeConfig struct {
	StartUrl   string `json:"start_url"`
	MaxPages   int    `json:"max_pages"`
	MaxDelayMs int    `json:"max_delay_ms"`
}

var scrapeStore *string

func init() {
	scrapeStore = scrapeCmd.Flags().String("store", "pokedex-store", "The directory to write scraped records to.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--store <path/to/store>]",
	Short: "Walks the pokedex page cycle and records every pokemon and ability.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[ScrapeConfig]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}

		st, err := store.Open(*scrapeStore)
		if err != nil {
			serviceutil.Fatal("failed to open store", err)
		}
		defer st.Close()

		maxDelay := crawler.DefaultMaxDelay
		if cfg.MaxDelayMs > 0 {
			maxDelay = time.Duration(cfg.MaxDelayMs) * time.Millisecond
		}
		c := crawler.New(pokedex.NewClient(), st, crawler.Options{
			Start:    cfg.StartUrl,
			MaxPages: cfg.MaxPages,
			MaxDelay: maxDelay,
		})

		t1 := time.Now()
		err = c.Run(cmd.Context())
		if err != nil {
			serviceutil.Fatal("crawl failed", err)
		}
		t2 := time.Now()

		slog.Info("crawl time", "seconds", t2.Sub(t1).Seconds())
	},
}
