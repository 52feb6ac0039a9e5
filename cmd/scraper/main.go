package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hojyokin-go/internal/export"
	"hojyokin-go/internal/logger"
	"hojyokin-go/internal/prefecture"
	"hojyokin-go/internal/providers/hojokin"
	"hojyokin-go/internal/services/scraping"
)

var (
	flagPrefID    int
	flagMaxPages  int
	flagDelay     float64
	flagOutput    string
	flagNoDetails bool
)

var rootCmd = &cobra.Command{
	Use:           "scraper",
	Short:         "Collects subsidy listings from hojyokin-portal.jp into JSON dumps.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes one prefecture's listings and writes a JSON dump.",
	RunE:  runScrape,
}

var prefecturesCmd = &cobra.Command{
	Use:   "prefectures",
	Short: "Prints the prefecture codes accepted by --pref-id.",
	Run: func(cmd *cobra.Command, _ []string) {
		for _, pref := range prefecture.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s (%s)\n", pref.ID, pref.Name, pref.Romaji)
		}
	},
}

func init() {
	scrapeCmd.Flags().IntVar(&flagPrefID, "pref-id", hojokin.DefaultPrefID, "prefecture code, 18 is Fukui")
	scrapeCmd.Flags().IntVar(&flagMaxPages, "max-pages", 0, "stop after this many listing pages, 0 follows pagination to the end")
	scrapeCmd.Flags().Float64Var(&flagDelay, "delay", 1.5, "seconds to wait between requests")
	scrapeCmd.Flags().StringVar(&flagOutput, "output", "", "output path, defaults to data/subsidies_<prefecture>.json")
	scrapeCmd.Flags().BoolVar(&flagNoDetails, "no-details", false, "skip fetching per-subsidy detail pages")
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(prefecturesCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	log := logger.New("scraper")

	client := &http.Client{Timeout: 30 * time.Second}
	delay := time.Duration(flagDelay * float64(time.Second))
	scraper := hojokin.NewScraper(client, flagPrefID, delay)

	log.Info("scrape starting",
		"prefecture", prefecture.Name(flagPrefID),
		"pref_id", flagPrefID,
		"max_pages", flagMaxPages,
		"details", !flagNoDetails,
	)

	service := scraping.NewService(scraper, log)
	res := service.Run(cmd.Context(), scraping.Config{
		MaxPages:     flagMaxPages,
		FetchDetails: !flagNoDetails,
	})

	if res.Err != nil {
		if len(res.Subsidies) == 0 {
			return fmt.Errorf("scrape failed: %w", res.Err)
		}
		log.Error("scrape stopped early, keeping partial results",
			"err", res.Err, "records", len(res.Subsidies))
	}
	if len(res.Subsidies) == 0 {
		log.Warn("no subsidies found", "pref_id", flagPrefID)
	}

	output := flagOutput
	if output == "" {
		output = defaultOutputPath(flagPrefID)
	}
	if err := export.WriteJSON(output, res.Run, res.Subsidies); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	log.Info("scrape finished", "records", len(res.Subsidies), "pages", res.Pages, "output", output)
	return nil
}

func defaultOutputPath(prefID int) string {
	name := prefecture.Romaji(prefID)
	if name == "" {
		name = fmt.Sprintf("pref%d", prefID)
	}
	return filepath.Join("data", fmt.Sprintf("subsidies_%s.json", name))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
