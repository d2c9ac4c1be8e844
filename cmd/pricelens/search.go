package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/export"
	"github.com/spf13/cobra"
)

var (
	searchCountry        string
	searchSource         string
	searchPages          int
	searchQuick          bool
	searchNoRetry        bool
	searchSortBy         string
	searchSortOrder      string
	searchCurrency       string
	searchMinRating      float64
	searchMaxPrice       float64
	searchSites          []string
	searchIncludeSoldOut bool
	searchFormat         string
	searchOut            string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search marketplaces for a product",
	Long: `Search every marketplace of a country (or a single one with --source) and
print the matched listings as a table, JSON or CSV.`,
	Example: `  pricelens search "iphone 16 pro 128gb" --country US
  pricelens search "boat airdopes 141" -c IN --source flipkart --format json
  pricelens search "water bottle" -c GB --currency EUR --format csv --out bottles.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVarP(&searchCountry, "country", "c", "US", "ISO 3166-1 alpha-2 country code")
	f.StringVarP(&searchSource, "source", "s", "", "Search a single source by id (first page only)")
	f.IntVarP(&searchPages, "pages", "p", 0, "Pages per source (default from config)")
	f.BoolVar(&searchQuick, "quick", false, "Single pass without the retry of failed sources")
	f.BoolVar(&searchNoRetry, "no-retry", false, "Do not retry failed sources")
	f.StringVar(&searchSortBy, "sort", "", "Sort key: price, rating, source or name")
	f.StringVar(&searchSortOrder, "order", "", "Sort order: asc or desc")
	f.StringVar(&searchCurrency, "currency", "", "Convert prices to this ISO 4217 currency")
	f.Float64Var(&searchMinRating, "min-rating", 0, "Drop rated listings below this rating")
	f.Float64Var(&searchMaxPrice, "max-price", 0, "Drop listings above this price")
	f.StringSliceVar(&searchSites, "only", nil, "Keep listings from these sources only")
	f.BoolVar(&searchIncludeSoldOut, "include-out-of-stock", false, "Keep out of stock listings")
	f.StringVarP(&searchFormat, "format", "f", export.FormatTable, "Output format: table, json or csv")
	f.StringVarP(&searchOut, "out", "o", "", "Write output to a file instead of stdout")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	_, app, err := loadApp()
	if err != nil {
		return err
	}

	opts := app.Defaults
	if searchPages > 0 {
		opts.MaxPages = searchPages
	}
	if searchQuick {
		opts.Comprehensive = false
	}
	if searchNoRetry {
		opts.RetryFailedSites = false
	}
	if searchSortBy != "" {
		opts.SortBy = strings.ToLower(searchSortBy)
	}
	if searchSortOrder != "" {
		opts.SortOrder = strings.ToLower(searchSortOrder)
	}
	opts.TargetCurrency = strings.ToUpper(searchCurrency)
	if cmd.Flags().Changed("min-rating") {
		opts.MinRating = &searchMinRating
	}
	if cmd.Flags().Changed("max-price") {
		opts.MaxPrice = &searchMaxPrice
	}
	opts.SourceAllowlist = searchSites
	opts.IncludeOutOfStock = searchIncludeSoldOut

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	query := strings.Join(args, " ")

	var resp *domain.SearchResponse
	if searchSource != "" {
		resp, err = app.Search.SearchSource(ctx, searchSource, query, searchCountry, opts)
	} else {
		resp, err = app.Search.Search(ctx, query, searchCountry, opts)
	}
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if searchOut != "" {
		file, err := os.Create(searchOut)
		if err != nil {
			return fmt.Errorf("could not create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	if err := export.Write(out, searchFormat, resp); err != nil {
		return err
	}
	if searchOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %d listings to %s\n", len(resp.Listings), searchOut)
	}
	return nil
}
