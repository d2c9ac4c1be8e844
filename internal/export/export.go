// Package export renders search results for the command line
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pricelens/backend/internal/domain"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

var csvHeader = []string{
	"source", "name", "price", "currency", "converted_price", "target_currency",
	"rating", "reviews", "availability", "quality", "confidence", "link",
}

// Write renders resp to w in the given format
func Write(w io.Writer, format string, resp *domain.SearchResponse) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return writeJSON(w, resp)
	case FormatCSV:
		return writeCSV(w, resp.Listings)
	case FormatTable, "":
		return writeTable(w, resp)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or csv)", format)
	}
}

func writeJSON(w io.Writer, resp *domain.SearchResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// writeCSV writes one row per listing under a fixed header
func writeCSV(w io.Writer, listings []domain.ScoredListing) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	for _, l := range listings {
		converted := ""
		if l.ConvertedPrice != nil {
			converted = strconv.FormatFloat(*l.ConvertedPrice, 'f', 2, 64)
		}
		rating := ""
		if l.Rating != nil {
			rating = strconv.FormatFloat(*l.Rating, 'f', 1, 64)
		}
		reviews := ""
		if l.ReviewCount != nil {
			reviews = strconv.Itoa(*l.ReviewCount)
		}

		if err := writer.Write([]string{
			l.Source,
			l.Name,
			strconv.FormatFloat(l.NormalizedPrice, 'f', 2, 64),
			l.Currency,
			converted,
			l.TargetCurrency,
			rating,
			reviews,
			l.Availability,
			strconv.Itoa(l.QualityScore),
			strconv.FormatFloat(l.Match.Confidence, 'f', 2, 64),
			l.Link,
		}); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, resp *domain.SearchResponse) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tPRICE\tSOURCE\tRATING\tQUALITY\tMATCH\tNAME")
	for i, l := range resp.Listings {
		rating := "-"
		if l.Rating != nil {
			rating = strconv.FormatFloat(*l.Rating, 'f', 1, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%.2f\t%s\n",
			i+1, l.FormattedPrice, l.Source, rating, l.QualityScore, l.Match.Confidence, truncate(l.Name, 70))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := resp.Summary
	fmt.Fprintf(w, "\n%d listings from %d/%d sources, %d pages",
		s.TotalListings, s.SuccessfulSources, s.SuccessfulSources+s.FailedSources, s.TotalPagesAttempted)
	if s.RetryAttempts > 0 {
		fmt.Fprintf(w, ", %d retry pass", s.RetryAttempts)
	}
	fmt.Fprintln(w)

	for _, e := range resp.Errors {
		fmt.Fprintf(w, "  ! %s\n", e)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
