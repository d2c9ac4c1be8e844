package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pricelens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResponse() *domain.SearchResponse {
	rating := 4.5
	reviews := 1200
	converted := 12.5

	return &domain.SearchResponse{
		SearchID: "search-1",
		Query:    "water bottle",
		Country:  "US",
		Listings: []domain.ScoredListing{
			{
				MatchedListing: domain.MatchedListing{
					Listing: domain.Listing{
						Name: "Steel Bottle, 750ml", RawPrice: "$10.00", Currency: "USD",
						Link: "https://shop.test/p/1", SourceID: "amazon", Source: "Amazon",
						Rating: &rating, ReviewCount: &reviews, Availability: "In Stock",
					},
					Match: domain.MatchResult{IsMatch: true, Confidence: 1},
				},
				NormalizedPrice: 10,
				ConvertedPrice:  &converted,
				TargetCurrency:  "EUR",
				FormattedPrice:  "€12.50",
				QualityScore:    88,
			},
			{
				MatchedListing: domain.MatchedListing{
					Listing: domain.Listing{
						Name: "Plain Bottle", RawPrice: "$5.00", Currency: "USD",
						Link: "https://shop.test/p/2", SourceID: "ebay", Source: "eBay",
					},
					Match: domain.MatchResult{IsMatch: true, Confidence: 0.58},
				},
				NormalizedPrice: 5,
				FormattedPrice:  "$5.00",
				QualityScore:    23,
			},
		},
		Errors:  []string{"Walmart: connection refused"},
		Summary: domain.Summary{TotalListings: 2, SuccessfulSources: 2, FailedSources: 1, TotalPagesAttempted: 5, RetryAttempts: 1},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleResponse()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"Amazon", "Steel Bottle, 750ml", "10.00", "USD", "12.50", "EUR",
		"4.5", "1200", "In Stock", "88", "1.00", "https://shop.test/p/1",
	}, rows[1])
	assert.Equal(t, "", rows[2][4], "unconverted price stays empty")
	assert.Equal(t, "", rows[2][6], "missing rating stays empty")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "JSON", sampleResponse()))

	var decoded domain.SearchResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "search-1", decoded.SearchID)
	assert.Len(t, decoded.Listings, 2)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, sampleResponse()))

	out := buf.String()
	assert.Contains(t, out, "€12.50")
	assert.Contains(t, out, "Plain Bottle")
	assert.Contains(t, out, "2 listings from 2/3 sources, 5 pages, 1 retry pass")
	assert.Contains(t, out, "! Walmart: connection refused")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "#"))
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", sampleResponse())
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
