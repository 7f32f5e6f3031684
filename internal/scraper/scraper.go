// Package scraper fetches and parses county tax-sale listing pages. Each
// county publishes its constable sale list in its own HTML layout, so each
// gets its own Scraper; the shared fetcher handles HTTP concerns.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

// Listing is one row scraped from a county sale list: the property being
// auctioned plus the sale terms.
type Listing struct {
	SaleDate         time.Time
	ParcelNumber     string
	OwnerName        string
	Address          string
	City             string
	ZipCode          string
	LegalDescription string
	PropertyType     string
	Exemptions       string
	AssessedValue    decimal.Decimal
	MinimumBid       decimal.Decimal
	TaxesOwed        decimal.Decimal
	TotalJudgment    decimal.Decimal
}

// Homestead reports whether the listing carries a homestead exemption.
func (l *Listing) Homestead() bool { return containsFold(l.Exemptions, "homestead") }

// Agricultural reports whether the listing carries an agricultural exemption.
func (l *Listing) Agricultural() bool { return containsFold(l.Exemptions, "agricultural") }

// MineralRights reports whether the listing includes mineral rights.
func (l *Listing) MineralRights() bool { return containsFold(l.Exemptions, "mineral") }

// Scraper parses one county's published sale list.
type Scraper interface {
	// County is the name used to match the listing source to a counties row.
	County() string
	// FetchListings downloads and parses the county's current sale list.
	FetchListings(ctx context.Context) ([]Listing, error)
}

// Fetcher wraps the HTTP fetch shared by all county scrapers.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher builds a fetcher with the given per-request timeout.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Document fetches the URL and parses the response body as HTML.
func (f *Fetcher) Document(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching %s", res.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}
