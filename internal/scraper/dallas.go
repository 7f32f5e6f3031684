package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// DallasScraper parses the Dallas County constable sale list, published as a
// single table with one row per struck parcel.
type DallasScraper struct {
	fetcher *Fetcher
	url     string
}

// NewDallasScraper builds a scraper for the Dallas County sale list at url.
func NewDallasScraper(fetcher *Fetcher, url string) *DallasScraper {
	return &DallasScraper{fetcher: fetcher, url: url}
}

func (s *DallasScraper) County() string { return "Dallas" }

func (s *DallasScraper) FetchListings(ctx context.Context) ([]Listing, error) {
	doc, err := s.fetcher.Document(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return parseDallasDocument(doc)
}

// parseDallasDocument extracts listings from the sale-list table. Column
// order: parcel, owner, address, legal description, exemptions, assessed
// value, minimum bid, taxes owed, judgment, sale date.
func parseDallasDocument(doc *goquery.Document) ([]Listing, error) {
	var listings []Listing
	var parseErr error

	doc.Find("table.sale-list tbody tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 10 {
			return true
		}

		l := Listing{
			ParcelNumber:     cleanText(cells.Eq(0).Text()),
			OwnerName:        cleanText(cells.Eq(1).Text()),
			Address:          cleanText(cells.Eq(2).Text()),
			City:             "Dallas",
			LegalDescription: cleanText(cells.Eq(3).Text()),
			Exemptions:       cleanText(cells.Eq(4).Text()),
		}
		if l.ParcelNumber == "" {
			return true
		}

		if l.AssessedValue, parseErr = parseCurrency(cells.Eq(5).Text()); parseErr != nil {
			parseErr = fmt.Errorf("row %d: %w", i, parseErr)
			return false
		}
		if l.MinimumBid, parseErr = parseCurrency(cells.Eq(6).Text()); parseErr != nil {
			parseErr = fmt.Errorf("row %d: %w", i, parseErr)
			return false
		}
		if l.TaxesOwed, parseErr = parseCurrency(cells.Eq(7).Text()); parseErr != nil {
			parseErr = fmt.Errorf("row %d: %w", i, parseErr)
			return false
		}
		if l.TotalJudgment, parseErr = parseCurrency(cells.Eq(8).Text()); parseErr != nil {
			parseErr = fmt.Errorf("row %d: %w", i, parseErr)
			return false
		}
		if l.SaleDate, parseErr = parseSaleDate(cells.Eq(9).Text()); parseErr != nil {
			parseErr = fmt.Errorf("row %d: %w", i, parseErr)
			return false
		}

		listings = append(listings, l)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return listings, nil
}
