package scraper

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CollinScraper parses the Collin County sale list. Collin publishes one
// card-style block per parcel instead of a table, with labeled fields.
type CollinScraper struct {
	fetcher *Fetcher
	url     string
}

// NewCollinScraper builds a scraper for the Collin County sale list at url.
func NewCollinScraper(fetcher *Fetcher, url string) *CollinScraper {
	return &CollinScraper{fetcher: fetcher, url: url}
}

func (s *CollinScraper) County() string { return "Collin" }

func (s *CollinScraper) FetchListings(ctx context.Context) ([]Listing, error) {
	doc, err := s.fetcher.Document(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return parseCollinDocument(doc)
}

func parseCollinDocument(doc *goquery.Document) ([]Listing, error) {
	var listings []Listing
	var parseErr error

	doc.Find("div.parcel-card").EachWithBreak(func(i int, card *goquery.Selection) bool {
		fields := map[string]string{}
		card.Find("dl dt").Each(func(_ int, dt *goquery.Selection) {
			key := strings.ToLower(cleanText(dt.Text()))
			fields[key] = cleanText(dt.Next().Text())
		})

		l := Listing{
			ParcelNumber:     fields["parcel id"],
			OwnerName:        fields["owner"],
			Address:          fields["property address"],
			City:             fields["city"],
			ZipCode:          fields["zip"],
			LegalDescription: fields["legal description"],
			PropertyType:     strings.ToLower(fields["property type"]),
			Exemptions:       fields["exemptions"],
		}
		if l.ParcelNumber == "" {
			return true
		}

		if l.AssessedValue, parseErr = parseCurrency(fields["assessed value"]); parseErr != nil {
			return false
		}
		if l.MinimumBid, parseErr = parseCurrency(fields["minimum bid"]); parseErr != nil {
			return false
		}
		if l.TaxesOwed, parseErr = parseCurrency(fields["taxes due"]); parseErr != nil {
			return false
		}
		if l.TotalJudgment, parseErr = parseCurrency(fields["judgment total"]); parseErr != nil {
			return false
		}
		if l.SaleDate, parseErr = parseSaleDate(fields["sale date"]); parseErr != nil {
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
