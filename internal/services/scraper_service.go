package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgrist/texlien/internal/logger"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/repository"
	"github.com/mgrist/texlien/internal/scraper"
)

// ScrapeReport summarizes one import pass over the county sale lists.
type ScrapeReport struct {
	Listings   int `json:"listings"`
	Properties int `json:"properties"`
	Sales      int `json:"sales"`
	Skipped    int `json:"skipped"`
}

// ScraperService imports scraped county sale lists into the catalog.
type ScraperService interface {
	// ImportAll runs every registered county scraper and upserts the
	// resulting properties and scheduled sales. A county whose scrape fails
	// is logged and skipped; the rest still import.
	ImportAll(ctx context.Context) (*ScrapeReport, error)
}

type scraperService struct {
	scrapers   []scraper.Scraper
	counties   repository.CountyRepository
	properties repository.PropertyRepository
	sales      repository.TaxSaleRepository
	log        *logger.Logger
}

// NewScraperService creates a new instance of ScraperService.
func NewScraperService(
	scrapers []scraper.Scraper,
	counties repository.CountyRepository,
	properties repository.PropertyRepository,
	sales repository.TaxSaleRepository,
	log *logger.Logger,
) ScraperService {
	return &scraperService{
		scrapers:   scrapers,
		counties:   counties,
		properties: properties,
		sales:      sales,
		log:        log,
	}
}

func (s *scraperService) ImportAll(ctx context.Context) (*ScrapeReport, error) {
	counties, err := s.counties.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list counties: %w", err)
	}
	countyIDs := make(map[string]int64, len(counties))
	for _, c := range counties {
		countyIDs[strings.ToLower(c.Name)] = c.ID
	}

	report := &ScrapeReport{}
	for _, sc := range s.scrapers {
		countyID, ok := countyIDs[strings.ToLower(sc.County())]
		if !ok {
			s.log.Warn("No active county for scraper, skipping", map[string]interface{}{
				"county": sc.County(),
			})
			continue
		}

		listings, err := sc.FetchListings(ctx)
		if err != nil {
			s.log.Error("County scrape failed, skipping", err, map[string]interface{}{
				"county": sc.County(),
			})
			continue
		}
		report.Listings += len(listings)

		for i := range listings {
			if err := s.importListing(ctx, countyID, &listings[i], report); err != nil {
				return report, err
			}
		}

		s.log.Info("County sale list imported", map[string]interface{}{
			"county":   sc.County(),
			"listings": len(listings),
		})
	}
	return report, nil
}

func (s *scraperService) importListing(ctx context.Context, countyID int64, l *scraper.Listing, report *ScrapeReport) error {
	if l.ParcelNumber == "" || l.SaleDate.IsZero() {
		report.Skipped++
		return nil
	}

	// The judgment total includes the delinquent taxes plus court costs, so a
	// row reporting less judgment than taxes is malformed county data.
	if l.TotalJudgment.LessThan(l.TaxesOwed) {
		s.log.Warn("Listing judgment below taxes owed, skipping", map[string]interface{}{
			"parcel":         l.ParcelNumber,
			"taxes_owed":     l.TaxesOwed.String(),
			"total_judgment": l.TotalJudgment.String(),
		})
		report.Skipped++
		return nil
	}

	prop := listingProperty(countyID, l)
	propertyID, err := s.properties.UpsertScraped(ctx, prop)
	if err != nil {
		return fmt.Errorf("failed to import property %q: %w", l.ParcelNumber, err)
	}
	report.Properties++

	sale := &models.TaxSale{
		PropertyID:    propertyID,
		CountyID:      countyID,
		SaleDate:      l.SaleDate,
		MinimumBid:    l.MinimumBid,
		TaxesOwed:     l.TaxesOwed,
		TotalJudgment: l.TotalJudgment,
		Status:        models.SaleStatusScheduled,
	}
	if _, err := s.sales.UpsertScheduled(ctx, sale); err != nil {
		return fmt.Errorf("failed to import sale for parcel %q: %w", l.ParcelNumber, err)
	}
	report.Sales++
	return nil
}

// listingProperty maps a scraped listing onto the property record shape.
func listingProperty(countyID int64, l *scraper.Listing) *models.Property {
	prop := &models.Property{
		CountyID:              countyID,
		ParcelNumber:          l.ParcelNumber,
		OwnerName:             l.OwnerName,
		Address:               l.Address,
		State:                 "TX",
		HomesteadExemption:    l.Homestead(),
		AgriculturalExemption: l.Agricultural(),
		MineralRights:         l.MineralRights(),
		Active:                true,
	}
	if l.City != "" {
		prop.City = &l.City
	}
	if l.ZipCode != "" {
		prop.ZipCode = &l.ZipCode
	}
	if l.LegalDescription != "" {
		prop.LegalDescription = &l.LegalDescription
	}
	if l.PropertyType != "" {
		prop.PropertyType = &l.PropertyType
	}
	if !l.AssessedValue.IsZero() {
		v := l.AssessedValue
		prop.AssessedValue = &v
	}
	return prop
}
