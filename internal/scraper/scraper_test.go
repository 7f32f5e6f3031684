package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"$12,345.67", "12345.67"},
		{"$500", "500"},
		{"  $1,000.00 ", "1000"},
		{"", "0"},
		{"-", "0"},
		{"N/A", "0"},
	}

	for _, tt := range tests {
		got, err := parseCurrency(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%q parsed to %s", tt.raw, got)
	}

	_, err := parseCurrency("$twelve")
	assert.Error(t, err)
}

func TestParseSaleDate(t *testing.T) {
	for _, raw := range []string{"03/04/2025", "3/4/2025", "March 4, 2025", "2025-03-04"} {
		got, err := parseSaleDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), got)
	}

	_, err := parseSaleDate("next Tuesday")
	assert.Error(t, err)
}

func TestListing_ExemptionFlags(t *testing.T) {
	l := Listing{Exemptions: "Homestead, Mineral Rights"}
	assert.True(t, l.Homestead())
	assert.True(t, l.MineralRights())
	assert.False(t, l.Agricultural())

	assert.False(t, (&Listing{}).Homestead())
}

const dallasHTML = `
<html><body>
<table class="sale-list">
<thead><tr><th>Parcel</th></tr></thead>
<tbody>
<tr>
  <td>00123-456</td><td>SMITH, JOHN</td><td>500 ELM ST</td>
  <td>LOT 4 BLK A ORIGINAL TOWN</td><td>Homestead</td>
  <td>$185,000</td><td>$12,500.00</td><td>$8,214.33</td><td>$11,902.18</td>
  <td>04/01/2025</td>
</tr>
<tr>
  <td></td><td>skip: no parcel</td><td></td><td></td><td></td>
  <td></td><td></td><td></td><td></td><td></td>
</tr>
<tr>
  <td>00999-001</td><td>ACME HOLDINGS LLC</td><td>1200 COMMERCE ST</td>
  <td>ABST 114 TR 9</td><td>None</td>
  <td>$640,000</td><td>$45,000</td><td>$31,077.45</td><td>$44,210.00</td>
  <td>04/01/2025</td>
</tr>
</tbody>
</table>
</body></html>`

func TestParseDallasDocument(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(dallasHTML))
	require.NoError(t, err)

	listings, err := parseDallasDocument(doc)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, "00123-456", first.ParcelNumber)
	assert.Equal(t, "SMITH, JOHN", first.OwnerName)
	assert.Equal(t, "500 ELM ST", first.Address)
	assert.Equal(t, "Dallas", first.City)
	assert.True(t, first.Homestead())
	assert.True(t, first.MinimumBid.Equal(decimal.RequireFromString("12500")))
	assert.True(t, first.TotalJudgment.Equal(decimal.RequireFromString("11902.18")))
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), first.SaleDate)

	assert.Equal(t, "00999-001", listings[1].ParcelNumber)
	assert.False(t, listings[1].Homestead())
}

func TestParseDallasDocument_BadAmount(t *testing.T) {
	bad := strings.Replace(dallasHTML, "$185,000", "$none", 1)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(bad))
	require.NoError(t, err)

	_, err = parseDallasDocument(doc)
	assert.Error(t, err)
}

const collinHTML = `
<html><body>
<div class="parcel-card">
  <dl>
    <dt>Parcel ID</dt><dd>R-8812-002-0130-1</dd>
    <dt>Owner</dt><dd>DOE, JANE</dd>
    <dt>Property Address</dt><dd>77 MAPLE AVE</dd>
    <dt>City</dt><dd>McKinney</dd>
    <dt>Zip</dt><dd>75070</dd>
    <dt>Legal Description</dt><dd>MEADOW RIDGE PH 2, LOT 13</dd>
    <dt>Property Type</dt><dd>Residential</dd>
    <dt>Exemptions</dt><dd>Agricultural</dd>
    <dt>Assessed Value</dt><dd>$96,400</dd>
    <dt>Minimum Bid</dt><dd>$7,800.00</dd>
    <dt>Taxes Due</dt><dd>$5,106.90</dd>
    <dt>Judgment Total</dt><dd>$7,642.13</dd>
    <dt>Sale Date</dt><dd>May 6, 2025</dd>
  </dl>
</div>
<div class="parcel-card"><dl><dt>Owner</dt><dd>NO PARCEL</dd></dl></div>
</body></html>`

func TestParseCollinDocument(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(collinHTML))
	require.NoError(t, err)

	listings, err := parseCollinDocument(doc)
	require.NoError(t, err)
	require.Len(t, listings, 1)

	l := listings[0]
	assert.Equal(t, "R-8812-002-0130-1", l.ParcelNumber)
	assert.Equal(t, "McKinney", l.City)
	assert.Equal(t, "75070", l.ZipCode)
	assert.Equal(t, "residential", l.PropertyType)
	assert.True(t, l.Agricultural())
	assert.True(t, l.TaxesOwed.Equal(decimal.RequireFromString("5106.90")))
	assert.Equal(t, time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC), l.SaleDate)
}

func TestFetcher_Document(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`<html><body><p id="x">hello</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher("texlien-test/1.0", 5*time.Second)
	doc, err := f.Document(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "hello", doc.Find("#x").Text())
	assert.Equal(t, "texlien-test/1.0", gotUA)
}

func TestFetcher_Document_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher("texlien-test/1.0", 5*time.Second)
	_, err := f.Document(context.Background(), srv.URL)
	assert.Error(t, err)
}
