package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockTaxSaleRepo is a mock implementation of TaxSaleRepository for testing
type MockTaxSaleRepo struct {
	mock.Mock
}

func (m *MockTaxSaleRepo) GetByID(ctx context.Context, id int64) (*models.TaxSale, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*models.TaxSale)
	return s, args.Error(1)
}

func (m *MockTaxSaleRepo) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.TaxSale, error) {
	args := m.Called(ctx, from, limit)
	ss, _ := args.Get(0).([]models.TaxSale)
	return ss, args.Error(1)
}

func (m *MockTaxSaleRepo) Create(ctx context.Context, sale *models.TaxSale) (int64, error) {
	args := m.Called(ctx, sale)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaxSaleRepo) UpsertScheduled(ctx context.Context, sale *models.TaxSale) (int64, error) {
	args := m.Called(ctx, sale)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaxSaleRepo) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	args := m.Called(ctx, id, fromStatus, toStatus)
	return args.Error(0)
}

// MockScraperService is a mock implementation of ScraperService for testing
type MockScraperService struct {
	mock.Mock
}

func (m *MockScraperService) ImportAll(ctx context.Context) (*services.ScrapeReport, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*services.ScrapeReport)
	return r, args.Error(1)
}

func taxSaleRouter(h *TaxSaleHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/tax-sales/upcoming", h.Upcoming)
	router.GET("/tax-sales/:id", h.Get)
	router.POST("/tax-sales/:id/outcome", h.RecordOutcome)
	router.POST("/admin/scrape", h.Scrape)
	return router
}

func TestRecordOutcome_ScheduledToSold(t *testing.T) {
	mockRepo := new(MockTaxSaleRepo)
	router := taxSaleRouter(NewTaxSaleHandler(mockRepo, new(MockScraperService)))

	mockRepo.On("GetByID", mock.Anything, int64(30)).Return(&models.TaxSale{
		ID: 30, Status: models.SaleStatusScheduled,
	}, nil)
	mockRepo.On("UpdateStatus", mock.Anything, int64(30), models.SaleStatusScheduled, models.SaleStatusSold).Return(nil)

	body := `{"status":"sold"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tax-sales/30/outcome", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestRecordOutcome_TerminalSaleConflict(t *testing.T) {
	mockRepo := new(MockTaxSaleRepo)
	router := taxSaleRouter(NewTaxSaleHandler(mockRepo, new(MockScraperService)))

	mockRepo.On("GetByID", mock.Anything, int64(30)).Return(&models.TaxSale{
		ID: 30, Status: models.SaleStatusStruckOff,
	}, nil)

	body := `{"status":"sold"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tax-sales/30/outcome", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordOutcome_BadStatusRejected(t *testing.T) {
	mockRepo := new(MockTaxSaleRepo)
	router := taxSaleRouter(NewTaxSaleHandler(mockRepo, new(MockScraperService)))

	body := `{"status":"vaporized"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tax-sales/30/outcome", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScrape_ReportsCounts(t *testing.T) {
	mockScraper := new(MockScraperService)
	router := taxSaleRouter(NewTaxSaleHandler(new(MockTaxSaleRepo), mockScraper))

	mockScraper.On("ImportAll", mock.Anything).Return(&services.ScrapeReport{
		Listings: 3, Properties: 3, Sales: 3,
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/scrape", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"listings":3`)
}

func TestUpcoming(t *testing.T) {
	mockRepo := new(MockTaxSaleRepo)
	router := taxSaleRouter(NewTaxSaleHandler(mockRepo, new(MockScraperService)))

	mockRepo.On("ListUpcoming", mock.Anything, mock.Anything, 0).Return([]models.TaxSale{
		{ID: 1, Status: models.SaleStatusScheduled},
	}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tax-sales/upcoming", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}
