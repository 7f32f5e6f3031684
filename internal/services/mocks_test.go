package services

import (
	"context"
	"time"

	"github.com/mgrist/texlien/internal/models"
	"github.com/mgrist/texlien/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockInvestmentRepository is a mock implementation of InvestmentRepository for testing
type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) GetByID(ctx context.Context, id int64) (*models.Investment, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(*models.Investment)
	return inv, args.Error(1)
}

func (m *MockInvestmentRepository) ListByUser(ctx context.Context, userID int64) ([]models.Investment, error) {
	args := m.Called(ctx, userID)
	invs, _ := args.Get(0).([]models.Investment)
	return invs, args.Error(1)
}

func (m *MockInvestmentRepository) ListActive(ctx context.Context) ([]models.Investment, error) {
	args := m.Called(ctx)
	invs, _ := args.Get(0).([]models.Investment)
	return invs, args.Error(1)
}

func (m *MockInvestmentRepository) Create(ctx context.Context, inv *models.Investment) (int64, error) {
	args := m.Called(ctx, inv)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvestmentRepository) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	args := m.Called(ctx, id, fromStatus, toStatus)
	return args.Error(0)
}

func (m *MockInvestmentRepository) CreateRedemption(ctx context.Context, red *models.Redemption) (int64, error) {
	args := m.Called(ctx, red)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvestmentRepository) GetRedemption(ctx context.Context, investmentID int64) (*models.Redemption, error) {
	args := m.Called(ctx, investmentID)
	red, _ := args.Get(0).(*models.Redemption)
	return red, args.Error(1)
}

// MockTaxSaleRepository is a mock implementation of TaxSaleRepository for testing
type MockTaxSaleRepository struct {
	mock.Mock
}

func (m *MockTaxSaleRepository) GetByID(ctx context.Context, id int64) (*models.TaxSale, error) {
	args := m.Called(ctx, id)
	sale, _ := args.Get(0).(*models.TaxSale)
	return sale, args.Error(1)
}

func (m *MockTaxSaleRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.TaxSale, error) {
	args := m.Called(ctx, from, limit)
	sales, _ := args.Get(0).([]models.TaxSale)
	return sales, args.Error(1)
}

func (m *MockTaxSaleRepository) Create(ctx context.Context, sale *models.TaxSale) (int64, error) {
	args := m.Called(ctx, sale)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaxSaleRepository) UpsertScheduled(ctx context.Context, sale *models.TaxSale) (int64, error) {
	args := m.Called(ctx, sale)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaxSaleRepository) UpdateStatus(ctx context.Context, id int64, fromStatus, toStatus string) error {
	args := m.Called(ctx, id, fromStatus, toStatus)
	return args.Error(0)
}

// MockPropertyRepository is a mock implementation of PropertyRepository for testing
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id int64) (*models.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Property)
	return p, args.Error(1)
}

func (m *MockPropertyRepository) GetByParcelNumber(ctx context.Context, parcelNumber string) (*models.Property, error) {
	args := m.Called(ctx, parcelNumber)
	p, _ := args.Get(0).(*models.Property)
	return p, args.Error(1)
}

func (m *MockPropertyRepository) Search(ctx context.Context, filter repository.PropertySearchFilter) ([]models.Property, error) {
	args := m.Called(ctx, filter)
	ps, _ := args.Get(0).([]models.Property)
	return ps, args.Error(1)
}

func (m *MockPropertyRepository) Create(ctx context.Context, p *models.Property) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) UpsertScraped(ctx context.Context, p *models.Property) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetEnrichment(ctx context.Context, propertyID int64) (*models.Enrichment, error) {
	args := m.Called(ctx, propertyID)
	e, _ := args.Get(0).(*models.Enrichment)
	return e, args.Error(1)
}

func (m *MockPropertyRepository) UpsertEnrichment(ctx context.Context, propertyID int64, e *models.Enrichment) error {
	args := m.Called(ctx, propertyID, e)
	return args.Error(0)
}

// MockAlertRepository is a mock implementation of AlertRepository for testing
type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) CreateIfAbsent(ctx context.Context, alert *models.Alert) (bool, error) {
	args := m.Called(ctx, alert)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]models.Alert, error) {
	args := m.Called(ctx, userID, unreadOnly)
	as, _ := args.Get(0).([]models.Alert)
	return as, args.Error(1)
}

func (m *MockAlertRepository) ListUnsent(ctx context.Context) ([]models.Alert, error) {
	args := m.Called(ctx)
	as, _ := args.Get(0).([]models.Alert)
	return as, args.Error(1)
}

func (m *MockAlertRepository) MarkSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAlertRepository) MarkRead(ctx context.Context, id int64, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

// MockCountyRepository is a mock implementation of CountyRepository for testing
type MockCountyRepository struct {
	mock.Mock
}

func (m *MockCountyRepository) GetByID(ctx context.Context, id int64) (*models.County, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*models.County)
	return c, args.Error(1)
}

func (m *MockCountyRepository) ListActive(ctx context.Context) ([]models.County, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]models.County)
	return cs, args.Error(1)
}

// MockMailer records outbound messages for testing
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

func (m *MockMailer) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}
