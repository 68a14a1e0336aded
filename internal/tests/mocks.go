package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"courier/internal/domain"
	"courier/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32
	AssignDriverCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
	AssignDriverError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *order
	return &copy, nil
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		copy := *o
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	return nil
}

func (m *MockOrderRepository) UpdatePickupCoords(ctx context.Context, id string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.PickupLat = lat
	order.PickupLng = lng
	order.PickupResolved = true
	return nil
}

// AssignDriver mirrors the conditional write of the real repository: it only
// succeeds while the order has no driver.
func (m *MockOrderRepository) AssignDriver(ctx context.Context, orderID, driverID string) error {
	atomic.AddInt32(&m.AssignDriverCallCount, 1)
	if m.AssignDriverError != nil {
		return m.AssignDriverError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	if order.DriverID != "" {
		return repository.ErrConflict
	}
	order.DriverID = driverID
	order.DriverStatus = domain.DriverAssigned
	order.Status = domain.OrderStatusPending
	return nil
}

// GetOrder returns the order by ID (for test assertions).
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver
	order   []string // insertion order, so GetAvailable is deterministic

	// Counters for verification
	CreateCallCount    int32
	SetOnDutyCallCount int32

	// Error injection
	CreateError    error
	SetOnDutyError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[driver.ID]; !ok {
		m.order = append(m.order, driver.ID)
	}
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddDriver(driver)
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, id := range m.order {
		copy := *m.drivers[id]
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) GetAvailable(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Driver
	for _, id := range m.order {
		d := m.drivers[id]
		if d.IsOnDuty && d.IsActive {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDriverRepository) SetOnDuty(ctx context.Context, id string, onDuty bool) error {
	atomic.AddInt32(&m.SetOnDutyCallCount, 1)
	if m.SetOnDutyError != nil {
		return m.SetOnDutyError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.IsOnDuty = onDuty
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCATION REPOSITORY
// ──────────────────────────────────────────────

// MockLocationRepository is a mock implementation of LocationRepository.
type MockLocationRepository struct {
	mu        sync.RWMutex
	locations map[string]*domain.DriverLocation

	// Error injection
	UpsertError error
	GetError    error
}

// NewMockLocationRepository creates a new mock location repository.
func NewMockLocationRepository() *MockLocationRepository {
	return &MockLocationRepository{
		locations: make(map[string]*domain.DriverLocation),
	}
}

// SetLocation stores a location for a driver.
func (m *MockLocationRepository) SetLocation(loc *domain.DriverLocation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[loc.DriverID] = loc
}

func (m *MockLocationRepository) Upsert(ctx context.Context, loc *domain.DriverLocation) error {
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.SetLocation(loc)
	return nil
}

func (m *MockLocationRepository) GetByDriverIDs(ctx context.Context, driverIDs []string) ([]*domain.DriverLocation, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.DriverLocation
	for _, id := range driverIDs {
		if loc, ok := m.locations[id]; ok {
			copy := *loc
			result = append(result, &copy)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK CLIENT REPOSITORY
// ──────────────────────────────────────────────

// MockClientRepository is a mock implementation of ClientRepository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	// Error injection
	CreateError error
}

// NewMockClientRepository creates a new mock client repository.
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients: make(map[string]*domain.Client),
	}
}

// AddClient adds a client to the mock repository.
func (m *MockClientRepository) AddClient(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if m.CreateError != nil {
		return m.CreateError
	}
	m.AddClient(client)
	return nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	client, ok := m.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *client
	return &copy, nil
}

func (m *MockClientRepository) GetAll(ctx context.Context) ([]*domain.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Client, 0, len(m.clients))
	for _, c := range m.clients {
		copy := *c
		result = append(result, &copy)
	}
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK GEOCODER
// ──────────────────────────────────────────────

// MockGeocoder is a mock implementation of the Geocoder interface.
type MockGeocoder struct {
	Lat   float64
	Lng   float64
	Found bool
	Err   error

	CallCount   int32
	LastAddress string
}

// NewMockGeocoder creates a geocoder that resolves every address to the given point.
func NewMockGeocoder(lat, lng float64) *MockGeocoder {
	return &MockGeocoder{Lat: lat, Lng: lng, Found: true}
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (float64, float64, bool, error) {
	atomic.AddInt32(&m.CallCount, 1)
	m.LastAddress = address
	if m.Err != nil {
		return 0, 0, false, m.Err
	}
	return m.Lat, m.Lng, m.Found, nil
}

// ──────────────────────────────────────────────
// MOCK SMS / EMAIL PROVIDERS
// ──────────────────────────────────────────────

// MockSMSProvider is a mock implementation of the SMSProvider interface.
type MockSMSProvider struct {
	Err error

	CallCount int32
	LastTo    string
	LastBody  string
}

// NewMockSMSProvider creates a new mock SMS provider.
func NewMockSMSProvider() *MockSMSProvider {
	return &MockSMSProvider{}
}

func (m *MockSMSProvider) Send(ctx context.Context, to, body string) (string, error) {
	atomic.AddInt32(&m.CallCount, 1)
	m.LastTo = to
	m.LastBody = body
	if m.Err != nil {
		return "", m.Err
	}
	return "sms-msg-1", nil
}

// MockEmailProvider is a mock implementation of the EmailProvider interface.
type MockEmailProvider struct {
	Err error

	CallCount   int32
	LastTo      string
	LastSubject string
	LastHTML    string
}

// NewMockEmailProvider creates a new mock email provider.
func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

func (m *MockEmailProvider) Send(ctx context.Context, to, subject, html string) (string, error) {
	atomic.AddInt32(&m.CallCount, 1)
	m.LastTo = to
	m.LastSubject = subject
	m.LastHTML = html
	if m.Err != nil {
		return "", m.Err
	}
	return "email-msg-1", nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error) {
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[orderID] {
		return false, nil
	}
	m.locks[orderID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseOrderLock(ctx context.Context, orderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, orderID)
	return nil
}
