package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity and geocode caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	DriverCacheTTL  = 30 * time.Second // duty flags change frequently
	ClientCacheTTL  = 5 * time.Minute  // contact details change rarely
	GeocodeCacheTTL = 24 * time.Hour   // addresses do not move
)

// Key prefixes
const (
	driverCachePrefix  = "cache:driver:"
	clientCachePrefix  = "cache:client:"
	geocodeCachePrefix = "cache:geocode:"
)

// CachedDriver represents a cached driver entity.
type CachedDriver struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IsOnDuty bool   `json:"is_on_duty"`
	IsActive bool   `json:"is_active"`
}

// CachedClient represents a cached client entity.
type CachedClient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CachedCoords represents cached geocoding output for an address.
type CachedCoords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GetDriver retrieves a driver from cache. A nil result means cache miss.
func (s *CacheStore) GetDriver(ctx context.Context, driverID string) (*CachedDriver, error) {
	var driver CachedDriver
	ok, err := s.get(ctx, driverCachePrefix+driverID, &driver)
	if err != nil || !ok {
		return nil, err
	}
	return &driver, nil
}

// SetDriver stores a driver in cache.
func (s *CacheStore) SetDriver(ctx context.Context, driver *CachedDriver) error {
	return s.set(ctx, driverCachePrefix+driver.ID, driver, DriverCacheTTL)
}

// InvalidateDriver removes a driver from cache.
func (s *CacheStore) InvalidateDriver(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, driverCachePrefix+driverID).Err()
}

// GetClient retrieves a client from cache. A nil result means cache miss.
func (s *CacheStore) GetClient(ctx context.Context, clientID string) (*CachedClient, error) {
	var client CachedClient
	ok, err := s.get(ctx, clientCachePrefix+clientID, &client)
	if err != nil || !ok {
		return nil, err
	}
	return &client, nil
}

// SetClient stores a client in cache.
func (s *CacheStore) SetClient(ctx context.Context, client *CachedClient) error {
	return s.set(ctx, clientCachePrefix+client.ID, client, ClientCacheTTL)
}

// GetCoords retrieves cached geocoding output for an address.
// A nil result means cache miss.
func (s *CacheStore) GetCoords(ctx context.Context, address string) (*CachedCoords, error) {
	var coords CachedCoords
	ok, err := s.get(ctx, geocodeCachePrefix+address, &coords)
	if err != nil || !ok {
		return nil, err
	}
	return &coords, nil
}

// SetCoords caches geocoding output for an address.
func (s *CacheStore) SetCoords(ctx context.Context, address string, lat, lng float64) error {
	return s.set(ctx, geocodeCachePrefix+address, &CachedCoords{Lat: lat, Lng: lng}, GeocodeCacheTTL)
}

func (s *CacheStore) get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *CacheStore) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}
