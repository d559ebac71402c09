package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"storefront-service/database"
	"storefront-service/models"
	"storefront-service/repository"

	"go.uber.org/zap"
)

// CatalogState is the facade lifecycle. Concurrent callers arriving during
// StateInitializing share the in-flight bootstrap instead of racing
// duplicates.
type CatalogState int

const (
	StateUninitialized CatalogState = iota
	StateInitializing
	StateReady
)

// CatalogNotifier broadcasts a catalog-changed signal to other running
// instances. The payload carries nothing beyond a timestamp.
type CatalogNotifier interface {
	PublishCatalogUpdated(ctx context.Context, timestamp int64) error
}

// CatalogService fronts the durable catalog store with an in-memory cache.
// Asynchronous readers get durable-store freshness; latency-sensitive
// callers read the cache synchronously and accept staleness. When the store
// is empty it is seeded from the built-in product list; when it is
// unreachable the facade still reaches ready on the seed, degraded but
// functional.
type CatalogService struct {
	repo     repository.CatalogRepository
	notifier CatalogNotifier
	log      *zap.Logger

	mu       sync.Mutex
	state    CatalogState
	initDone chan struct{}
	products []models.Product

	subMu   sync.Mutex
	subs    map[int]func(int64)
	nextSub int
}

// NewCatalogService builds the facade. repo may be nil when the catalog
// store could not be opened; every operation then works off seed and cache.
func NewCatalogService(repo repository.CatalogRepository, notifier CatalogNotifier, log *zap.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		notifier: notifier,
		log:      log,
		subs:     make(map[int]func(int64)),
	}
}

// State reports the current lifecycle state.
func (s *CatalogService) State() CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GetAll waits for initialization and returns the cached catalog.
func (s *CatalogService) GetAll(ctx context.Context) ([]models.Product, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProducts(s.products), nil
}

// Cached returns whatever the cache holds right now, empty before
// initialization. For callers that need synchronous access and tolerate
// staleness, like incremental search.
func (s *CatalogService) Cached() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return []models.Product{}
	}
	return cloneProducts(s.products)
}

// GetByID reads the durable store for freshness and falls back to the cache
// when the store fails. Returns nil when no product has the id.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	if s.repo != nil {
		product, err := s.repo.GetByID(ctx, id)
		if err == nil {
			return product, nil
		}
		s.log.Warn("catalog store read failed, using cache", zap.Error(err), zap.String("id", id))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

// GetByCategory scans the category index, falling back to filtering the
// cache when the store fails.
func (s *CatalogService) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	if s.repo != nil {
		products, err := s.repo.GetByCategory(ctx, category)
		if err == nil {
			return products, nil
		}
		s.log.Warn("catalog store read failed, using cache", zap.Error(err), zap.String("category", category))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Product{}
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetFeatured returns the newest n cached products, most recent first.
func (s *CatalogService) GetFeatured(ctx context.Context, n int) ([]models.Product, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.products) {
		n = len(s.products)
	}
	out := make([]models.Product, 0, n)
	for i := len(s.products) - 1; i >= len(s.products)-n; i-- {
		out = append(out, s.products[i])
	}
	return out, nil
}

// Upsert writes the product into the catalog, allocating an id when it has
// none. A colliding id overwrites in place. The full catalog is persisted and
// a change notification broadcast afterward.
func (s *CatalogService) Upsert(ctx context.Context, product models.Product) (models.Product, error) {
	if err := s.ensureReady(ctx); err != nil {
		return models.Product{}, err
	}

	if product.ID == "" {
		product.ID = newProductID()
	}

	s.mu.Lock()
	next := cloneProducts(s.products)
	replaced := false
	for i := range next {
		if next[i].ID == product.ID {
			next[i] = product
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, product)
	}

	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return models.Product{}, err
	}
	s.mu.Unlock()

	s.broadcast(ctx)
	return product, nil
}

// Delete removes the product from the catalog and persists the result.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	next := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.ID != id {
			next = append(next, p)
		}
	}
	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.broadcast(ctx)
	return nil
}

// Refresh reloads the cache from the durable store. Invoked when another
// instance broadcasts a catalog change. A store failure keeps the current
// cache.
func (s *CatalogService) Refresh(ctx context.Context) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if s.repo == nil {
		return database.ErrStorageUnavailable
	}

	products, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Warn("catalog refresh failed, keeping cache", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return nil
}

// Subscribe registers a callback invoked with a timestamp after every
// catalog mutation. The returned function unsubscribes.
func (s *CatalogService) Subscribe(fn func(timestamp int64)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// ensureReady drives the uninitialized → initializing → ready transition.
// The first caller runs the bootstrap; everyone else waits on the same
// in-flight initialization.
func (s *CatalogService) ensureReady(ctx context.Context) error {
	for {
		s.mu.Lock()
		switch s.state {
		case StateReady:
			s.mu.Unlock()
			return nil
		case StateInitializing:
			done := s.initDone
			s.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
		case StateUninitialized:
			s.state = StateInitializing
			s.initDone = make(chan struct{})
			s.mu.Unlock()
			s.initialize(ctx)
			return nil
		}
	}
}

// initialize loads the catalog, seeding a fresh store and falling back to
// the seed when the store is unreachable. It always reaches ready; a broken
// store must not block the caller indefinitely.
func (s *CatalogService) initialize(ctx context.Context) {
	var products []models.Product

	if s.repo == nil {
		s.log.Warn("catalog store unavailable, serving seed data")
		products = SeedProducts()
	} else if loaded, err := s.repo.GetAll(ctx); err != nil {
		s.log.Warn("failed to load catalog, serving seed data", zap.Error(err))
		products = SeedProducts()
	} else if len(loaded) == 0 {
		products = SeedProducts()
		if err := s.repo.ReplaceAll(ctx, products); err != nil {
			s.log.Warn("failed to persist seed catalog", zap.Error(err))
		} else {
			s.log.Info("seeded catalog store", zap.Int("products", len(products)))
		}
	} else {
		products = loaded
	}

	s.mu.Lock()
	s.products = products
	s.state = StateReady
	close(s.initDone)
	s.mu.Unlock()
}

// persistLocked writes the full catalog through the durable store. Called
// with s.mu held; the cache is only updated when the write lands, so a
// failed save leaves the prior products visible.
func (s *CatalogService) persistLocked(ctx context.Context, next []models.Product) error {
	if s.repo == nil {
		return database.ErrStorageUnavailable
	}
	if err := s.repo.ReplaceAll(ctx, next); err != nil {
		s.log.Error("failed to persist catalog", zap.Error(err))
		return err
	}
	s.products = next
	return nil
}

func (s *CatalogService) broadcast(ctx context.Context) {
	ts := time.Now().UnixMilli()

	s.subMu.Lock()
	subs := make([]func(int64), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(ts)
	}

	if s.notifier != nil {
		if err := s.notifier.PublishCatalogUpdated(ctx, ts); err != nil {
			s.log.Warn("failed to publish catalog update", zap.Error(err))
		}
	}
}

// newProductID allocates a catalog id from the creation time plus a random
// suffix.
func newProductID() string {
	return fmt.Sprintf("%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

func cloneProducts(products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}
