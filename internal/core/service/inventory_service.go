package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/metrics"
	"github.com/rl1809/stockroom/internal/port"
)

const defaultPersistTimeout = 3 * time.Second

// ErrStateNotLoaded is reported by LastPersistError while writes are held
// back because the stored state could not be read.
var ErrStateNotLoaded = errors.New("stored state not loaded")

// InventoryService owns the whole application state: the inventory
// registry, every catalog and their shipment ledgers. Each successful
// mutation is written through to the StateRepository; a failed write is
// logged and remembered but never undoes the in-memory change.
type InventoryService struct {
	mu sync.Mutex

	repo           port.StateRepository
	clock          port.Clock
	log            *zap.Logger
	metrics        *metrics.Metrics
	persistTimeout time.Duration

	inventories []string
	selected    string
	catalogs    map[string][]domain.Product
	selection   map[int64]struct{}
	lastID      int64
	persistErr  error

	// unloaded is set when Load failed; writing then would replace the
	// stored state with defaults.
	unloaded bool
}

type Option func(*InventoryService)

func WithClock(c port.Clock) Option {
	return func(s *InventoryService) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *InventoryService) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *InventoryService) { s.metrics = m }
}

func WithPersistTimeout(d time.Duration) Option {
	return func(s *InventoryService) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// NewInventoryService starts from the default state. Call Load to replace
// it with whatever the repository holds.
func NewInventoryService(repo port.StateRepository, opts ...Option) *InventoryService {
	s := &InventoryService{
		repo:           repo,
		clock:          port.SystemClock{},
		log:            zap.NewNop(),
		persistTimeout: defaultPersistTimeout,
		selection:      make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.apply(domain.DefaultSnapshot())
	return s
}

// Load replaces the in-memory state with the stored snapshot, or with the
// default state when nothing has been stored yet. Loaded ledgers are
// re-derived against today so stale delivery flags are corrected.
//
// When the store cannot be read the service keeps serving from memory but
// stops writing until a later Load succeeds.
func (s *InventoryService) Load(ctx context.Context) error {
	snap, err := s.repo.LoadState(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.unloaded = true
		s.persistErr = fmt.Errorf("%w: %w", ErrStateNotLoaded, err)
		s.log.Warn("stored state not loaded, writes disabled", zap.Error(err))
		return fmt.Errorf("load state: %w", err)
	}
	s.unloaded = false

	fresh := snap == nil
	if fresh {
		def := domain.DefaultSnapshot()
		snap = &def
	}
	s.apply(*snap)

	s.log.Info("state loaded",
		zap.Bool("fresh", fresh),
		zap.Int("inventories", len(s.inventories)),
		zap.Int("products", s.productCount()),
		zap.String("selected", s.selected),
	)

	s.persist(ctx)
	return nil
}

// apply installs snap as the current state, repairing anything that would
// break the registry invariants.
func (s *InventoryService) apply(snap domain.Snapshot) {
	today := s.today()

	s.inventories = nil
	s.catalogs = make(map[string][]domain.Product)
	s.selection = make(map[int64]struct{})
	s.lastID = 0

	for _, name := range snap.Inventories {
		if !domain.ValidInventoryName(name) || slices.Contains(s.inventories, name) {
			continue
		}
		s.inventories = append(s.inventories, name)
		s.catalogs[name] = []domain.Product{}
	}

	// Catalogs saved without a registry entry are adopted, not dropped.
	orphans := make([]string, 0)
	for name := range snap.ProductsData {
		if _, ok := s.catalogs[name]; !ok && domain.ValidInventoryName(name) {
			orphans = append(orphans, name)
		}
	}
	slices.Sort(orphans)
	for _, name := range orphans {
		s.inventories = append(s.inventories, name)
		s.catalogs[name] = []domain.Product{}
	}

	for _, name := range s.inventories {
		for _, p := range snap.ProductsData[name] {
			p = p.Clone()
			details := domain.UpgradeLegacySummary(p.Details, today)
			details.Shipments = slices.DeleteFunc(details.Shipments, func(sh domain.Shipment) bool {
				return sh.Quantity <= 0
			})
			p.Details = domain.Derive(details, today)
			p.InCart = p.ClampCart(p.InCart)
			s.catalogs[name] = append(s.catalogs[name], p)
			if p.ID > s.lastID {
				s.lastID = p.ID
			}
		}
	}

	// Ids must be unique across catalogs; later duplicates get fresh ids.
	seen := make(map[int64]struct{})
	for _, name := range s.inventories {
		products := s.catalogs[name]
		for i := range products {
			if _, dup := seen[products[i].ID]; dup {
				s.lastID++
				s.log.Warn("duplicate product id re-assigned",
					zap.String("inventory", name),
					zap.Int64("old_id", products[i].ID),
					zap.Int64("new_id", s.lastID),
				)
				products[i].ID = s.lastID
			}
			seen[products[i].ID] = struct{}{}
		}
	}

	s.selected = snap.SelectedInventory
	if s.selected != domain.AllInventories && !s.hasInventory(s.selected) {
		s.selected = s.firstInventory()
	}
}

// Snapshot returns the state in its persisted layout.
func (s *InventoryService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *InventoryService) snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Inventories:       slices.Clone(s.inventories),
		SelectedInventory: s.selected,
		AllProducts:       make(map[string][]string, len(s.inventories)),
		ProductsData:      make(map[string][]domain.Product, len(s.inventories)),
	}
	for _, name := range s.inventories {
		products := s.catalogs[name]
		snap.AllProducts[name] = domain.ProductNames(products)
		snap.ProductsData[name] = cloneProducts(products)
	}
	return snap
}

// LastPersistError reports the error of the most recent write, nil once a
// later write succeeds.
func (s *InventoryService) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistErr
}

// persist writes the current state. Callers hold s.mu.
func (s *InventoryService) persist(ctx context.Context) {
	s.metrics.CatalogSize(len(s.inventories), s.productCount())

	if s.unloaded {
		s.metrics.PersistFailed()
		s.log.Warn("state not persisted, stored state was never loaded")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.repo.SaveState(ctx, s.snapshot()); err != nil {
		s.persistErr = err
		s.metrics.PersistFailed()
		s.log.Warn("state not persisted, keeping in-memory copy", zap.Error(err))
		return
	}
	s.persistErr = nil
}

// committed records a successful mutation and writes it through.
func (s *InventoryService) committed(ctx context.Context, op string) {
	s.metrics.Mutation(op)
	s.persist(ctx)
}

// rejected records an ignored mutation and returns err unchanged.
func (s *InventoryService) rejected(op string, err error) error {
	s.metrics.Rejected(op)
	s.log.Debug("mutation ignored", zap.String("op", op), zap.Error(err))
	return err
}

func (s *InventoryService) today() time.Time {
	return domain.DateOf(s.clock.Now())
}

func (s *InventoryService) hasInventory(name string) bool {
	_, ok := s.catalogs[name]
	return ok
}

func (s *InventoryService) firstInventory() string {
	if len(s.inventories) == 0 {
		return ""
	}
	return s.inventories[0]
}

func (s *InventoryService) productCount() int {
	n := 0
	for _, products := range s.catalogs {
		n += len(products)
	}
	return n
}

// nextID hands out ids that follow creation time and never repeat, even
// when the clock goes backwards or two products share a millisecond.
func (s *InventoryService) nextID() int64 {
	id := s.clock.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func cloneProducts(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, p.Clone())
	}
	return out
}
