package directory

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/vrn-registry/internal/domain"
	"github.com/couchcryptid/vrn-registry/internal/observability"
	"github.com/jonboulle/clockwork"
)

// LoadErrorMessage is what users see when provider listings fail to load.
const LoadErrorMessage = "We couldn't load provider listings right now. Please try again in a moment."

// Snapshot is a copy of the directory state at one moment.
type Snapshot struct {
	Providers []domain.Provider `json:"providers"`
	Count     int               `json:"count"`
	Loading   bool              `json:"loading"`
	Error     string            `json:"error,omitempty"`
	LoadedAt  *time.Time        `json:"loaded_at,omitempty"`
}

// Directory holds the normalized provider list in memory and answers searches
// against it. The list is replaced wholesale on each successful refresh and
// kept as-is when a refresh fails.
//
// Refreshes are not deduplicated or cancelled: when two overlap, whichever
// resolves last wins, even if it was started first.
type Directory struct {
	source  domain.ProviderSource
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool

	mu        sync.RWMutex
	providers []domain.Provider
	inFlight  int
	loadErr   string
	loadedAt  time.Time
}

// New creates an empty Directory. Call Run or Refresh to load providers.
func New(source domain.ProviderSource, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Directory {
	return &Directory{
		source:    source,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		providers: []domain.Provider{},
	}
}

// Run performs the initial load. Failures are logged and reflected in the
// snapshot; nothing retries until the next explicit refresh.
func (d *Directory) Run(ctx context.Context) error {
	d.logger.Info("loading provider listings")
	return d.Refresh(ctx)
}

// Refresh fetches all records, normalizes them in full, and replaces the
// current provider list. On failure the previous list is kept and the user
// facing error message is set.
func (d *Directory) Refresh(ctx context.Context) error {
	d.begin()
	start := d.clock.Now()

	set, err := d.source.FetchRecords(ctx)
	d.metrics.SourceFetchDuration.Observe(d.clock.Since(start).Seconds())
	if err != nil {
		d.fail()
		d.metrics.SourceFetches.WithLabelValues(fetchOutcome(err)).Inc()
		d.logger.Error("provider listings load failed", "error", err)
		return err
	}

	providers := domain.NormalizeRecordSet(set)
	dropped := len(set.Records) - len(providers)
	d.succeed(providers)

	d.ready.Store(true)
	d.metrics.SourceFetches.WithLabelValues("success").Inc()
	d.metrics.RecordsFetched.Add(float64(len(set.Records)))
	d.metrics.RecordsDropped.Add(float64(dropped))
	d.metrics.ProvidersLoaded.Set(float64(len(providers)))
	d.logger.Info("provider listings loaded",
		"providers", len(providers),
		"records", len(set.Records),
		"dropped", dropped,
	)
	return nil
}

// Snapshot returns a copy of the current state.
func (d *Directory) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := Snapshot{
		Providers: d.copyProviders(),
		Count:     len(d.providers),
		Loading:   d.inFlight > 0,
		Error:     d.loadErr,
	}
	if !d.loadedAt.IsZero() {
		loadedAt := d.loadedAt
		snap.LoadedAt = &loadedAt
	}
	return snap
}

// Search evaluates a query against the current providers.
func (d *Directory) Search(q domain.Query) []domain.Provider {
	results := domain.Evaluate(d.current(), q)
	d.observeSearch(len(results))
	return results
}

// Submit applies a submit event to a search form using the current providers.
func (d *Directory) Submit(state domain.SearchState) domain.SearchState {
	next := domain.Reduce(state, domain.Submit{Providers: d.current()})
	d.observeSearch(len(next.Results))
	return next
}

// CheckReadiness returns nil once providers have loaded at least once.
func (d *Directory) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("provider listings have not loaded yet")
	}
	return nil
}

func (d *Directory) begin() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight++
	d.loadErr = ""
}

func (d *Directory) fail() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight--
	d.loadErr = LoadErrorMessage
}

func (d *Directory) succeed(providers []domain.Provider) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight--
	d.providers = providers
	d.loadedAt = d.clock.Now()
}

// current returns the provider slice. Slices are replaced, never mutated, so
// the caller may read it without holding the lock.
func (d *Directory) current() []domain.Provider {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.providers
}

func (d *Directory) copyProviders() []domain.Provider {
	out := make([]domain.Provider, len(d.providers))
	copy(out, d.providers)
	return out
}

func (d *Directory) observeSearch(n int) {
	d.metrics.Searches.Inc()
	d.metrics.SearchResults.Observe(float64(n))
}

func fetchOutcome(err error) string {
	var cfgErr *domain.ConfigurationError
	if errors.As(err, &cfgErr) {
		return "misconfigured"
	}
	return "error"
}
