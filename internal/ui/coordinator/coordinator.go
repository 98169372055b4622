package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"listingview/internal/domain"
	"listingview/internal/eventbus"
	"listingview/internal/listing"
	"listingview/internal/metrics"
	"listingview/internal/querycodec"
	"listingview/internal/ui/services/cache"
	"listingview/internal/ui/services/debounce"
	"listingview/internal/ui/services/history"
	"listingview/internal/ui/services/query"
)

// DefaultDebounce is the filter debounce window used when none is configured
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrPageOutOfRange is returned by SetPage for pages outside [1, totalPages]
	ErrPageOutOfRange = errors.New("page out of range")
	// ErrInvalidItemsPerPage is returned by SetItemsPerPage for non-positive sizes
	ErrInvalidItemsPerPage = errors.New("items per page must be positive")
)

// Options carries the coordinator's optional collaborators
type Options struct {
	Codec        *querycodec.Codec // defaults to a codec built from ItemsPerPage and DefaultSort
	History      history.History   // nil disables location sync
	Bus          eventbus.EventBus
	Mode         domain.Mode
	ItemsPerPage int
	DefaultSort  string
	// Debounce is the filter debounce window. Zero selects DefaultDebounce,
	// a negative value fires on the next timer tick.
	Debounce        time.Duration
	Prefetch        bool
	PrefetchLimiter *rate.Limiter // nil means unlimited
	Metrics         metrics.Recorder
	Logger          *zap.Logger
}

// Coordinator owns the canonical listing query, decides when to fetch and
// publishes every state change on its bus.
type Coordinator struct {
	mu sync.Mutex

	// Canonical state
	state      domain.QueryState
	mode       domain.Mode
	items      []domain.Item
	firstPage  int // page of items[0]
	total      int
	totalKnown bool
	loading    bool
	lastErr    string

	// Fetch bookkeeping
	seq           uint64
	cancelPrimary context.CancelFunc
	prefetching   map[prefetchKey]bool
	baseCtx       context.Context
	stop          context.CancelFunc
	wg            sync.WaitGroup
	closed        bool

	// Dependencies
	fetcher  listing.Fetcher
	codec    *querycodec.Codec
	cache    *cache.Cache
	debounce *debounce.Timer
	history  history.History
	bus      eventbus.EventBus
	prefetch bool
	limiter  *rate.Limiter
	metrics  metrics.Recorder
	logger   *zap.Logger
}

type prefetchKey struct {
	epoch uint64
	key   querycodec.Key
}

type fetchOpts struct {
	append    bool
	restoring bool
	rollback  int // page restored when an append load fails
}

// New creates a coordinator. The initial state is read from the history
// location when one is configured. No fetch happens until Refresh or a mutator.
func New(fetcher listing.Fetcher, opts Options) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Codec == nil {
		opts.Codec = querycodec.New(querycodec.Options{
			DefaultSort:         opts.DefaultSort,
			DefaultItemsPerPage: opts.ItemsPerPage,
		})
	}
	if opts.Bus == nil {
		opts.Bus = eventbus.New(opts.Logger)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	if opts.PrefetchLimiter == nil {
		opts.PrefetchLimiter = rate.NewLimiter(rate.Inf, 0)
	}
	if _, ok := domain.ParseMode(string(opts.Mode)); !ok {
		opts.Mode = domain.ModeNumbered
	}
	switch {
	case opts.Debounce == 0:
		opts.Debounce = DefaultDebounce
	case opts.Debounce < 0:
		opts.Debounce = 0
	}

	ctx, stop := context.WithCancel(context.Background())
	c := &Coordinator{
		mode:        opts.Mode,
		prefetching: make(map[prefetchKey]bool),
		baseCtx:     ctx,
		stop:        stop,
		fetcher:     fetcher,
		codec:       opts.Codec,
		cache:       cache.New(),
		debounce:    debounce.New(opts.Debounce),
		history:     opts.History,
		bus:         opts.Bus,
		prefetch:    opts.Prefetch,
		limiter:     opts.PrefetchLimiter,
		metrics:     opts.Metrics,
		logger:      opts.Logger.Named("coordinator"),
	}

	if c.history != nil {
		c.state = c.codec.Decode(c.history.Location())
	} else {
		c.state = c.codec.DefaultState()
	}
	return c
}

// Subscribe registers a listener for every coordinator event
func (c *Coordinator) Subscribe(listener func(domain.DomainEvent)) func() {
	return c.bus.SubscribeAll(listener)
}

// Refresh fetches the current state now, cancelling any pending debounce
func (c *Coordinator) Refresh() {
	c.fetch(fetchOpts{})
}

// AddFilter selects value under typ. Already selected values, empty input and
// reserved keys are ignored.
func (c *Coordinator) AddFilter(typ, value string, meta map[string]string) {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		return query.AddFilter(q, typ, value, meta)
	})
}

// RemoveFilter deselects value under typ; absent values are ignored
func (c *Coordinator) RemoveFilter(typ, value string) {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		return query.RemoveFilter(q, typ, value)
	})
}

// ToggleFilter flips the membership of value under typ
func (c *Coordinator) ToggleFilter(typ, value string, meta map[string]string) {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		return query.ToggleFilter(q, typ, value, meta)
	})
}

// SetPriceRange replaces the price range. Non-finite bounds are dropped,
// negative ones clamp to zero and an inverted range is swapped.
func (c *Coordinator) SetPriceRange(min, max float64) {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		return query.SetPrice(q, &min, &max)
	})
}

// SetPriceBounds sets both bounds, each optional
func (c *Coordinator) SetPriceBounds(min, max *float64) {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		return query.SetPrice(q, min, max)
	})
}

// SetPriceMin updates only the lower bound; nil removes it
func (c *Coordinator) SetPriceMin(min *float64) {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		return query.SetPriceMin(q, min)
	})
}

// SetPriceMax updates only the upper bound; nil removes it
func (c *Coordinator) SetPriceMax(max *float64) {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		return query.SetPriceMax(q, max)
	})
}

// ClearPriceRange removes the price range
func (c *Coordinator) ClearPriceRange() {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		return query.SetPrice(q, nil, nil)
	})
}

// SetSort changes the sort order and always returns to page 1
func (c *Coordinator) SetSort(token string) {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		if token == "" {
			token = c.codec.DefaultState().Sort
		}
		next := q.Clone()
		next.Sort = token
		return next, true
	})
}

// ClearFilters removes every filter and always returns to page 1
func (c *Coordinator) ClearFilters() {
	c.mutate(func(q domain.QueryState) (domain.QueryState, bool) {
		next, _ := query.ClearFilters(q)
		return next, true
	})
}

// mutate runs the filter pipeline: page back to 1, cache cleared, an
// immediate filterchange event, and a debounced fetch.
func (c *Coordinator) mutate(fn func(domain.QueryState) (domain.QueryState, bool)) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	next, changed := fn(c.state)
	if !changed {
		c.mu.Unlock()
		return
	}
	next.Page = 1
	c.state = next
	c.cache.Clear()
	// Whatever is in flight answers an outdated query
	c.invalidatePrimaryLocked()
	snapshot := c.state.Clone()
	c.debounce.Schedule(func() { c.fetch(fetchOpts{}) })
	c.mu.Unlock()

	c.bus.Publish(domain.FilterChangeEvent{State: snapshot})
}

// SetPage navigates to page n and fetches immediately. Pages below 1, or
// beyond the last page once the total is known, are rejected without any
// state change.
func (c *Coordinator) SetPage(n int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	if n < 1 || (c.totalKnown && n > max(c.totalPagesLocked(), 1)) {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	c.state.Page = n
	events, start := c.beginFetchLocked(fetchOpts{})
	c.mu.Unlock()

	c.run(events, start)
	return nil
}

// SetItemsPerPage changes the page size, returns to page 1, clears the
// cache and fetches immediately
func (c *Coordinator) SetItemsPerPage(n int) error {
	if n <= 0 {
		return ErrInvalidItemsPerPage
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.state.ItemsPerPage = n
	c.state.Page = 1
	c.cache.Clear()
	snapshot := c.state.Clone()
	events, start := c.beginFetchLocked(fetchOpts{})
	c.mu.Unlock()

	c.bus.Publish(domain.FilterChangeEvent{State: snapshot})
	c.run(events, start)
	return nil
}

// LoadNextPage advances one page. In loadmore and infinite mode the results
// are appended to the accumulated items. It does nothing while loading, while
// a debounced fetch is pending or when there is no next page.
func (c *Coordinator) LoadNextPage() bool {
	c.mu.Lock()
	if c.closed || c.loading || !c.hasMoreLocked() || c.debounce.Pending() {
		c.mu.Unlock()
		return false
	}
	prev := c.state.Page
	c.state.Page++
	events, start := c.beginFetchLocked(fetchOpts{append: c.mode.Appends(), rollback: prev})
	c.mu.Unlock()

	c.run(events, start)
	return true
}

// Reset clears filters, page, cache and accumulated items, then fetches page 1
func (c *Coordinator) Reset() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.Filters = nil
	c.state.Price = nil
	c.state.Page = 1
	c.items = nil
	c.total = 0
	c.totalKnown = false
	c.lastErr = ""
	c.cache.Clear()
	snapshot := c.state.Clone()
	events, start := c.beginFetchLocked(fetchOpts{})
	c.mu.Unlock()

	c.bus.Publish(domain.FilterChangeEvent{State: snapshot})
	c.run(events, start)
}

// SetMode switches the pagination style. Leaving an appending mode for
// numbered pages reloads the current page so only its items are shown.
func (c *Coordinator) SetMode(m domain.Mode) {
	if _, ok := domain.ParseMode(string(m)); !ok {
		return
	}
	c.mu.Lock()
	if c.closed || c.mode == m {
		c.mu.Unlock()
		return
	}
	prev := c.mode
	c.mode = m
	snapshot := c.state.Clone()
	var events []domain.DomainEvent
	var start func()
	if prev.Appends() && !m.Appends() && c.totalKnown {
		events, start = c.beginFetchLocked(fetchOpts{})
	}
	c.mu.Unlock()

	c.bus.Publish(domain.StateChangeEvent{State: snapshot})
	c.run(events, start)
}

// PopState re-reads the history location after back/forward navigation and
// fetches it without pushing a new entry
func (c *Coordinator) PopState() {
	if c.history == nil {
		return
	}
	restored := c.codec.Decode(c.history.Location())

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if !sameSignature(c.codec, c.state, restored) {
		c.cache.Clear()
	}
	c.state = restored
	snapshot := c.state.Clone()
	events, start := c.beginFetchLocked(fetchOpts{restoring: true})
	c.mu.Unlock()

	c.bus.Publish(domain.StateChangeEvent{State: snapshot})
	c.run(events, start)
}

// Flush runs a pending debounced fetch immediately
func (c *Coordinator) Flush() bool {
	return c.debounce.Flush()
}

// Wait blocks until every fetch started so far, primary or prefetch, has settled
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// Close cancels pending and in-flight work and waits for it to settle
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.debounce.Cancel()
	c.invalidatePrimaryLocked()
	c.stop()
	c.mu.Unlock()

	c.wg.Wait()
}

// fetch starts the fetch routine for the current state
func (c *Coordinator) fetch(opts fetchOpts) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	events, start := c.beginFetchLocked(opts)
	c.mu.Unlock()

	c.run(events, start)
}

func (c *Coordinator) run(events []domain.DomainEvent, start func()) {
	for _, e := range events {
		c.bus.Publish(e)
	}
	if start != nil {
		start()
	}
}

// beginFetchLocked supersedes the current primary fetch and either applies a
// cached page or prepares a network fetch. The returned events must be
// published, and start called, after c.mu is released.
func (c *Coordinator) beginFetchLocked(opts fetchOpts) ([]domain.DomainEvent, func()) {
	c.debounce.Cancel()
	c.invalidatePrimaryLocked()

	q := c.state.Clone()
	key := c.codec.Key(q)

	if page, ok := c.cache.Get(key); ok {
		c.metrics.CacheHit()
		wasLoading := c.loading
		c.loading = false
		c.applyLocked(page, q.Page, opts.append)
		c.pushHistoryLocked(q, opts.restoring)
		events := []domain.DomainEvent{c.updateEventLocked(opts.append, true)}
		if wasLoading {
			events = append(events, domain.LoadingEvent{Loading: false})
		}
		return events, nil
	}

	c.metrics.CacheMiss()
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancelPrimary = cancel
	seq := c.seq
	epoch := c.cache.Epoch()
	c.loading = true
	c.wg.Add(1)

	events := []domain.DomainEvent{domain.LoadingEvent{Loading: true}}
	return events, func() { go c.runPrimary(ctx, seq, q, key, epoch, opts) }
}

// invalidatePrimaryLocked makes any in-flight primary result stale
func (c *Coordinator) invalidatePrimaryLocked() {
	c.seq++
	if c.cancelPrimary != nil {
		c.cancelPrimary()
		c.cancelPrimary = nil
	}
}

func (c *Coordinator) runPrimary(ctx context.Context, seq uint64, q domain.QueryState, key querycodec.Key, epoch uint64, opts fetchOpts) {
	defer c.wg.Done()

	start := time.Now()
	page, err := c.fetcher.Fetch(ctx, listing.Request{Query: c.codec.EncodeRequest(q)})
	elapsed := time.Since(start)

	c.mu.Lock()
	if seq != c.seq || ctx.Err() != nil {
		c.mu.Unlock()
		c.metrics.ObserveFetch(metrics.KindPrimary, metrics.OutcomeCancelled, elapsed)
		c.logger.Debug("dropping superseded listing response", zap.Int("page", q.Page))
		return
	}
	if c.cancelPrimary != nil {
		c.cancelPrimary()
		c.cancelPrimary = nil
	}
	c.loading = false

	if err != nil {
		msg := failureMessage(err)
		c.lastErr = msg
		if opts.rollback > 0 && c.state.Page == q.Page {
			c.state.Page = opts.rollback
		}
		c.mu.Unlock()

		c.metrics.ObserveFetch(metrics.KindPrimary, metrics.OutcomeError, elapsed)
		c.logger.Warn("listing fetch failed", zap.Int("page", q.Page), zap.Error(err))
		c.bus.Publish(domain.LoadingEvent{Loading: false})
		c.bus.Publish(domain.ErrorEvent{Message: msg, Kind: listing.Classify(err), Err: err})
		return
	}

	c.cache.Put(key, page, epoch)
	c.applyLocked(page, q.Page, opts.append)
	c.pushHistoryLocked(q, opts.restoring)
	update := c.updateEventLocked(opts.append, false)
	mode := c.mode
	c.mu.Unlock()

	c.metrics.ObserveFetch(metrics.KindPrimary, metrics.OutcomeSuccess, elapsed)
	c.logger.Debug("listing page applied",
		zap.Int("page", q.Page),
		zap.Int("items", len(page.Items)),
		zap.Int("total", page.Total))
	c.bus.Publish(update)
	c.bus.Publish(domain.LoadingEvent{Loading: false})

	c.prefetchAdjacent(q, page.Total, mode)
}

// prefetchAdjacent warms the cache with the next page, and the previous one
// in numbered mode. Prefetches never touch visible state.
func (c *Coordinator) prefetchAdjacent(q domain.QueryState, total int, mode domain.Mode) {
	if !c.prefetch {
		return
	}
	var pages []int
	if q.Page < domain.TotalPages(total, q.ItemsPerPage) {
		pages = append(pages, q.Page+1)
	}
	if mode == domain.ModeNumbered && q.Page > 1 {
		pages = append(pages, q.Page-1)
	}

	for _, p := range pages {
		pq := q.Clone()
		pq.Page = p
		key := c.codec.Key(pq)

		c.mu.Lock()
		pk := prefetchKey{epoch: c.cache.Epoch(), key: key}
		if c.closed || c.cache.Has(key) || c.prefetching[pk] {
			c.mu.Unlock()
			continue
		}
		c.prefetching[pk] = true
		c.wg.Add(1)
		c.mu.Unlock()

		go c.runPrefetch(pq, pk)
	}
}

func (c *Coordinator) runPrefetch(q domain.QueryState, pk prefetchKey) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		delete(c.prefetching, pk)
		c.mu.Unlock()
	}()

	// Each adjacent page waits for its own token so a burst of one still
	// warms both neighbours
	if err := c.limiter.Wait(c.baseCtx); err != nil {
		return
	}
	if c.cache.Has(pk.key) {
		return
	}

	start := time.Now()
	page, err := c.fetcher.Fetch(c.baseCtx, listing.Request{Query: c.codec.EncodeRequest(q), Prefetch: true})
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.ObserveFetch(metrics.KindPrefetch, metrics.OutcomeError, elapsed)
		c.logger.Debug("prefetch failed", zap.Int("page", q.Page), zap.Error(err))
		return
	}
	if !c.cache.Put(pk.key, page, pk.epoch) {
		c.metrics.ObserveFetch(metrics.KindPrefetch, metrics.OutcomeStale, elapsed)
		return
	}
	c.metrics.ObserveFetch(metrics.KindPrefetch, metrics.OutcomeSuccess, elapsed)
}

func (c *Coordinator) applyLocked(page *domain.Page, pageNum int, appendItems bool) {
	var items []domain.Item
	if appendItems && c.mode.Appends() && len(c.items) > 0 {
		items = make([]domain.Item, 0, len(c.items)+len(page.Items))
		items = append(items, c.items...)
	} else {
		items = make([]domain.Item, 0, len(page.Items))
		c.firstPage = pageNum
	}
	c.items = append(items, page.Items...)
	c.total = page.Total
	c.totalKnown = true
	c.lastErr = ""
}

func (c *Coordinator) pushHistoryLocked(q domain.QueryState, restoring bool) {
	if c.history == nil || restoring {
		return
	}
	loc := c.codec.EncodeLocation(q)
	if loc != c.history.Location() {
		c.history.Push(loc)
	}
}

func (c *Coordinator) updateEventLocked(appended, cached bool) domain.UpdateEvent {
	items := make([]domain.Item, len(c.items))
	copy(items, c.items)
	return domain.UpdateEvent{
		Items:    items,
		Total:    c.total,
		State:    c.state.Clone(),
		Appended: appended && c.mode.Appends(),
		Cached:   cached,
	}
}

func (c *Coordinator) totalPagesLocked() int {
	return domain.TotalPages(c.total, c.state.ItemsPerPage)
}

func (c *Coordinator) hasMoreLocked() bool {
	return c.totalKnown && c.state.Page < c.totalPagesLocked()
}

// sameSignature reports whether a and b differ at most in page
func sameSignature(codec *querycodec.Codec, a, b domain.QueryState) bool {
	a.Page, b.Page = 1, 1
	return codec.Key(a) == codec.Key(b)
}

func failureMessage(err error) string {
	var se *listing.StatusError
	switch {
	case errors.As(err, &se):
		return "Failed to load products: server returned " + se.Status
	case errors.Is(err, listing.ErrMalformedResponse):
		return "Failed to load products: invalid response from server"
	default:
		return "Failed to load products: network error"
	}
}
