package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jrsteele09/go-agri-dashboard/crops"
	"github.com/jrsteele09/go-agri-dashboard/internal/metrics"
	"github.com/jrsteele09/go-agri-dashboard/querystate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrLoadFailed is the notice shown when the latest table fetch fails
var ErrLoadFailed = errors.New("failed to load data")

// Fetcher loads table pages and filter options; crops.Service implements it
type Fetcher interface {
	FetchCrops(ctx context.Context, params crops.FetchParams) (*crops.Page, error)
	FetchFilterOptions(ctx context.Context) crops.FilterOptions
}

var _ Fetcher = (*crops.Service)(nil)

// View is what the table currently displays
type View struct {
	State   querystate.ViewState
	Data    []crops.CropData
	Total   int
	Loading bool
	Err     error
	Options crops.FilterOptions
	// Seq is the sequence number of the fetch whose result is displayed
	Seq uint64
}

// Controller coordinates table fetches with the query state. Each fetch is
// numbered when issued and its result is applied only if no newer fetch has
// been issued since, so the last issued fetch always wins regardless of the
// order in which responses arrive. Superseded fetches are not cancelled.
type Controller struct {
	store   *querystate.Store
	fetcher Fetcher
	logger  zerolog.Logger

	latest atomic.Uint64
	lock   sync.RWMutex
	view   View
}

type Option func(*Controller)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(store *querystate.Store, fetcher Fetcher, options ...Option) *Controller {
	c := &Controller{
		store:   store,
		fetcher: fetcher,
		logger:  log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	c.view.State = store.Read()
	return c
}

// ParamsFor converts a view state into fetch parameters
func ParamsFor(state querystate.ViewState) crops.FetchParams {
	return crops.FetchParams{
		Page:       state.Page,
		PageSize:   state.PageSize,
		SearchTerm: state.SearchTerm,
		SortField:  state.SortField,
		SortOrder:  string(state.SortOrder),
		Filters:    state.Filters,
	}
}

// Refresh fetches the page described by the current query state. It reports
// whether the result was applied; a superseded result is dropped and is not
// an error. A failure of the latest fetch is returned and recorded in the view.
func (c *Controller) Refresh(ctx context.Context) (bool, error) {
	// Reading the state and numbering the fetch happen together so a higher
	// sequence number always carries a state read no earlier than a lower one.
	c.lock.Lock()
	state := c.store.Read()
	seq := c.latest.Add(1)
	c.view.Loading = true
	c.lock.Unlock()

	page, err := c.fetcher.FetchCrops(ctx, ParamsFor(state))

	c.lock.Lock()
	defer c.lock.Unlock()

	if seq != c.latest.Load() {
		metrics.StaleResponses.Inc()
		c.logger.Debug().Uint64("seq", seq).Uint64("latest", c.latest.Load()).Msg("Discarding stale table response")
		return false, nil
	}

	c.view.Loading = false
	c.view.State = state
	c.view.Seq = seq
	if err != nil {
		c.view.Err = fmt.Errorf("%w: %w", ErrLoadFailed, err)
		c.logger.Err(err).Msg("Failed to load data")
		return true, c.view.Err
	}
	c.view.Err = nil
	c.view.Data = page.Data
	c.view.Total = page.Total
	return true, nil
}

// HandleTableChange applies a pager, filter or sort change and refetches
func (c *Controller) HandleTableChange(ctx context.Context, p querystate.Pagination, filters map[string][]string, sorts ...querystate.Sort) (bool, error) {
	c.store.ApplyTableChange(p, filters, sorts...)
	return c.Refresh(ctx)
}

// HandleSearch applies a search term and refetches
func (c *Controller) HandleSearch(ctx context.Context, term string) (bool, error) {
	c.store.ApplySearch(term)
	return c.Refresh(ctx)
}

// LoadFilterOptions fetches the column filter choices. Failures leave the
// options empty.
func (c *Controller) LoadFilterOptions(ctx context.Context) crops.FilterOptions {
	opts := c.fetcher.FetchFilterOptions(ctx)
	c.lock.Lock()
	c.view.Options = opts
	c.lock.Unlock()
	return opts
}

// Snapshot returns a copy of the displayed view
func (c *Controller) Snapshot() View {
	c.lock.RLock()
	defer c.lock.RUnlock()
	view := c.view
	view.Data = append([]crops.CropData(nil), c.view.Data...)
	return view
}
