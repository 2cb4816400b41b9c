package dashboard_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-agri-dashboard/crops"
	"github.com/jrsteele09/go-agri-dashboard/dashboard"
	"github.com/jrsteele09/go-agri-dashboard/querystate"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// gatedFetcher holds each FetchCrops call until the test releases it
type gatedFetcher struct {
	lock    sync.Mutex
	gates   map[int]chan struct{}
	started chan int
	err     error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: map[int]chan struct{}{}, started: make(chan int, 10)}
}

func (f *gatedFetcher) gate(page int) chan struct{} {
	f.lock.Lock()
	defer f.lock.Unlock()
	if _, ok := f.gates[page]; !ok {
		f.gates[page] = make(chan struct{})
	}
	return f.gates[page]
}

func (f *gatedFetcher) FetchCrops(_ context.Context, params crops.FetchParams) (*crops.Page, error) {
	gate := f.gate(params.Page)
	f.started <- params.Page
	<-gate
	if f.err != nil {
		return nil, f.err
	}
	return &crops.Page{
		Data:  []crops.CropData{{ID: "page", CropName: string(rune('A' + params.Page - 1))}},
		Total: params.Page * 100,
	}, nil
}

func (f *gatedFetcher) FetchFilterOptions(context.Context) crops.FilterOptions {
	return crops.FilterOptions{Countries: []string{"USA"}, Crops: []string{"Wheat"}, Statuses: []string{"growing"}}
}

type result struct {
	applied bool
	err     error
}

func TestLatestIssuedFetchWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := querystate.NewStore(querystate.NewLocation("page=1"))
	fetcher := newGatedFetcher()
	ctrl := dashboard.NewController(store, fetcher)
	ctx := context.Background()

	resultA := make(chan result, 1)
	go func() {
		applied, err := ctrl.Refresh(ctx)
		resultA <- result{applied, err}
	}()
	require.Equal(t, 1, <-fetcher.started)

	resultB := make(chan result, 1)
	go func() {
		applied, err := ctrl.HandleTableChange(ctx, querystate.Pagination{Current: 2, PageSize: 10}, nil)
		resultB <- result{applied, err}
	}()
	require.Equal(t, 2, <-fetcher.started)

	// B resolves first, then A
	close(fetcher.gate(2))
	b := <-resultB
	require.NoError(t, b.err)
	require.True(t, b.applied)

	close(fetcher.gate(1))
	a := <-resultA
	require.NoError(t, a.err)
	require.False(t, a.applied, "superseded fetch is discarded")

	view := ctrl.Snapshot()
	require.Equal(t, 200, view.Total)
	require.Equal(t, "B", view.Data[0].CropName)
	require.Equal(t, 2, view.State.Page)
	require.False(t, view.Loading)
	require.EqualValues(t, 2, view.Seq)
}

// pageFetcher answers immediately, with a per-page delay that shuffles completion order
type pageFetcher struct{}

func (pageFetcher) FetchCrops(_ context.Context, params crops.FetchParams) (*crops.Page, error) {
	time.Sleep(time.Duration(params.Page%4) * time.Millisecond)
	return &crops.Page{Data: []crops.CropData{{ID: strconv.Itoa(params.Page)}}, Total: params.Page}, nil
}

func (pageFetcher) FetchFilterOptions(context.Context) crops.FilterOptions {
	return crops.FilterOptions{}
}

func TestConcurrentChangesSettleOnQueryState(t *testing.T) {
	defer goleak.VerifyNone(t)

	for round := 0; round < 20; round++ {
		store := querystate.NewStore(nil)
		ctrl := dashboard.NewController(store, pageFetcher{})

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for page := 1; page <= 8; page++ {
			wg.Add(1)
			go func(page int) {
				defer wg.Done()
				_, err := ctrl.HandleTableChange(context.Background(), querystate.Pagination{Current: page, PageSize: 10}, nil)
				errs <- err
			}(page)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		view := ctrl.Snapshot()
		current := store.Read()
		require.Equal(t, current, view.State)
		require.Equal(t, current.Page, view.Total)
		require.Equal(t, strconv.Itoa(current.Page), view.Data[0].ID)
		require.False(t, view.Loading)
	}
}

func TestRefreshFailure(t *testing.T) {
	store := querystate.NewStore(nil)
	fetcher := newGatedFetcher()
	fetcher.err = errors.New("boom")
	close(fetcher.gate(1))
	ctrl := dashboard.NewController(store, fetcher)

	applied, err := ctrl.Refresh(context.Background())
	require.True(t, applied)
	require.ErrorIs(t, err, dashboard.ErrLoadFailed)

	view := ctrl.Snapshot()
	require.ErrorIs(t, view.Err, dashboard.ErrLoadFailed)
	require.False(t, view.Loading)
}

func TestHandleSearch(t *testing.T) {
	store := querystate.NewStore(querystate.NewLocation("page=5"))
	fetcher := newGatedFetcher()
	close(fetcher.gate(1))
	ctrl := dashboard.NewController(store, fetcher)

	applied, err := ctrl.HandleSearch(context.Background(), "wheat")
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, 1, <-fetcher.started)

	view := ctrl.Snapshot()
	require.Equal(t, "wheat", view.State.SearchTerm)
	require.Equal(t, 1, view.State.Page)
}

func TestLoadFilterOptions(t *testing.T) {
	ctrl := dashboard.NewController(querystate.NewStore(nil), newGatedFetcher())
	opts := ctrl.LoadFilterOptions(context.Background())
	require.Equal(t, []string{"USA"}, opts.Countries)
	require.Equal(t, opts, ctrl.Snapshot().Options)
}

func TestParamsFor(t *testing.T) {
	state := querystate.Parse("page=3&pageSize=50&search=rice&sortField=country&sortOrder=descend&status=growing")
	require.Equal(t, crops.FetchParams{
		Page:       3,
		PageSize:   50,
		SearchTerm: "rice",
		SortField:  "country",
		SortOrder:  "descend",
		Filters:    map[string][]string{"status": {"growing"}},
	}, dashboard.ParamsFor(state))
}
