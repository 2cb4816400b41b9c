package crops_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/jrsteele09/go-agri-dashboard/apiclient"
	"github.com/jrsteele09/go-agri-dashboard/crops"
	"github.com/stretchr/testify/require"
)

// fakeClient answers Get calls with canned JSON keyed by path
type fakeClient struct {
	lock      sync.Mutex
	responses map[string]string
	err       error
	calls     []url.Values
	paths     []string
}

var _ crops.Client = (*fakeClient)(nil)

func (f *fakeClient) Get(_ context.Context, path string, query url.Values, out interface{}) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.paths = append(f.paths, path)
	f.calls = append(f.calls, query)
	if f.err != nil {
		return f.err
	}
	return json.Unmarshal([]byte(f.responses[path]), out)
}

func TestBuildQuery(t *testing.T) {
	t.Run("full parameters", func(t *testing.T) {
		query := crops.BuildQuery(crops.FetchParams{
			Page:       2,
			PageSize:   25,
			SearchTerm: "wheat",
			SortField:  "crop_name",
			SortOrder:  "descend",
			Filters: map[string][]string{
				"country": {"USA", "Canada"},
				"status":  {},
			},
		})
		require.Equal(t, url.Values{
			"page":      {"2"},
			"page_size": {"25"},
			"search":    {"wheat"},
			"ordering":  {"-crop_name"},
			"country":   {"USA,Canada"},
		}, query)
	})

	t.Run("ascending ordering has no prefix", func(t *testing.T) {
		query := crops.BuildQuery(crops.FetchParams{Page: 1, PageSize: 10, SortField: "yield_amount", SortOrder: "ascend"})
		require.Equal(t, "yield_amount", query.Get("ordering"))
	})

	t.Run("field without order sends no ordering", func(t *testing.T) {
		query := crops.BuildQuery(crops.FetchParams{Page: 1, PageSize: 10, SortField: "yield_amount"})
		require.NotContains(t, query, "ordering")
		require.NotContains(t, query, "search")
	})
}

func TestFetchCrops(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		apiclient.RouteTableData: `{"results":[{"id":"1","crop_name":"Wheat","status":"growing","yield_amount":4.5}],"count":100}`,
	}}
	svc := crops.NewService(client)

	page, err := svc.FetchCrops(context.Background(), crops.FetchParams{Page: 2, PageSize: 25})
	require.NoError(t, err)
	require.Equal(t, 100, page.Total)
	require.Len(t, page.Data, 1)
	require.Equal(t, "Wheat", page.Data[0].CropName)
	require.Equal(t, crops.StatusGrowing, page.Data[0].Status)
	require.InDelta(t, 4.5, *page.Data[0].YieldAmount, 0.001)
	require.Equal(t, "25", client.calls[0].Get("page_size"))
}

func TestGetCropByID(t *testing.T) {
	client := &fakeClient{responses: map[string]string{
		"/api/crops/1/": `{"id":"1","crop_name":"Wheat","variety":"Winter","scientific_name":"Triticum aestivum","pesticide_applied":true,"yield_amount":null}`,
	}}
	svc := crops.NewService(client)

	detail, err := svc.GetCropByID(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, []string{"/api/crops/1/"}, client.paths)
	require.Equal(t, "Triticum aestivum", detail.ScientificName)
	require.Equal(t, "Winter", detail.Variety)
	require.Nil(t, detail.YieldAmount)
	require.True(t, *detail.PesticideApplied)
}

func TestFetchFilterOptions(t *testing.T) {
	t.Run("paged response", func(t *testing.T) {
		client := &fakeClient{responses: map[string]string{
			apiclient.RouteTableData: `{"results":[
				{"country":"USA","crop_name":"Wheat","status":"growing"},
				{"country":"Canada","crop_name":"Corn","status":"harvested"},
				{"country":"USA","crop_name":"","status":"growing"}
			]}`,
		}}
		opts := crops.NewService(client).FetchFilterOptions(context.Background())
		require.Equal(t, crops.FilterOptions{
			Countries: []string{"USA", "Canada"},
			Crops:     []string{"Wheat", "Corn"},
			Statuses:  []string{"growing", "harvested"},
		}, opts)
		require.Equal(t, "100", client.calls[0].Get("page_size"))
	})

	t.Run("bare array", func(t *testing.T) {
		client := &fakeClient{responses: map[string]string{
			apiclient.RouteTableData: `[{"country":"Kenya","crop_name":"Tea","status":"planted"}]`,
		}}
		opts := crops.NewService(client).FetchFilterOptions(context.Background())
		require.Equal(t, []string{"Kenya"}, opts.Countries)
	})

	t.Run("failure yields empty options", func(t *testing.T) {
		client := &fakeClient{err: errors.New("connection refused")}
		opts := crops.NewService(client).FetchFilterOptions(context.Background())
		require.Empty(t, opts.Countries)
		require.NotNil(t, opts.Countries)
		require.Empty(t, opts.Crops)
		require.Empty(t, opts.Statuses)
	})
}

func TestStatusValid(t *testing.T) {
	require.True(t, crops.StatusFlowering.Valid())
	require.False(t, crops.Status("dormant").Valid())
}
