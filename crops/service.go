package crops

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-agri-dashboard/apiclient"
	"github.com/jrsteele09/go-agri-dashboard/internal/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// API query parameter names
const (
	queryPage     = "page"
	queryPageSize = "page_size"
	querySearch   = "search"
	queryOrdering = "ordering"
)

// optionsPageSize is how many rows are sampled to build filter options
const optionsPageSize = 100

// Client is the subset of apiclient.Client the service needs
type Client interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
}

var _ Client = (*apiclient.Client)(nil)

type Service struct {
	client Client
	logger zerolog.Logger
}

type Option func(*Service)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(client Client, options ...Option) *Service {
	s := &Service{
		client: client,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

type pageResponse struct {
	Results []CropData `json:"results"`
	Count   int        `json:"count"`
}

// FetchCrops loads one page of the yield table
func (s *Service) FetchCrops(ctx context.Context, params FetchParams) (*Page, error) {
	var resp pageResponse
	if err := s.client.Get(ctx, apiclient.RouteTableData, BuildQuery(params), &resp); err != nil {
		return nil, fmt.Errorf("[Crops FetchCrops] %w", err)
	}
	data := resp.Results
	if data == nil {
		data = []CropData{}
	}
	return &Page{Data: data, Total: resp.Count}, nil
}

// BuildQuery converts table parameters into the API's query. Ordering is
// sent only when both a field and an order are set, with a leading '-' for
// descending. Empty filter sets are omitted.
func BuildQuery(params FetchParams) url.Values {
	query := url.Values{}
	query.Set(queryPage, strconv.Itoa(params.Page))
	query.Set(queryPageSize, strconv.Itoa(params.PageSize))

	if params.SearchTerm != "" {
		query.Set(querySearch, params.SearchTerm)
	}
	if params.SortField != "" && params.SortOrder != "" {
		prefix := ""
		if params.SortOrder == "descend" {
			prefix = "-"
		}
		query.Set(queryOrdering, prefix+params.SortField)
	}

	keys := make([]string, 0, len(params.Filters))
	for key := range params.Filters {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values := params.Filters[key]; len(values) > 0 {
			query.Set(key, strings.Join(values, ","))
		}
	}
	return query
}

// GetCropByID loads the full detail record for one crop
func (s *Service) GetCropByID(ctx context.Context, id string) (*CropDetail, error) {
	var detail CropDetail
	if err := s.client.Get(ctx, apiclient.CropDetailPath(id), nil, &detail); err != nil {
		return nil, fmt.Errorf("[Crops GetCropByID] %s: %w", id, err)
	}
	return &detail, nil
}

// FetchFilterOptions samples the first rows of the table and returns the
// distinct countries, crop names and statuses in first-seen order. Failures
// are logged and produce empty options; filters are a convenience and must
// not block the table.
func (s *Service) FetchFilterOptions(ctx context.Context) FilterOptions {
	empty := FilterOptions{Countries: []string{}, Crops: []string{}, Statuses: []string{}}

	var raw json.RawMessage
	query := url.Values{queryPageSize: []string{strconv.Itoa(optionsPageSize)}}
	if err := s.client.Get(ctx, apiclient.RouteTableData, query, &raw); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to fetch filter options.")
		return empty
	}

	rows, err := decodeRows(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to fetch filter options.")
		return empty
	}

	countries := make([]string, 0, len(rows))
	names := make([]string, 0, len(rows))
	statuses := make([]string, 0, len(rows))
	for _, row := range rows {
		countries = append(countries, row.Country)
		names = append(names, row.CropName)
		statuses = append(statuses, string(row.Status))
	}
	return FilterOptions{
		Countries: utils.UniqueNonEmpty(countries),
		Crops:     utils.UniqueNonEmpty(names),
		Statuses:  utils.UniqueNonEmpty(statuses),
	}
}

// decodeRows accepts either a bare array of rows or a paged {results} object
func decodeRows(raw json.RawMessage) ([]CropData, error) {
	var rows []CropData
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows, nil
	}
	var page pageResponse
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("[Crops FetchFilterOptions] unexpected response: %w", err)
	}
	return page.Results, nil
}
