package querystate

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameter names. These form a contract with shared links, so they
// must not change.
const (
	ParamPage      = "page"
	ParamPageSize  = "pageSize"
	ParamSearch    = "search"
	ParamSortField = "sortField"
	ParamSortOrder = "sortOrder"
)

// Recognised filter keys, one per filterable table column
const (
	FilterCountry  = "country"
	FilterStatus   = "status"
	FilterCropName = "crop_name"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// FilterKeys lists the recognised filter parameters in display order
var FilterKeys = []string{FilterCountry, FilterStatus, FilterCropName}

// PageSizes are the page sizes the table offers
var PageSizes = []int{10, 25, 50, 100}

type SortOrder string

const (
	Ascend  SortOrder = "ascend"
	Descend SortOrder = "descend"
)

func (o SortOrder) Valid() bool {
	return o == Ascend || o == Descend
}

// ViewState is the table configuration encoded in the query string. It is
// always derived from the current query and never stored on its own.
type ViewState struct {
	Page       int
	PageSize   int
	SearchTerm string
	SortField  string
	SortOrder  SortOrder
	Filters    map[string][]string
}

// Sorted reports whether both a sort field and a direction are present
func (v ViewState) Sorted() bool {
	return v.SortField != "" && v.SortOrder != ""
}

// Parse decodes a raw query string (with or without the leading '?')
func Parse(query string) ViewState {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil && values == nil {
		values = url.Values{}
	}
	return ParseValues(values)
}

// ParseValues decodes already-parsed query values. Malformed numbers and
// out-of-range values fall back to the defaults; a sort field without a
// recognised order is treated as unsorted.
func ParseValues(values url.Values) ViewState {
	state := ViewState{
		Page:       positiveInt(values.Get(ParamPage), DefaultPage),
		PageSize:   pageSize(values.Get(ParamPageSize)),
		SearchTerm: values.Get(ParamSearch),
		Filters:    map[string][]string{},
	}

	field, order := values.Get(ParamSortField), SortOrder(values.Get(ParamSortOrder))
	if field != "" && order.Valid() {
		state.SortField = field
		state.SortOrder = order
	}

	for _, key := range FilterKeys {
		if set := splitList(values.Get(key)); len(set) > 0 {
			state.Filters[key] = set
		}
	}
	return state
}

// Encode renders query values with sorted keys, leaving commas unescaped so
// filter lists stay readable in a shared link.
func Encode(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(escape(k))
			b.WriteByte('=')
			b.WriteString(escape(v))
		}
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "%2C", ",")
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func pageSize(raw string) int {
	n := positiveInt(raw, DefaultPageSize)
	for _, size := range PageSizes {
		if n == size {
			return n
		}
	}
	return DefaultPageSize
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isFilterKey(key string) bool {
	for _, k := range FilterKeys {
		if k == key {
			return true
		}
	}
	return false
}
