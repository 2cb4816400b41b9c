package querystate

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination is the table widget's pager position. Zero fields mean "use the default".
type Pagination struct {
	Current  int
	PageSize int
}

// Sort is one sort column reported by the table widget. An empty Order
// means the user cleared the sort on Field.
type Sort struct {
	Field string
	Order SortOrder
}

// TableChange returns a copy of values with a table change applied. Only
// the first sort is honoured. A sort with a field and order sets both sort
// parameters, a field without an order removes them, and no sort (or a
// field-less one) leaves them untouched. Every recognised filter is removed
// and the non-empty ones are re-added comma-joined.
func TableChange(values url.Values, p Pagination, filters map[string][]string, sorts ...Sort) url.Values {
	next := clone(values)

	page, size := p.Current, p.PageSize
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	next.Set(ParamPage, strconv.Itoa(page))
	next.Set(ParamPageSize, strconv.Itoa(size))

	if len(sorts) > 0 && sorts[0].Field != "" {
		primary := sorts[0]
		if primary.Order != "" {
			next.Set(ParamSortField, primary.Field)
			next.Set(ParamSortOrder, string(primary.Order))
		} else {
			next.Del(ParamSortField)
			next.Del(ParamSortOrder)
		}
	}

	for _, key := range FilterKeys {
		next.Del(key)
	}
	for key, set := range filters {
		if !isFilterKey(key) {
			continue
		}
		if joined := joinList(set); joined != "" {
			next.Set(key, joined)
		}
	}
	return next
}

// Search returns a copy of values with the search term applied. A non-empty
// term also resets the page to the first one; clearing the term leaves the
// page alone.
func Search(values url.Values, term string) url.Values {
	next := clone(values)
	if term == "" {
		next.Del(ParamSearch)
		return next
	}
	next.Set(ParamSearch, term)
	next.Set(ParamPage, strconv.Itoa(DefaultPage))
	return next
}

func joinList(set []string) string {
	parts := make([]string, 0, len(set))
	for _, v := range set {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ",")
}

func clone(values url.Values) url.Values {
	next := make(url.Values, len(values))
	for k, v := range values {
		next[k] = append([]string(nil), v...)
	}
	return next
}
