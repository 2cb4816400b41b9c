package apiclient

import (
	"fmt"
	"net/url"
	"strings"
)

// API route constants
// Every endpoint the dashboard consumes is defined here so the client and
// the mock API stay in step.
const (
	// Auth routes
	RouteAuthLogin    = "/api/auth/login/"
	RouteAuthUser     = "/api/auth/user/"
	RouteAuthLogout   = "/api/auth/logout/"
	RouteTokenRefresh = "/api/auth/token/refresh/"
	RouteAuthSignup   = "/api/auth/signup/"

	// Data routes
	RouteTableData  = "/api/table/data/"
	RouteCrops      = "/api/crops/"
	RouteFormSubmit = "/api/form/submit/"
)

// CropDetailPath returns the detail route for a single crop record
func CropDetailPath(id string) string {
	return fmt.Sprintf("%s%s/", RouteCrops, url.PathEscape(id))
}

// IsLoginPath reports whether a 401 from path means bad credentials rather
// than an expired access token. Such responses never trigger a refresh.
func IsLoginPath(path string) bool {
	return strings.Contains(path, "/login/")
}
