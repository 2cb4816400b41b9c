package mockapi

import (
	"net/http"

	"github.com/jrsteele09/go-agri-dashboard/apiclient"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RouteMetrics    = "/metrics"
	routeCropDetail = apiclient.RouteCrops + "{id}/"
)

func (s *Server) initRoutes() {
	// Auth
	s.RegisterRouteFunc(http.MethodPost, apiclient.RouteAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, apiclient.RouteTokenRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodPost, apiclient.RouteAuthSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))
	s.RegisterRouteFunc(http.MethodGet, apiclient.RouteAuthUser, ChainMiddleware(s.CurrentUserHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodPost, apiclient.RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Data
	s.RegisterRouteFunc(http.MethodGet, apiclient.RouteTableData, ChainMiddleware(s.TableDataHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodGet, routeCropDetail, ChainMiddleware(s.CropDetailHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteFunc(http.MethodPost, apiclient.RouteFormSubmit, ChainMiddleware(s.FormSubmitHandler(), s.APIMiddleware(s.RequireAuth())...))

	s.routes = append(s.routes, http.MethodGet+" "+RouteMetrics)
	s.router.Handle(RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, detailBody("Not found."))
	})
}
