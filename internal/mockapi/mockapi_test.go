package mockapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-agri-dashboard/apiclient"
	"github.com/jrsteele09/go-agri-dashboard/internal/config"
	"github.com/jrsteele09/go-agri-dashboard/internal/mockapi"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	api *mockapi.Server
	srv *httptest.Server
}

func newTestFixture(t *testing.T, options ...mockapi.Option) *testFixture {
	t.Helper()
	api, err := mockapi.New(config.New(config.WithEnvFiles()), "TEST", options...)
	require.NoError(t, err)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return &testFixture{api: api, srv: srv}
}

func (f *testFixture) do(t *testing.T, method, path, access string, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, reader)
	require.NoError(t, err)
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func (f *testFixture) login(t *testing.T) (string, string) {
	t.Helper()
	status, body := f.do(t, http.MethodPost, apiclient.RouteAuthLogin, "",
		`{"username":"`+mockapi.DemoUsername+`","password":"`+mockapi.DemoPassword+`"}`)
	require.Equal(t, http.StatusOK, status)
	return body["access"].(string), body["refresh"].(string)
}

func TestLogin(t *testing.T) {
	f := newTestFixture(t)

	t.Run("bad credentials", func(t *testing.T) {
		status, body := f.do(t, http.MethodPost, apiclient.RouteAuthLogin, "", `{"username":"demo","password":"wrong"}`)
		require.Equal(t, http.StatusUnauthorized, status)
		require.Equal(t, "Invalid username or password.", body["details"].(map[string]interface{})["message"])
	})

	t.Run("returns tokens and user", func(t *testing.T) {
		access, refresh := f.login(t)
		require.NotEmpty(t, access)
		require.NotEmpty(t, refresh)

		status, body := f.do(t, http.MethodGet, apiclient.RouteAuthUser, access, "")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, mockapi.DemoUsername, body["username"])
	})
}

func TestRequireAuth(t *testing.T) {
	f := newTestFixture(t)

	status, _ := f.do(t, http.MethodGet, apiclient.RouteTableData, "", "")
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := f.do(t, http.MethodGet, apiclient.RouteTableData, "garbage", "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "token_not_valid", body["code"])

	access, _ := f.login(t)
	f.api.ExpireAccessTokens()
	status, _ = f.do(t, http.MethodGet, apiclient.RouteTableData, access, "")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestRefresh(t *testing.T) {
	f := newTestFixture(t)
	_, refresh := f.login(t)

	status, body := f.do(t, http.MethodPost, apiclient.RouteTokenRefresh, "", `{"refresh":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, status)
	rotated := body["refresh"].(string)
	require.NotEqual(t, refresh, rotated)

	status, _ = f.do(t, http.MethodPost, apiclient.RouteTokenRefresh, "", `{"refresh":"`+refresh+`"}`)
	require.Equal(t, http.StatusUnauthorized, status, "rotated token is single use")

	f.api.RevokeRefreshTokens()
	status, _ = f.do(t, http.MethodPost, apiclient.RouteTokenRefresh, "", `{"refresh":"`+rotated+`"}`)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, 3, f.api.Calls(apiclient.RouteTokenRefresh))
}

func TestTableData(t *testing.T) {
	f := newTestFixture(t)
	access, _ := f.login(t)

	t.Run("pagination", func(t *testing.T) {
		status, body := f.do(t, http.MethodGet, apiclient.RouteTableData+"?page=2&page_size=25", access, "")
		require.Equal(t, http.StatusOK, status)
		require.EqualValues(t, 60, body["count"])
		require.Len(t, body["results"], 25)
		require.NotNil(t, body["next"])
		require.NotNil(t, body["previous"])
	})

	t.Run("filters and ordering", func(t *testing.T) {
		status, body := f.do(t, http.MethodGet, apiclient.RouteTableData+"?country=USA,Canada&ordering=-planting_date&page_size=100", access, "")
		require.Equal(t, http.StatusOK, status)
		rows := body["results"].([]interface{})
		require.NotEmpty(t, rows)
		prev := "9999-12-31"
		for _, raw := range rows {
			row := raw.(map[string]interface{})
			require.Contains(t, []string{"USA", "Canada"}, row["country"])
			require.LessOrEqual(t, row["planting_date"], prev)
			prev = row["planting_date"].(string)
		}
	})

	t.Run("search", func(t *testing.T) {
		status, body := f.do(t, http.MethodGet, apiclient.RouteTableData+"?search=rice", access, "")
		require.Equal(t, http.StatusOK, status)
		for _, raw := range body["results"].([]interface{}) {
			require.Equal(t, "Rice", raw.(map[string]interface{})["crop_name"])
		}
	})

	t.Run("page past the end", func(t *testing.T) {
		status, body := f.do(t, http.MethodGet, apiclient.RouteTableData+"?page=50", access, "")
		require.Equal(t, http.StatusNotFound, status)
		require.Equal(t, "Invalid page.", body["detail"])
	})
}

func TestCropDetail(t *testing.T) {
	records := mockapi.GenerateCrops(3)
	f := newTestFixture(t, mockapi.WithCrops(records))
	access, _ := f.login(t)

	status, body := f.do(t, http.MethodGet, apiclient.CropDetailPath(records[1].ID), access, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, records[1].ScientificName, body["scientific_name"])

	status, _ = f.do(t, http.MethodGet, apiclient.CropDetailPath("missing"), access, "")
	require.Equal(t, http.StatusNotFound, status)
}

func TestSignup(t *testing.T) {
	f := newTestFixture(t)
	const valid = `{"username":"grower","email":"grower@example.com","password":"Sow2Reap","password_confirm":"Sow2Reap","first_name":"Gail","last_name":"Grower"}`

	status, _ := f.do(t, http.MethodPost, apiclient.RouteAuthSignup, "", valid)
	require.Equal(t, http.StatusCreated, status)

	status, body := f.do(t, http.MethodPost, apiclient.RouteAuthSignup, "", valid)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, body["details"], "username")

	disabled := newTestFixture(t, mockapi.WithSignupDisabled())
	status, _ = disabled.do(t, http.MethodPost, apiclient.RouteAuthSignup, "", valid)
	require.Equal(t, http.StatusForbidden, status)
}

func TestFormSubmit(t *testing.T) {
	f := newTestFixture(t)
	access, _ := f.login(t)

	status, body := f.do(t, http.MethodPost, apiclient.RouteFormSubmit, access, `{"full_name":"Jo","email":"x","contact_method":"phone"}`)
	require.Equal(t, http.StatusBadRequest, status)
	details := body["details"].(map[string]interface{})
	for _, field := range []string{"full_name", "email", "phone", "agree_terms"} {
		require.Contains(t, details, field)
	}

	status, _ = f.do(t, http.MethodPost, apiclient.RouteFormSubmit, access, `{"full_name":"Jane","email":"jane@example.com","contact_method":"email","agree_terms":true}`)
	require.Equal(t, http.StatusCreated, status)
}

func TestCors(t *testing.T) {
	f := newTestFixture(t)
	req, err := http.NewRequest(http.MethodOptions, f.srv.URL+apiclient.RouteAuthLogin, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newTestFixture(t)
	f.login(t)

	resp, err := http.Get(f.srv.URL + mockapi.RouteMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(data), "agri_mockapi_requests_total")
}
