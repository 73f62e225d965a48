package route

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/52Jolynn/bindb/bdata"
	"github.com/52Jolynn/bindb/middleware"
)

const testCSV = `BIN,Brand,Issuer,CountryName
411111,VISA,JPMORGAN CHASE BANK,UNITED STATES
411112,VISA,JPMORGAN CHASE BANK,UNITED STATES
510510,MASTERCARD,BANK OF MONTREAL,CANADA
`

func init() {
	gin.SetMode(gin.TestMode)
}

func newService(t *testing.T, state bdata.State) *bdata.Service {
	t.Helper()
	svc := bdata.NewService()
	switch state {
	case bdata.StateReady:
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/bin-list-data.csv", []byte(testCSV), 0644))
		require.NoError(t, svc.Load(context.Background(), fs, "/bin-list-data.csv").Err)
	case bdata.StateFailed:
		require.Error(t, svc.Load(context.Background(), afero.NewMemMapFs(), "/missing.csv").Err)
	}
	return svc
}

func newRouter(svc *bdata.Service) *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORS())
	Register(r, svc, Options{
		MaxBulk:    3,
		RetryAfter: 10,
		ProbeBINs:  []string{"411111", "510510", "401288"},
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("# metrics"))
		}),
	})
	return r
}

func serve(t *testing.T, r http.Handler, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var body map[string]any
	if rr.Body.Len() > 0 && rr.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func TestLookup(t *testing.T) {
	r := newRouter(newService(t, bdata.StateReady))

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		check          func(t *testing.T, body map[string]any)
	}{
		{
			name:           "found",
			target:         "/api/lookup/411111",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				data := body["data"].(map[string]any)
				assert.Equal(t, "VISA", data["Brand"])
				assert.Equal(t, "411111", data["BIN"])
			},
		},
		{
			name:           "full card number",
			target:         "/api/lookup/5105105105105100",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "MASTERCARD", body["data"].(map[string]any)["Brand"])
			},
		},
		{
			name:           "not found with similar bins",
			target:         "/api/lookup/411199",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "BIN not found in database", body["message"])
				assert.Equal(t, []any{"411111", "411112"}, body["similarBINs"])
			},
		},
		{
			name:           "not found",
			target:         "/api/lookup/999999",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, false, body["success"])
				assert.NotContains(t, body, "similarBINs")
			},
		},
		{
			name:           "too short",
			target:         "/api/lookup/123",
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "Invalid BIN. Must be at least 6 digits.", body["message"])
			},
		},
		{
			name:           "absent",
			target:         "/api/lookup",
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := serve(t, r, http.MethodGet, tt.target)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestNotReady(t *testing.T) {
	r := newRouter(newService(t, bdata.StateLoading))

	for _, target := range []string{"/api/lookup/411111", "/api/bulk-lookup?bins=411111", "/api/stats"} {
		t.Run(target, func(t *testing.T) {
			rr, body := serve(t, r, http.MethodGet, target)
			assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
			assert.Equal(t, "10", rr.Header().Get("Retry-After"))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(10), body["retryAfter"])
		})
	}

	rr, _ := serve(t, r, http.MethodGet, "/api/lookup/123")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLoadFailed(t *testing.T) {
	r := newRouter(newService(t, bdata.StateFailed))

	rr, body := serve(t, r, http.MethodGet, "/api/lookup/411111")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Empty(t, rr.Header().Get("Retry-After"))
	assert.NotContains(t, body, "retryAfter")

	rr, body = serve(t, r, http.MethodGet, "/api/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, false, body["dataLoaded"])
}

func TestBulkLookup(t *testing.T) {
	r := newRouter(newService(t, bdata.StateReady))

	rr, body := serve(t, r, http.MethodGet, "/api/bulk-lookup?bins=411111,999999")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, body["success"])
	results := body["results"].([]any)
	require.Len(t, results, 2)
	first := results[0].(map[string]any)
	second := results[1].(map[string]any)
	assert.Equal(t, "411111", first["bin"])
	assert.Equal(t, true, first["found"])
	assert.Equal(t, "VISA", first["data"].(map[string]any)["Brand"])
	assert.Equal(t, "999999", second["bin"])
	assert.Equal(t, false, second["found"])
	assert.Nil(t, second["data"])

	tests := []struct {
		name   string
		target string
	}{
		{name: "missing bins", target: "/api/bulk-lookup"},
		{name: "empty bins", target: "/api/bulk-lookup?bins=,%20,"},
		{name: "too many bins", target: "/api/bulk-lookup?bins=411111,411112,510510,401288"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := serve(t, r, http.MethodGet, tt.target)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestStats(t *testing.T) {
	r := newRouter(newService(t, bdata.StateReady))

	rr, body := serve(t, r, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, rr.Code)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(3), stats["totalRecords"])
	assert.Equal(t, true, stats["dataLoaded"])
	assert.Equal(t, map[string]any{"VISA": float64(2), "MASTERCARD": float64(1)}, stats["brands"])
	assert.Equal(t, []any{
		map[string]any{"country": "UNITED STATES", "count": float64(2)},
		map[string]any{"country": "CANADA", "count": float64(1)},
	}, stats["topCountries"])
}

func TestHealthAndProbe(t *testing.T) {
	r := newRouter(newService(t, bdata.StateReady))

	rr, body := serve(t, r, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["dataLoaded"])
	assert.Equal(t, float64(3), body["totalRecords"])
	assert.Equal(t, []any{"411111", "411112", "510510"}, body["sampleBINs"])
	assert.Contains(t, body, "uptime")

	rr, body = serve(t, r, http.MethodGet, "/api/test")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]any{"loaded": true, "totalRecords": float64(3)}, body["databaseStatus"])
	results := body["testResults"].([]any)
	require.Len(t, results, 3)
	assert.Equal(t, true, results[0].(map[string]any)["found"])
	assert.Equal(t, true, results[1].(map[string]any)["found"])
	assert.Equal(t, false, results[2].(map[string]any)["found"])
}

func TestIndexAndMetrics(t *testing.T) {
	r := newRouter(newService(t, bdata.StateLoading))

	rr, _ := serve(t, r, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Hello bindb")

	rr, _ = serve(t, r, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "# metrics", rr.Body.String())
}

func TestPreflight(t *testing.T) {
	r := newRouter(newService(t, bdata.StateLoading))

	rr, _ := serve(t, r, http.MethodOptions, "/api/lookup/411111")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "GET, POST", rr.Header().Get("Access-Control-Allow-Methods"))
}
