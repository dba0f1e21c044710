package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PaesslerAG/jsonpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditlens/creditscore/server/internal/api"
	"github.com/creditlens/creditscore/server/internal/metrics"
)

// --- test helpers -----------------------------------------------------------

const scorePath = api.DefaultScorePath

func newHandler() http.Handler {
	return api.New(api.Options{})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, http.MethodPost, scorePath, body)
}

// field extracts a value from the JSON response body by JSONPath.
func field(t *testing.T, rr *httptest.ResponseRecorder, path string) interface{} {
	t.Helper()
	var doc interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc), "body: %s", rr.Body.String())
	v, err := jsonpath.Get(path, doc)
	require.NoError(t, err, "body: %s", rr.Body.String())
	return v
}

func assertError(t *testing.T, rr *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	assert.Equal(t, code, rr.Code, "body: %s", rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, msg, field(t, rr, "$.error"))
}

// --- score endpoint ---------------------------------------------------------

func TestScore_Success(t *testing.T) {
	rr := post(t, newHandler(), `{"monthlyRevenue":500000,"monthlyTransactions":500,"businessAge":10}`)

	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"creditScore":50}`, rr.Body.String())
}

func TestScore_Values(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"all zero", `{"monthlyRevenue":0,"monthlyTransactions":0,"businessAge":0}`, 0},
		{"all max", `{"monthlyRevenue":1000000,"monthlyTransactions":1000,"businessAge":20}`, 100},
		{"clamped above", `{"monthlyRevenue":2000000,"monthlyTransactions":500,"businessAge":10}`, 75},
		{"clamped below", `{"monthlyRevenue":-5,"monthlyTransactions":500,"businessAge":10}`, 25},
		{"numeric strings", `{"monthlyRevenue":"500000","monthlyTransactions":" 500 ","businessAge":"1e1"}`, 50},
		{"booleans coerce", `{"monthlyRevenue":0,"monthlyTransactions":0,"businessAge":true}`, 1},
		{"fractional", `{"monthlyRevenue":250000.5,"monthlyTransactions":120,"businessAge":3}`, 19},
		{"extra fields ignored", `{"monthlyRevenue":500000,"monthlyTransactions":500,"businessAge":10,"owner":"x"}`, 50},
		{"huge exponent saturates", `{"monthlyRevenue":1e400,"monthlyTransactions":0,"businessAge":0}`, 50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := post(t, newHandler(), tc.body)
			require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
			assert.Equal(t, tc.want, field(t, rr, "$.creditScore"))
		})
	}
}

func TestScore_ClampedAboveMatchesMax(t *testing.T) {
	h := newHandler()
	over := post(t, h, `{"monthlyRevenue":2000000,"monthlyTransactions":500,"businessAge":10}`)
	atMax := post(t, h, `{"monthlyRevenue":1000000,"monthlyTransactions":500,"businessAge":10}`)
	assert.Equal(t, field(t, atMax, "$.creditScore"), field(t, over, "$.creditScore"))
}

func TestScore_MethodNotAllowed(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		t.Run(m, func(t *testing.T) {
			rr := do(t, newHandler(), m, scorePath, "")
			assertError(t, rr, http.StatusMethodNotAllowed, api.MsgMethodNotAllowed)
			assert.Equal(t, http.MethodPost, rr.Header().Get("Allow"))
		})
	}
}

func TestScore_InvalidJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"whitespace", "   \n"},
		{"malformed", `{"monthlyRevenue":`},
		{"not json", `monthlyRevenue=1`},
		{"array", `[1,2,3]`},
		{"scalar", `42`},
		{"null", `null`},
		{"trailing data", `{"monthlyRevenue":1,"monthlyTransactions":1,"businessAge":1} {}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertError(t, post(t, newHandler(), tc.body), http.StatusBadRequest, api.MsgInvalidJSON)
		})
	}
}

func TestScore_BodyTooLarge(t *testing.T) {
	h := api.New(api.Options{MaxBodyBytes: 32})
	rr := post(t, h, `{"monthlyRevenue":500000,"monthlyTransactions":500,"businessAge":10}`)
	assertError(t, rr, http.StatusBadRequest, api.MsgInvalidJSON)
}

func TestScore_MissingParams(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"one missing", `{"monthlyRevenue":1,"monthlyTransactions":1}`},
		{"null value", `{"monthlyRevenue":1,"monthlyTransactions":null,"businessAge":1}`},
		{"wrong case", `{"MonthlyRevenue":1,"monthlyTransactions":1,"businessAge":1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertError(t, post(t, newHandler(), tc.body), http.StatusBadRequest, api.MsgMissingParams)
		})
	}
}

func TestScore_InvalidTypes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"word string", `{"monthlyRevenue":"abc","monthlyTransactions":500,"businessAge":10}`},
		{"empty string", `{"monthlyRevenue":500000,"monthlyTransactions":"","businessAge":10}`},
		{"nan string", `{"monthlyRevenue":500000,"monthlyTransactions":500,"businessAge":"nan"}`},
		{"hex string", `{"monthlyRevenue":"0x10","monthlyTransactions":500,"businessAge":10}`},
		{"array", `{"monthlyRevenue":[1],"monthlyTransactions":500,"businessAge":10}`},
		{"object", `{"monthlyRevenue":{"v":1},"monthlyTransactions":500,"businessAge":10}`},
		{"integer beyond float range", `{"monthlyRevenue":1` + strings.Repeat("0", 400) + `,"monthlyTransactions":500,"businessAge":10}`},
		{"negative integer beyond float range", `{"monthlyRevenue":0,"monthlyTransactions":-1` + strings.Repeat("0", 400) + `,"businessAge":10}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertError(t, post(t, newHandler(), tc.body), http.StatusBadRequest, api.MsgInvalidTypes)
		})
	}
}

func TestScore_MissingBeatsInvalidType(t *testing.T) {
	rr := post(t, newHandler(), `{"monthlyRevenue":"abc","businessAge":10}`)
	assertError(t, rr, http.StatusBadRequest, api.MsgMissingParams)
}

func TestScore_CustomPath(t *testing.T) {
	h := api.New(api.Options{ScorePath: "/v1/score"})
	rr := do(t, h, http.MethodPost, "/v1/score", `{"monthlyRevenue":500000,"monthlyTransactions":500,"businessAge":10}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, h, http.MethodPost, scorePath, `{}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- bureau endpoint --------------------------------------------------------

func TestBureau_Success(t *testing.T) {
	rr := do(t, newHandler(), http.MethodPost, api.DefaultBureauPath,
		`{"monthlyRevenue":100000,"monthlyTransactions":120,"businessAge":10}`)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	assert.JSONEq(t, `{"creditScore":595}`, rr.Body.String())
}

func TestBureau_Negative(t *testing.T) {
	rr := do(t, newHandler(), http.MethodPost, api.DefaultBureauPath,
		`{"monthlyRevenue":-1,"monthlyTransactions":120,"businessAge":10}`)
	assertError(t, rr, http.StatusBadRequest, api.MsgNegativeInputs)
}

func TestBureau_SharedValidation(t *testing.T) {
	h := newHandler()
	assertError(t, do(t, h, http.MethodGet, api.DefaultBureauPath, ""), http.StatusMethodNotAllowed, api.MsgMethodNotAllowed)
	assertError(t, do(t, h, http.MethodPost, api.DefaultBureauPath, `{}`), http.StatusBadRequest, api.MsgMissingParams)
	assertError(t, do(t, h, http.MethodPost, api.DefaultBureauPath,
		`{"monthlyRevenue":"x","monthlyTransactions":1,"businessAge":1}`), http.StatusBadRequest, api.MsgInvalidTypes)
}

// --- health & metrics -------------------------------------------------------

func TestHealth(t *testing.T) {
	h := newHandler()
	rr := do(t, h, http.MethodGet, api.HealthPath, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", field(t, rr, "$.status"))

	rr = do(t, h, http.MethodPost, api.HealthPath, "")
	assertError(t, rr, http.StatusMethodNotAllowed, api.MsgMethodNotAllowed)
}

func TestMetrics_RecordsRequests(t *testing.T) {
	reg := metrics.NewRegistry()
	h := api.New(api.Options{Metrics: reg, MetricsPath: "/metrics"})

	post(t, h, `{"monthlyRevenue":500000,"monthlyTransactions":500,"businessAge":10}`)
	post(t, h, `{}`)
	do(t, h, http.MethodGet, scorePath, "")

	rr := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `creditscore_requests_total{endpoint="score",code="200"} 1`)
	assert.Contains(t, body, `creditscore_requests_total{endpoint="score",code="400"} 1`)
	assert.Contains(t, body, `creditscore_requests_total{endpoint="score",code="405"} 1`)
	assert.Contains(t, body, `creditscore_score_last{endpoint="score"} 50`)
}

func TestMetrics_NotMountedWithoutRegistry(t *testing.T) {
	rr := do(t, newHandler(), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
