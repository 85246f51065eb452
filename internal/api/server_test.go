package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/san-kum/physiosim/internal/refdata"
	"github.com/san-kum/physiosim/internal/serum"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/systemic"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func newServer(t *testing.T) *Server {
	t.Helper()
	ref, err := refdata.Default()
	require.NoError(t, err)
	return New(ref, nil)
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

var testBase = map[string]any{
	"stack": []map[string]any{{"compound": "testosterone", "dose": 250, "frequency": "2x/wk"}},
	"goal":  "lean_mass",
}

func TestEvaluate(t *testing.T) {
	s := newServer(t)
	w := do(t, s, http.MethodPost, "/v1/evaluate", testBase)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res stack.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Greater(t, res.TotalBenefit, 0.0)
	assert.Greater(t, res.TotalRisk, 0.0)
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	s := newServer(t)

	w := do(t, s, http.MethodPost, "/v1/evaluate", map[string]any{"goal": "lean_mass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bad := map[string]any{"stack": testBase["stack"], "goal": "no_such_goal"}
	w = do(t, s, http.MethodPost, "/v1/evaluate", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown goal")
}

func TestEvaluateWithProtocol(t *testing.T) {
	s := newServer(t)
	plain := do(t, s, http.MethodPost, "/v1/evaluate", testBase)
	require.Equal(t, http.StatusOK, plain.Code, plain.Body.String())

	body := map[string]any{
		"stack":    testBase["stack"],
		"goal":     testBase["goal"],
		"protocol": map[string]any{"cycle_weeks": 16},
	}
	long := do(t, s, http.MethodPost, "/v1/evaluate", body)
	require.Equal(t, http.StatusOK, long.Code, long.Body.String())

	var a, b stack.Result
	require.NoError(t, json.Unmarshal(plain.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(long.Body.Bytes(), &b))
	assert.Nil(t, a.Penalties)
	require.NotNil(t, b.Penalties)
	assert.Greater(t, b.Penalties.TimeFactor, 1.0)
	assert.Greater(t, b.TotalRisk, a.TotalRisk)
}

func TestEvaluateNonFiniteFrequency(t *testing.T) {
	s := newServer(t)
	body := map[string]any{
		"stack": []map[string]any{{"compound": "testosterone", "dose": 250, "frequency": "inf"}},
		"goal":  "lean_mass",
	}
	w := do(t, s, http.MethodPost, "/v1/evaluate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res stack.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Greater(t, res.TotalRisk, 0.0)
}

func TestSerumRejectsVanishingStep(t *testing.T) {
	s := newServer(t)
	body := map[string]any{
		"stack":  testBase["stack"],
		"config": map[string]any{"dt_hours": 1e-12, "duration_days": 28},
	}
	w := do(t, s, http.MethodPost, "/v1/serum", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshotFlagsCriticalOral(t *testing.T) {
	s := newServer(t)
	body := map[string]any{"stack": []map[string]any{
		{"compound": "testosterone", "dose": 250, "frequency": 2},
		{"compound": "dianabol", "dose": 50, "frequency": "ED"},
	}}
	w := do(t, s, http.MethodPost, "/v1/snapshot", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var snap systemic.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.True(t, snap.Load.IsCritical)
	assert.Equal(t, systemic.AxisHepatic, snap.Load.Dominant)

	m := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Contains(t, m.Body.String(), "physiosim_critical_snapshots_total 1")
}

func TestSerum(t *testing.T) {
	s := newServer(t)
	body := map[string]any{
		"stack":  testBase["stack"],
		"config": map[string]any{"dt_hours": 4, "duration_days": 28},
	}
	w := do(t, s, http.MethodPost, "/v1/serum", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res serum.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.Hours, 169)
	assert.Contains(t, res.Metrics, "peak")

	body["config"] = map[string]any{"dt_hours": -1}
	w = do(t, s, http.MethodPost, "/v1/serum", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFrontLoad(t *testing.T) {
	s := newServer(t)
	w := do(t, s, http.MethodPost, "/v1/frontload", map[string]any{
		"compound": "testosterone", "weekly_mg": 500, "frequency": 2, "ester": "enanthate",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var fl serum.FrontLoad
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fl))
	assert.Greater(t, fl.FrontLoadDose, fl.MaintenanceDose)

	w = do(t, s, http.MethodPost, "/v1/frontload", map[string]any{"compound": "unobtainium", "weekly_mg": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchKeepsOrder(t *testing.T) {
	s := newServer(t)
	reqs := make([]map[string]any, 0, 10)
	for i := 1; i <= 10; i++ {
		reqs = append(reqs, map[string]any{
			"stack": []map[string]any{{"compound": "testosterone", "dose": 50 * i, "frequency": 1}},
			"goal":  "lean_mass",
		})
	}
	w := do(t, s, http.MethodPost, "/v1/batch", map[string]any{"requests": reqs})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Results []stack.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Results, 10)
	for i := 1; i < len(out.Results); i++ {
		assert.GreaterOrEqual(t, out.Results[i].TotalRisk, out.Results[i-1].TotalRisk, "risk at %d", i)
	}

	w = do(t, s, http.MethodPost, "/v1/batch", map[string]any{"requests": []any{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogRoutes(t *testing.T) {
	s := newServer(t)

	w := do(t, s, http.MethodGet, "/v1/compounds", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var compounds []CompoundInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &compounds))
	assert.NotEmpty(t, compounds)

	w = do(t, s, http.MethodGet, "/v1/goals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "lean_mass")

	w = do(t, s, http.MethodGet, "/v1/pairs/testosterone_nandrolone/surface?steps=4", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "heatmap")

	w = do(t, s, http.MethodGet, "/v1/pairs/nope/surface", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/v1/pairs/testosterone_nandrolone/surface?steps=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsExposeRequestCounts(t *testing.T) {
	s := newServer(t)
	do(t, s, http.MethodGet, "/healthz", nil)
	w := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `physiosim_http_requests_total{code="200",method="GET",route="/healthz"} 1`), body)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	s := newServer(t)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	http.DefaultClient.CloseIdleConnections()
}
