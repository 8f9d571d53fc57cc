package taxengine_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"hms/config"
	"hms/infras/otel/mocks"
	"hms/infras/taxengine"
)

func TestTaxEngineCompute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/taxes/compute", r.URL.Path)

		var req taxengine.ComputeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(120), req.UnitPrice)
		assert.Equal(t, float64(2), req.Quantity)

		_ = json.NewEncoder(w).Encode(taxengine.ComputeResult{
			Subtotal: 240,
			Tax:      24,
			Total:    264,
		})
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.External.TaxEngine.BaseURL = server.URL

	engine := taxengine.New(cfg, mocks.NewOtel())

	res, err := engine.Compute(context.Background(), taxengine.ComputeRequest{
		UnitPrice: 120,
		Quantity:  2,
		Partner:   "Alice",
	})

	assert.NoError(t, err)
	assert.Equal(t, float64(240), res.Subtotal)
	assert.Equal(t, float64(24), res.Tax)
	assert.Equal(t, float64(264), res.Total)
}

func TestTaxEngineComputeNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.External.TaxEngine.BaseURL = server.URL

	engine := taxengine.New(cfg, mocks.NewOtel())

	_, err := engine.Compute(context.Background(), taxengine.ComputeRequest{UnitPrice: 120, Quantity: 2})
	assert.Error(t, err)
}

func TestTaxEngineComputeUnreachable(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.TaxEngine.BaseURL = "http://127.0.0.1:1"
	cfg.External.TaxEngine.TimeoutSeconds = 1

	engine := taxengine.New(cfg, mocks.NewOtel())

	_, err := engine.Compute(context.Background(), taxengine.ComputeRequest{UnitPrice: 120, Quantity: 2})
	assert.Error(t, err)
}

func TestFallback(t *testing.T) {
	res := taxengine.Fallback(taxengine.ComputeRequest{UnitPrice: 120, Quantity: 2})

	assert.Equal(t, float64(240), res.Subtotal)
	assert.Zero(t, res.Tax)
	assert.Equal(t, float64(240), res.Total)
}
