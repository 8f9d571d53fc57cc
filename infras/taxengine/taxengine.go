package taxengine

//go:generate go run go.uber.org/mock/mockgen -source=./taxengine.go -destination=./mocks/taxengine_mock.go -package=mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hms/config"
	"hms/infras/otel"
	"hms/shared/constant"

	"github.com/rs/zerolog/log"
)

const (
	computePath = "/v1/taxes/compute"

	defaultTimeoutSeconds = 5
)

// ComputeRequest describes one priced line sent to the accounting tax engine.
type ComputeRequest struct {
	UnitPrice float64  `json:"unit_price"`
	Quantity  float64  `json:"quantity"`
	TaxIDs    []string `json:"tax_ids"`
	Currency  string   `json:"currency"`
	Partner   string   `json:"partner"`
}

type ComputeResult struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type TaxEngine interface {
	Compute(ctx context.Context, req ComputeRequest) (ComputeResult, error)
}

type taxEngineImpl struct {
	config *config.Config
	client *http.Client
	otel   otel.Otel
}

func New(config *config.Config, otl otel.Otel) TaxEngine {
	timeout := config.External.TaxEngine.TimeoutSeconds
	if timeout <= 0 {
		timeout = defaultTimeoutSeconds
	}

	return &taxEngineImpl{
		config: config,
		client: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		otel:   otl,
	}
}

// Compute delegates line amount computation to the external tax engine. The
// engine is authoritative: no tax rules are evaluated locally.
func (t *taxEngineImpl) Compute(ctx context.Context, req ComputeRequest) (res ComputeResult, err error) {
	ctx, scope := t.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".taxengine.Compute")
	defer scope.End()
	defer scope.TraceIfError(err)

	payload, err := json.Marshal(req)
	if err != nil {
		return res, fmt.Errorf("failed to marshal tax compute request: %w", err)
	}

	url := t.config.External.TaxEngine.BaseURL + computePath

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return res, fmt.Errorf("failed to build tax compute request: %w", err)
	}

	httpReq.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	httpRes, err := t.client.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("tax engine call failed")

		return res, fmt.Errorf("tax engine call failed: %w", err)
	}
	defer httpRes.Body.Close()

	if httpRes.StatusCode != http.StatusOK {
		log.Error().Int("status", httpRes.StatusCode).Str("url", url).Msg("tax engine returned non-OK status")

		return res, fmt.Errorf("tax engine returned status %d", httpRes.StatusCode)
	}

	if err = json.NewDecoder(httpRes.Body).Decode(&res); err != nil {
		return res, fmt.Errorf("failed to decode tax compute response: %w", err)
	}

	return res, nil
}

// Fallback is the degraded-mode computation used when the engine is
// unreachable: plain unit price times quantity, no tax. Callers must log a
// warning when they take this path.
func Fallback(req ComputeRequest) ComputeResult {
	subtotal := req.UnitPrice * req.Quantity

	return ComputeResult{
		Subtotal: subtotal,
		Tax:      0,
		Total:    subtotal,
	}
}
