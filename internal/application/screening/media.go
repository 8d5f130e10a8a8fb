package screening

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/database/redis"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// MediaSignal produces the adverse-media risk contribution for an entity.
// Callers treat failures as a zero contribution; this interface only reports
// them.
type MediaSignal interface {
	Contribution(ctx context.Context, entityName string) (float64, error)
}

type mediaResponse struct {
	Contribution float64 `json:"contribution"`
}

type httpMediaSignal struct {
	client  *http.Client
	baseURL string
	apiKey  string
	cache   redis.Cache
	cfg     config.MediaConfig
	logger  logging.Logger
}

// NewHTTPMediaSignal builds the adverse-media client.  cache may be nil, in
// which case every call hits the remote service.
func NewHTTPMediaSignal(cfg config.MediaConfig, cache redis.Cache, log logging.Logger) MediaSignal {
	return &httpMediaSignal{
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		cache:   cache,
		cfg:     cfg,
		logger:  log,
	}
}

func (m *httpMediaSignal) Contribution(ctx context.Context, entityName string) (float64, error) {
	if entityName == "" {
		return 0, errors.InvalidParam("entity name is required")
	}
	if m.cache == nil {
		resp, err := m.fetch(ctx, entityName)
		if err != nil {
			return 0, err
		}
		return resp.Contribution, nil
	}

	var cached mediaResponse
	err := m.cache.GetOrSet(ctx, "media:"+entityName, &cached, m.cfg.CacheTTL,
		func(ctx context.Context) (interface{}, error) {
			return m.fetch(ctx, entityName)
		})
	if err != nil {
		return 0, err
	}
	return cached.Contribution, nil
}

func (m *httpMediaSignal) fetch(ctx context.Context, entityName string) (*mediaResponse, error) {
	endpoint := fmt.Sprintf("%s/signal?entity=%s", m.baseURL, url.QueryEscape(entityName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to build media request")
	}
	if m.apiKey != "" {
		req.Header.Set("X-API-Key", m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSignalUnavailable, "media service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, errors.New(errors.ErrCodeSignalUnavailable, "media service error").
			WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
	}

	var out mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "invalid media response")
	}
	if out.Contribution < 0 {
		m.logger.Warn("media service returned negative contribution, clamping",
			logging.String("entity", entityName),
			logging.Float64("contribution", out.Contribution))
		out.Contribution = 0
	}
	return &out, nil
}
