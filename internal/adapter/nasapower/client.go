package nasapower

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/solar-yield-service/internal/config"
	"github.com/couchcryptid/solar-yield-service/internal/domain"
	"github.com/couchcryptid/solar-yield-service/internal/observability"
	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	"gonum.org/v1/gonum/stat"
)

// SourceName identifies series produced by this provider.
const SourceName = "nasa-power"

const (
	paramGHI  = "ALLSKY_SFC_SW_DWN"
	paramDNI  = "CLRSKY_SFC_SW_DWN"
	paramTemp = "T2M"
	paramWind = "WS10M"

	diffuseFraction = 0.3
	fillValue       = -999.0
	defaultWind     = 5.0 // m/s, matches the analytic model

	userAgent      = "solar-yield-service/1.0"
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

var requestedParameters = strings.Join([]string{paramGHI, paramDNI, paramTemp, paramWind}, ",")

// Client implements domain.MeteorologyProvider using the NASA POWER monthly point API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	startYear  int
	endYear    int
	maxRetries int
	backoff    time.Duration
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NASA POWER client from the service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: newHTTPClient(cfg.NASAPowerTimeout),
		baseURL:    cfg.NASAPowerURL,
		startYear:  cfg.NASAPowerStartYear,
		endYear:    cfg.NASAPowerEndYear,
		maxRetries: cfg.NASAPowerMaxRetries,
		backoff:    initialBackoff,
		metrics:    metrics,
		logger:     logger,
	}
}

// Name reports the provider identity recorded on estimate reports. The year
// window is part of it because different windows yield different series.
func (c *Client) Name() string {
	return fmt.Sprintf("%s/%d-%d", SourceName, c.startYear, c.endYear)
}

// Fetch retrieves the twelve-month meteorology series for a coordinate.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) ([]domain.MonthlyMeteorology, error) {
	series, _, err := c.fetchSeries(ctx, lat, lon)
	return series, err
}

// fetchSeries is Fetch plus whether every month of every parameter resolved
// from upstream data rather than a default.
func (c *Client) fetchSeries(ctx context.Context, lat, lon float64) ([]domain.MonthlyMeteorology, bool, error) {
	params := url.Values{
		"parameters": {requestedParameters},
		"community":  {"RE"},
		"longitude":  {strconv.FormatFloat(lon, 'f', -1, 64)},
		"latitude":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"format":     {"JSON"},
		"start":      {strconv.Itoa(c.startYear)},
		"end":        {strconv.Itoa(c.endYear)},
	}

	start := time.Now()
	resp, err := c.get(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.MeteorologyAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.MeteorologyRequests.WithLabelValues("error").Inc()
		return nil, false, err
	}

	series, complete, err := resp.series()
	if err != nil {
		c.metrics.MeteorologyRequests.WithLabelValues("error").Inc()
		return nil, false, err
	}

	c.metrics.MeteorologyRequests.WithLabelValues("success").Inc()
	if !complete {
		c.logger.Warn("nasa power response has missing months", "latitude", lat, "longitude", lon)
	}
	c.logger.Debug("nasa power series fetched", "latitude", lat, "longitude", lon,
		"duration", time.Since(start))
	return series, complete, nil
}

// get performs the request, retrying transport failures and 5xx/429 responses.
func (c *Client) get(ctx context.Context, fullURL string) (*response, error) {
	backoff := c.backoff
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying nasa power request", "attempt", attempt, "backoff", backoff, "error", lastErr)
			if !sharedretry.SleepWithContext(ctx, backoff) {
				return nil, fmt.Errorf("nasa power request: %w", ctx.Err())
			}
			backoff = sharedretry.NextBackoff(backoff, maxBackoff)
		}

		resp, retryable, err := c.doRequest(ctx, fullURL)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (*response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("nasa power request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retryable := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, fmt.Errorf("nasa power API error: status %d: %s", resp.StatusCode, body)
	}

	var powerResp response
	if err := json.NewDecoder(resp.Body).Decode(&powerResp); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}
	return &powerResp, false, nil
}

// NASA POWER API response types.

type response struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

var errMissingParameter = errors.New("nasa power response missing parameter")

// series converts the parameter blocks into twelve months. complete is false
// when any month fell back to a default value.
func (r *response) series() ([]domain.MonthlyMeteorology, bool, error) {
	blocks := make(map[string]map[string]float64, 4)
	for _, name := range []string{paramGHI, paramDNI, paramTemp, paramWind} {
		block, ok := r.Properties.Parameter[name]
		if !ok {
			return nil, false, fmt.Errorf("%w: %s", errMissingParameter, name)
		}
		blocks[name] = block
	}

	complete := true
	resolve := func(name string, month int, def float64) float64 {
		v, ok := lookupMonth(blocks[name], month)
		if !ok {
			complete = false
			return def
		}
		return v
	}

	series := make([]domain.MonthlyMeteorology, 0, domain.MonthsPerYear)
	for month := 1; month <= domain.MonthsPerYear; month++ {
		ghi := resolve(paramGHI, month, 0)
		series = append(series, domain.MonthlyMeteorology{
			Month:                       month,
			GlobalHorizontalIrradiance:  ghi,
			DirectNormalIrradiance:      resolve(paramDNI, month, 0),
			DiffuseHorizontalIrradiance: ghi * diffuseFraction,
			Temperature:                 resolve(paramTemp, month, 0),
			WindSpeed:                   resolve(paramWind, month, defaultWind),
		})
	}
	return series, complete, nil
}

// lookupMonth resolves a month from a parameter block. A two-digit "MM" key wins;
// otherwise the multi-year "YYYYMM" entries for that month are averaged. Fill
// values are ignored. ok is false when nothing usable remains.
func lookupMonth(block map[string]float64, month int) (float64, bool) {
	suffix := fmt.Sprintf("%02d", month)
	if v, ok := block[suffix]; ok && !isFill(v) {
		return v, true
	}

	var values []float64
	for key, v := range block {
		if len(key) != 6 || key[4:] != suffix || isFill(v) {
			continue
		}
		if _, err := strconv.Atoi(key[:4]); err != nil {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

func isFill(v float64) bool { return v <= fillValue }

type userAgentTransport struct {
	transport http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.transport.RoundTrip(req)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{
			transport: http.DefaultTransport,
			userAgent: userAgent,
		},
		Timeout: timeout,
	}
}
