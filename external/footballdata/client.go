package footballdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/matchday-bot/internal/domain/match"
	"github.com/riskibarqy/matchday-bot/internal/platform/logging"
	"github.com/riskibarqy/matchday-bot/internal/platform/metrics"
	"github.com/riskibarqy/matchday-bot/internal/platform/resilience"
	"github.com/riskibarqy/matchday-bot/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultBaseURL   = "https://api.football-data.org/v2"
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 6 << 20
	dateLayout       = "2006-01-02"
	authHeader       = "X-Auth-Token"
)

var tracer = otel.Tracer("matchday-bot/external/footballdata")

// statusError is a non-2xx provider response. It unwraps to usecase.ErrAPI.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.code, e.body)
}

func (e *statusError) Unwrap() error { return usecase.ErrAPI }

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Recorder
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads fixtures and results from football-data.org.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *logging.Logger
	metrics    *metrics.Recorder
	breaker    *resilience.CircuitBreaker
	validate   *validator.Validate
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("football-data circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      strings.TrimSpace(cfg.Token),
		logger:     logger,
		metrics:    cfg.Metrics,
		breaker:    breaker,
		validate:   validator.New(),
	}
}

// FetchMatches returns the matches scheduled on date, grouped by
// competition. A day without matches yields an empty grouping and no error.
func (c *Client) FetchMatches(ctx context.Context, date time.Time) (match.MatchesByLeague, error) {
	day := date.Format(dateLayout)
	ctx, span := tracer.Start(ctx, "footballdata.Client.FetchMatches")
	span.SetAttributes(attribute.String("football.date", day))
	defer span.End()

	values := url.Values{}
	values.Set("dateFrom", day)
	values.Set("dateTo", day)
	fullURL := c.baseURL + "/matches?" + values.Encode()

	started := time.Now()
	var raw []byte
	err := c.breaker.Execute(func() error {
		var reqErr error
		raw, reqErr = c.executeRequest(ctx, fullURL)
		return reqErr
	}, isCircuitFailure)
	c.metrics.UpstreamRequest(metrics.Outcome(err), time.Since(started))
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
		err = crerr.Wrap(usecase.ErrNetwork, "football-data temporarily unavailable")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch matches")
		return nil, err
	}

	c.logger.InfoContext(ctx, "football-data response",
		"date", day,
		"url", fullURL,
		"bytes", len(raw),
		"body", abbreviate(c.sanitize(string(raw))),
	)

	out, err := c.decode(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decode matches")
		return nil, err
	}
	span.SetAttributes(attribute.Int("football.matches", out.Len()))

	return out, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(authHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", c.sanitize(err.Error()))
		return nil, crerr.Wrapf(usecase.ErrNetwork, "send request: %s", c.sanitize(err.Error()))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, crerr.Wrapf(usecase.ErrNetwork, "read response body: %s", c.sanitize(err.Error()))
	}
	if len(raw) > maxResponseBytes {
		return nil, crerr.Wrapf(usecase.ErrAPI, "response body exceeds %d bytes", maxResponseBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &statusError{code: resp.StatusCode, body: abbreviate(c.sanitize(string(raw)))}
		c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "status", resp.StatusCode, "error", statusErr)
		return nil, crerr.WithStack(statusErr)
	}

	return raw, nil
}

func (c *Client) decode(raw []byte) (match.MatchesByLeague, error) {
	var payload matchesResponse
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, crerr.Wrapf(usecase.ErrAPI, "decode matches payload: %s", c.sanitize(err.Error()))
	}
	if len(payload.Matches) == 0 {
		return nil, nil
	}

	items := make([]match.Match, 0, len(payload.Matches))
	for i, item := range payload.Matches {
		mapped, err := c.toDomain(item)
		if err != nil {
			return nil, crerr.Wrapf(err, "matches[%d]", i)
		}
		items = append(items, mapped)
	}

	return match.GroupByCompetition(items), nil
}

func (c *Client) toDomain(item matchItem) (match.Match, error) {
	if err := c.validate.Struct(item); err != nil {
		return match.Match{}, crerr.Wrapf(usecase.ErrParse, "%s", describeValidation(err))
	}

	kickoff, ok := parseKickoff(item.UTCDate)
	if !ok {
		return match.Match{}, crerr.Wrapf(usecase.ErrParse, "invalid utcDate %q", item.UTCDate)
	}

	out := match.Match{
		HomeTeam:    strings.TrimSpace(item.HomeTeam.Name),
		AwayTeam:    strings.TrimSpace(item.AwayTeam.Name),
		KickoffUTC:  kickoff,
		Competition: strings.TrimSpace(item.Competition.Name),
	}
	if item.Score != nil {
		if home, away, ok := item.Score.FullTime.resolve(); ok {
			out.Score = &match.Score{Home: home, Away: away}
		}
	}

	return out, nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		missing = append(missing, strings.TrimPrefix(fieldErr.Namespace(), "matchItem."))
	}
	return "missing " + strings.Join(missing, ", ")
}

func parseKickoff(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func isCircuitFailure(err error) bool {
	if errors.Is(err, usecase.ErrNetwork) {
		return true
	}
	var statusErr *statusError
	if errors.As(err, &statusErr) {
		return statusErr.code == http.StatusTooManyRequests || statusErr.code >= http.StatusInternalServerError
	}
	return false
}

func (c *Client) sanitize(value string) string {
	return sanitizeSensitiveText(value, c.token)
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

// abbreviate runs after sanitize so a cut never splits a credential.
func abbreviate(text string) string {
	if len(text) <= 2048 {
		return text
	}
	return text[:2048] + "..."
}
