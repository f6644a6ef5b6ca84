package anubis

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/darts-tournament/internal/domain/player"
	"github.com/riskibarqy/darts-tournament/internal/platform/logging"
	"github.com/riskibarqy/darts-tournament/internal/platform/resilience"
	"github.com/riskibarqy/darts-tournament/internal/usecase"
)

const defaultProfilePath = "/v1/users/"

type ProfileClientConfig struct {
	BaseURL        string
	ProfilePath    string
	AdminKey       string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// ProfileClient implements player.Directory against the Anubis user API.
type ProfileClient struct {
	client     *fasthttp.Client
	profileURL string
	adminKey   string
	timeout    time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

func NewProfileClient(cfg ProfileClientConfig) *ProfileClient {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	path := cfg.ProfilePath
	if strings.TrimSpace(path) == "" {
		path = defaultProfilePath
	}

	return &ProfileClient{
		client: &fasthttp.Client{
			Name:                "darts-tournament",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		profileURL: strings.TrimSuffix(buildURL(cfg.BaseURL, path), "/") + "/",
		adminKey:   strings.TrimSpace(cfg.AdminKey),
		timeout:    timeout,
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

func (c *ProfileClient) GetProfile(ctx context.Context, playerID string) (player.Profile, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Profile{}, fmt.Errorf("%w: player id is required", usecase.ErrInvalidInput)
	}

	var decoded profileResponse
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var callErr error
		decoded, callErr = c.fetch(ctx, playerID)
		return callErr
	}, isCircuitFailure)
	switch {
	case crerr.Is(err, resilience.ErrCircuitOpen):
		c.logger.WarnContext(ctx, "anubis profile circuit breaker rejected request", "state", c.breaker.State())
		return player.Profile{}, fmt.Errorf("%w: identity service is temporarily unavailable", usecase.ErrDependencyUnavailable)
	case isCircuitFailure(err):
		return player.Profile{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	case err != nil:
		return player.Profile{}, err
	}

	skill, err := player.ParseSkillLevel(decoded.SkillLevel)
	if err != nil {
		c.logger.WarnContext(ctx, "anubis profile has unknown skill level", "player_id", playerID, "skill_level", decoded.SkillLevel)
		skill = ""
	}
	id := strings.TrimSpace(decoded.UserID)
	if id == "" {
		id = playerID
	}

	return player.Profile{
		ID:          id,
		DisplayName: strings.TrimSpace(decoded.DisplayName),
		SkillLevel:  skill,
	}, nil
}

func (c *ProfileClient) fetch(ctx context.Context, playerID string) (profileResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.profileURL + url.PathEscape(playerID))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.adminKey != "" {
		req.Header.Set("x-admin-key", c.adminKey)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return profileResponse{}, ctxErr
		}
		return profileResponse{}, crerr.Wrapf(errAnubisTransient, "request profile: %v", err)
	}

	status := resp.StatusCode()
	// resp is released on return and sonic may alias strings into its input.
	body := append([]byte(nil), resp.Body()...)
	switch {
	case status == fasthttp.StatusNotFound:
		return profileResponse{}, fmt.Errorf("%w: id=%s", player.ErrProfileNotFound, playerID)
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		c.logger.ErrorContext(ctx, "anubis rejected admin key for profile lookup", "status_code", status)
		return profileResponse{}, fmt.Errorf("%w: identity service rejected service credentials", usecase.ErrDependencyUnavailable)
	case isTransientStatus(status):
		c.logger.WarnContext(ctx, "anubis profile lookup failed", "status_code", status, "body", abbreviate(body, 256))
		return profileResponse{}, crerr.Wrapf(errAnubisTransient, "profile status=%d", status)
	case status != fasthttp.StatusOK:
		return profileResponse{}, crerr.Newf("anubis profile lookup failed with status %d", status)
	}

	var decoded profileResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return profileResponse{}, crerr.Wrap(err, "unmarshal profile response")
	}
	return decoded, nil
}

type profileResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	SkillLevel  string `json:"skill_level"`
}
