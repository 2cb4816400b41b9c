package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/jrsteele09/go-agri-dashboard/internal/metrics"
	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/token"
)

const headerRequestID = "X-Request-ID"

// attempt records where a single logical request is in the pipeline. It is
// passed by value so concurrent requests never share retry state.
type attempt struct {
	number      int    // 1 for the first send, 2 for the one permitted retry
	accessToken string // when set, used instead of the stored access token
}

func (a attempt) retried() bool {
	return a.number > 1
}

// Send performs req. A 401 from any endpoint other than login is answered by
// one refresh of the access token followed by exactly one resend; the resend's
// outcome is final. Every other failure is returned unchanged without retry.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	var body []byte
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("[Client Send] encode body: %w", err)
		}
		body = encoded
	}
	return c.send(ctx, req, body, attempt{number: 1})
}

func (c *Client) send(ctx context.Context, req Request, body []byte, at attempt) (*Response, error) {
	resp, sent, err := c.roundTrip(ctx, req, body, at)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && !at.retried() && !IsLoginPath(req.Path) {
		next, err := c.renewAccess(ctx, req, at, sent)
		if err != nil {
			return nil, err
		}
		return c.send(ctx, req, body, next)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			RequestID:  resp.RequestID,
		}
	}
	return resp, nil
}

// renewAccess exchanges the stored refresh token for a new access token and
// returns the attempt that resends the request with it. Any failure clears
// the session. If another request replaced the access token while this one
// was in flight, the replacement is used without a second refresh.
func (c *Client) renewAccess(ctx context.Context, req Request, at attempt, sent string) (attempt, error) {
	next := attempt{number: at.number + 1}

	current, _, err := c.store.Get(ctx, sessions.KeyAccessToken)
	if err != nil {
		return next, fmt.Errorf("[Client Send] read access token: %w", err)
	}
	if current != "" && sent != "" && current != sent {
		next.accessToken = current
		return next, nil
	}

	refresh, _, err := c.store.Get(ctx, sessions.KeyRefreshToken)
	if err != nil {
		return next, fmt.Errorf("[Client Send] read refresh token: %w", err)
	}
	if refresh == "" {
		metrics.TokenRefreshes.WithLabelValues(metrics.RefreshMissing).Inc()
		err := fmt.Errorf("[Client Send] %s %s: %w: %w", req.Method, req.Path, apperrors.ErrNotAuthenticated, apperrors.ErrNoRefreshToken)
		c.expireSession(ctx, err)
		return next, err
	}

	pair, err := c.refreshTokens(ctx, refresh, true)
	if err != nil {
		if callerGaveUp(ctx, err) {
			return next, fmt.Errorf("[Client Send] %s %s: %w", req.Method, req.Path, err)
		}
		metrics.TokenRefreshes.WithLabelValues(metrics.RefreshFailed).Inc()
		err = fmt.Errorf("[Client Send] %s %s: %w: %w", req.Method, req.Path, apperrors.ErrRefreshFailed, err)
		c.expireSession(ctx, err)
		return next, err
	}
	metrics.TokenRefreshes.WithLabelValues(metrics.RefreshSucceeded).Inc()

	next.accessToken = pair.Access
	return next, nil
}

// callerGaveUp reports whether err is the caller's own cancellation or
// deadline rather than a verdict on the refresh token
func callerGaveUp(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

// expireSession clears both tokens and notifies the session-expired handler
func (c *Client) expireSession(ctx context.Context, reason error) {
	if err := sessions.ClearTokens(ctx, c.store); err != nil {
		c.logger.Error().Err(err).Msg("Failed to clear session tokens")
	}
	c.logger.Warn().Err(reason).Msg("Session expired")
	if c.sessionExpired != nil {
		c.sessionExpired(reason)
	}
}

// roundTrip sends one attempt and returns the access token it carried
func (c *Client) roundTrip(ctx context.Context, req Request, body []byte, at attempt) (*Response, string, error) {
	httpReq, err := c.newHTTPRequest(ctx, req.Method, c.endpoint(req.Path, req.Query), body)
	if err != nil {
		return nil, "", err
	}

	access := at.accessToken
	if access == "" {
		access, _, err = c.store.Get(ctx, sessions.KeyAccessToken)
		if err != nil {
			return nil, "", fmt.Errorf("[Client Send] read access token: %w", err)
		}
	}
	if access != "" {
		token.OAuth2(access).SetAuthHeader(httpReq)
	}

	resp, err := c.execute(httpReq, req.Path, at.number)
	return resp, access, err
}

func (c *Client) newHTTPRequest(ctx context.Context, method, target string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("[Client Send] build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(headerRequestID, uuid.NewString())
	return httpReq, nil
}

// execute waits for the rate limiter, performs the HTTP exchange and reads the body
func (c *Client) execute(httpReq *http.Request, path string, attemptNumber int) (*Response, error) {
	ctx := httpReq.Context()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("[Client Send] rate limit: %w", err)
		}
	}

	requestID := httpReq.Header.Get(headerRequestID)
	logger := c.logger.With().
		Str("method", httpReq.Method).
		Str("path", path).
		Str("request_id", requestID).
		Int("attempt", attemptNumber).
		Logger()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.ClientRequests.WithLabelValues(httpReq.Method, "error").Inc()
		logger.Debug().Err(err).Msg("Request failed")
		return nil, fmt.Errorf("[Client Send] %s %s: %w", httpReq.Method, path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		metrics.ClientRequests.WithLabelValues(httpReq.Method, "error").Inc()
		return nil, fmt.Errorf("[Client Send] read %s %s: %w", httpReq.Method, path, err)
	}

	metrics.ClientRequests.WithLabelValues(httpReq.Method, strconv.Itoa(httpResp.StatusCode)).Inc()
	logger.Debug().Int("status", httpResp.StatusCode).Msg("Request completed")

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
		RequestID:  requestID,
	}, nil
}
