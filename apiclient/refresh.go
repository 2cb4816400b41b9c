package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jrsteele09/go-agri-dashboard/sessions"
	"github.com/jrsteele09/go-agri-dashboard/token"
)

const defaultRefreshTimeout = 30 * time.Second

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// refreshTokens exchanges a refresh token for a new pair, storing it when
// persist is set. With coalescing enabled, concurrent callers holding the same
// refresh token share one call. The shared call is detached from every
// caller's cancellation and bounded by the client timeout; a caller that gives
// up early gets its own context error while the others still get the result.
func (c *Client) refreshTokens(ctx context.Context, refresh string, persist bool) (token.Pair, error) {
	call := func(ctx context.Context) (token.Pair, error) {
		pair, err := c.callRefresh(ctx, refresh)
		if err == nil && persist {
			if err := sessions.SaveTokens(ctx, c.store, pair); err != nil {
				// The new token is still good for this request
				c.logger.Warn().Err(err).Msg("Failed to store refreshed tokens")
			}
		}
		return pair, err
	}
	if !c.coalesce {
		return call(ctx)
	}

	key := refresh
	if persist {
		key = "store:" + refresh
	}
	ch := c.refreshGroup.DoChan(key, func() (interface{}, error) {
		detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout())
		defer cancel()
		return call(detached)
	})

	select {
	case <-ctx.Done():
		return token.Pair{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.logger.Debug().Msg("Joined in-flight token refresh")
		}
		if res.Err != nil {
			return token.Pair{}, res.Err
		}
		return res.Val.(token.Pair), nil
	}
}

func (c *Client) refreshTimeout() time.Duration {
	if c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return defaultRefreshTimeout
}

// RefreshTokens performs an explicit refresh call without touching the store
func (c *Client) RefreshTokens(ctx context.Context, refresh string) (token.Pair, error) {
	return c.refreshTokens(ctx, refresh, false)
}

// callRefresh posts to the refresh endpoint directly. It bypasses the
// request pipeline so a 401 here can never start another refresh.
func (c *Client) callRefresh(ctx context.Context, refresh string) (token.Pair, error) {
	body, err := json.Marshal(refreshRequest{Refresh: refresh})
	if err != nil {
		return token.Pair{}, err
	}
	httpReq, err := c.newHTTPRequest(ctx, http.MethodPost, c.endpoint(RouteTokenRefresh, nil), body)
	if err != nil {
		return token.Pair{}, err
	}

	resp, err := c.execute(httpReq, RouteTokenRefresh, 1)
	if err != nil {
		return token.Pair{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return token.Pair{}, &APIError{
			Method:     http.MethodPost,
			Path:       RouteTokenRefresh,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			RequestID:  resp.RequestID,
		}
	}

	var pair token.Pair
	if err := resp.Decode(&pair); err != nil {
		return token.Pair{}, err
	}
	if pair.Access == "" {
		return token.Pair{}, fmt.Errorf("[Client Refresh] response has no access token")
	}
	return pair, nil
}
