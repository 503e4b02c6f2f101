package leagueapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/internal/metrics"
	"github.com/Checker-Finance/league-client/pkg/model"
	"github.com/Checker-Finance/league-client/pkg/tokenstore"
)

const (
	refreshFlightKey = "refresh"

	// storeTimeout bounds store writes made on behalf of a refresh. They get
	// their own deadline so an expired refresh deadline cannot skip them.
	storeTimeout = 5 * time.Second
)

// refresh returns an access token to retry with after stale was rejected.
// Concurrent callers share one in-flight refresh. Each caller stops waiting
// when its own ctx is done; the shared refresh itself is bounded by
// refreshTimeout so one impatient caller cannot fail the others.
func (c *Client) refresh(ctx context.Context, stale string) (string, error) {
	ch := c.refreshGroup.DoChan(refreshFlightKey, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()
		return c.doRefresh(rctx, stale)
	})

	select {
	case res := <-ch:
		if res.Shared {
			metrics.IncTokenRefresh("coalesced")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", &NetworkError{Op: "await token refresh", Err: ctx.Err()}
	}
}

func (c *Client) doRefresh(ctx context.Context, stale string) (string, error) {
	c.mu.RLock()
	current, gen := c.token, c.gen
	c.mu.RUnlock()

	// Another flight already rotated the token after stale was sent.
	if current != "" && current != stale {
		metrics.IncTokenRefresh("skipped")
		return current, nil
	}

	refreshToken, err := c.store.Get(ctx, tokenstore.RefreshTokenKey)
	if err != nil || refreshToken == "" {
		if err != nil && !errors.Is(err, tokenstore.ErrNotFound) {
			c.logger.Warn("leagueapi.refresh_token_read_failed", zap.Error(err))
		}
		c.dropSession(ctx, gen)
		return "", ErrAuthenticationRequired
	}

	payload, err := json.Marshal(model.RefreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", fmt.Errorf("leagueapi: encode refresh body: %w", err)
	}
	resp, err := c.send(ctx, Request{
		Method:    http.MethodPost,
		Path:      refreshPath,
		Route:     refreshPath,
		Anonymous: true,
	}, payload, "")
	if err != nil {
		return "", c.expireSession(ctx, gen, err)
	}
	if !resp.OK() {
		return "", c.expireSession(ctx, gen, &HTTPError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp),
			Body:    resp.Body,
		})
	}

	var pair model.TokenPair
	if err := json.Unmarshal(resp.Body, &pair); err != nil {
		return "", c.expireSession(ctx, gen, &DecodeError{Status: resp.StatusCode, Body: resp.Body, Err: err})
	}
	if pair.Access == "" {
		return "", c.expireSession(ctx, gen, &DecodeError{Status: resp.StatusCode, Err: errors.New("refresh response has no access token")})
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		c.logger.Info("leagueapi.refresh_discarded", zap.String("reason", "session changed"))
		return "", ErrAuthenticationRequired
	}
	c.token = pair.Access
	c.mu.Unlock()

	c.persist(ctx, tokenstore.AccessTokenKey, pair.Access)
	if pair.Refresh != "" {
		c.persist(ctx, tokenstore.RefreshTokenKey, pair.Refresh)
	}

	metrics.IncTokenRefresh("ok")
	c.logger.Info("leagueapi.refresh_success", zap.Bool("rotated_refresh", pair.Refresh != ""))
	return pair.Access, nil
}

// expireSession tears the session down after a failed refresh and returns
// the error callers see. Clearing happens before the hook and before the
// error reaches any caller. A flight from a session that has since been
// replaced touches nothing and reports ErrAuthenticationRequired.
func (c *Client) expireSession(ctx context.Context, gen uint64, cause error) error {
	c.mu.Lock()
	current := c.gen == gen
	if current {
		c.token = ""
		c.gen++
	}
	c.mu.Unlock()

	metrics.IncTokenRefresh("failed")
	if !current {
		c.logger.Info("leagueapi.refresh_discarded", zap.String("reason", "session changed"), zap.Error(cause))
		return ErrAuthenticationRequired
	}

	c.clearStore(ctx)
	metrics.IncSessionExpired()
	c.logger.Warn("leagueapi.refresh_failed", zap.Error(cause))

	err := fmt.Errorf("%w: %w", ErrSessionExpired, cause)
	if c.onSessionExpired != nil {
		c.onSessionExpired(err)
	}
	return err
}

// dropSession clears a session that cannot be refreshed. A session that was
// replaced in the meantime is left alone.
func (c *Client) dropSession(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	c.token = ""
	c.mu.Unlock()
	c.clearStore(ctx)
}

// clearStore removes both stored tokens.
func (c *Client) clearStore(ctx context.Context) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	if err := c.store.Delete(sctx, tokenstore.AccessTokenKey, tokenstore.RefreshTokenKey); err != nil {
		c.logger.Error("leagueapi.session_clear_failed", zap.Error(err))
	}
}

// persist writes one value to the store. A failed write leaves the in-memory
// session intact; it only costs the next process its hydration.
func (c *Client) persist(ctx context.Context, key, value string) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()
	if err := c.store.Set(sctx, key, value); err != nil {
		c.logger.Error("leagueapi.persist_failed", zap.String("key", key), zap.Error(err))
	}
}

// SetTokens installs a token pair obtained out of band, replacing any
// current session.
func (c *Client) SetTokens(ctx context.Context, pair model.TokenPair) error {
	if pair.Access == "" {
		return errors.New("leagueapi: empty access token")
	}
	return c.startSession(ctx, pair)
}

// startSession installs a freshly issued token pair.
func (c *Client) startSession(ctx context.Context, pair model.TokenPair) error {
	c.mu.Lock()
	c.token = pair.Access
	c.gen++
	c.mu.Unlock()
	c.refreshGroup.Forget(refreshFlightKey)

	if err := c.store.Set(ctx, tokenstore.AccessTokenKey, pair.Access); err != nil {
		return fmt.Errorf("leagueapi: persist access token: %w", err)
	}
	if pair.Refresh == "" {
		if err := c.store.Delete(ctx, tokenstore.RefreshTokenKey); err != nil {
			return fmt.Errorf("leagueapi: clear refresh token: %w", err)
		}
		return nil
	}
	if err := c.store.Set(ctx, tokenstore.RefreshTokenKey, pair.Refresh); err != nil {
		return fmt.Errorf("leagueapi: persist refresh token: %w", err)
	}
	return nil
}

// Logout ends the local session: the in-memory token and both stored tokens
// are removed. No backend call is made. Calling it repeatedly is safe.
func (c *Client) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.gen++
	c.mu.Unlock()
	c.refreshGroup.Forget(refreshFlightKey)

	if err := c.store.Delete(ctx, tokenstore.AccessTokenKey, tokenstore.RefreshTokenKey); err != nil {
		return fmt.Errorf("leagueapi: clear session: %w", err)
	}
	return nil
}
