package leagueapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/pkg/model"
)

// Login exchanges credentials for a token pair, stores both tokens and
// returns them together with the current user's profile.
// POST /auth/login/ then GET /auth/user/
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResult, error) {
	var pair model.TokenPair
	err := c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/auth/login/",
		Body:      model.LoginRequest{Email: email, Password: password},
		Anonymous: true,
	}, &pair)
	if err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, &DecodeError{Status: http.StatusOK, Err: errors.New("login response has no access token")}
	}

	if err := c.startSession(ctx, pair); err != nil {
		return nil, err
	}
	c.logger.Info("leagueapi.login_success")

	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("leagueapi: fetch profile after login: %w", err)
	}
	return &model.LoginResult{Access: pair.Access, Refresh: pair.Refresh, User: *user}, nil
}

// Register creates an account. It does not log in.
// POST /auth/register/
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var user model.User
	err := c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/auth/register/",
		Body:      req,
		Anonymous: true,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the profile of the logged-in user.
// GET /auth/user/
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/auth/user/", "/auth/user/", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RestoreSession validates a hydrated session by fetching the current user.
// Any failure ends the session locally. Without a token it returns
// ErrAuthenticationRequired and makes no call.
func (c *Client) RestoreSession(ctx context.Context) (*model.User, error) {
	if !c.IsAuthenticated() {
		return nil, ErrAuthenticationRequired
	}
	user, err := c.CurrentUser(ctx)
	if err != nil {
		c.logger.Info("leagueapi.restore_failed", zap.Error(err))
		if lerr := c.Logout(ctx); lerr != nil {
			c.logger.Warn("leagueapi.logout_failed", zap.Error(lerr))
		}
		return nil, err
	}
	return user, nil
}
