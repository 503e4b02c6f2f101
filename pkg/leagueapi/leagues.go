package leagueapi

import (
	"context"
	"fmt"

	"github.com/Checker-Finance/league-client/pkg/model"
)

// ListLeagues GET /leagues/
func (c *Client) ListLeagues(ctx context.Context) ([]model.League, error) {
	var leagues []model.League
	if err := c.get(ctx, "/leagues/", "/leagues/", &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// GetLeague GET /leagues/{id}/
func (c *Client) GetLeague(ctx context.Context, id int) (*model.League, error) {
	var league model.League
	if err := c.get(ctx, fmt.Sprintf("/leagues/%d/", id), "/leagues/{id}/", &league); err != nil {
		return nil, err
	}
	return &league, nil
}

// CreateLeague POST /leagues/
func (c *Client) CreateLeague(ctx context.Context, req model.CreateLeagueRequest) (*model.League, error) {
	var league model.League
	if err := c.post(ctx, "/leagues/", "/leagues/", req, &league); err != nil {
		return nil, err
	}
	return &league, nil
}

// UpdateLeague PUT /leagues/{id}/
func (c *Client) UpdateLeague(ctx context.Context, id int, upd model.LeagueUpdate) (*model.League, error) {
	var league model.League
	if err := c.put(ctx, fmt.Sprintf("/leagues/%d/", id), "/leagues/{id}/", upd, &league); err != nil {
		return nil, err
	}
	return &league, nil
}

// DeleteLeague DELETE /leagues/{id}/
func (c *Client) DeleteLeague(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/leagues/%d/", id), "/leagues/{id}/")
}

// LeagueStandings GET /leagues/{id}/standings/
func (c *Client) LeagueStandings(ctx context.Context, id int) ([]model.Standing, error) {
	var rows []model.Standing
	if err := c.get(ctx, fmt.Sprintf("/leagues/%d/standings/", id), "/leagues/{id}/standings/", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
