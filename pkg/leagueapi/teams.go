package leagueapi

import (
	"context"
	"fmt"

	"github.com/Checker-Finance/league-client/pkg/model"
)

// ListTeams GET /teams/
func (c *Client) ListTeams(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := c.get(ctx, "/teams/", "/teams/", &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// GetTeam GET /teams/{id}/
func (c *Client) GetTeam(ctx context.Context, id int) (*model.Team, error) {
	var team model.Team
	if err := c.get(ctx, fmt.Sprintf("/teams/%d/", id), "/teams/{id}/", &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateTeam POST /teams/
func (c *Client) CreateTeam(ctx context.Context, req model.CreateTeamRequest) (*model.Team, error) {
	var team model.Team
	if err := c.post(ctx, "/teams/", "/teams/", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateTeam PUT /teams/{id}/
func (c *Client) UpdateTeam(ctx context.Context, id int, upd model.TeamUpdate) (*model.Team, error) {
	var team model.Team
	if err := c.put(ctx, fmt.Sprintf("/teams/%d/", id), "/teams/{id}/", upd, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam DELETE /teams/{id}/
func (c *Client) DeleteTeam(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/teams/%d/", id), "/teams/{id}/")
}

// ListTeamPlayers GET /teams/{id}/players/
func (c *Client) ListTeamPlayers(ctx context.Context, id int) ([]model.TeamMember, error) {
	var members []model.TeamMember
	if err := c.get(ctx, fmt.Sprintf("/teams/%d/players/", id), "/teams/{id}/players/", &members); err != nil {
		return nil, err
	}
	return members, nil
}
