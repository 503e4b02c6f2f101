package leagueapi

import (
	"context"
	"fmt"

	"github.com/Checker-Finance/league-client/pkg/model"
)

// ListGames GET /games/
func (c *Client) ListGames(ctx context.Context) ([]model.Game, error) {
	var games []model.Game
	if err := c.get(ctx, "/games/", "/games/", &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GetGame GET /games/{id}/
func (c *Client) GetGame(ctx context.Context, id int) (*model.Game, error) {
	var game model.Game
	if err := c.get(ctx, fmt.Sprintf("/games/%d/", id), "/games/{id}/", &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateGameScore records a final or running score.
// POST /games/{id}/update_score/
func (c *Client) UpdateGameScore(ctx context.Context, id, homeScore, awayScore int) (*model.Game, error) {
	var game model.Game
	body := model.ScoreUpdate{HomeScore: homeScore, AwayScore: awayScore}
	if err := c.post(ctx, fmt.Sprintf("/games/%d/update_score/", id), "/games/{id}/update_score/", body, &game); err != nil {
		return nil, err
	}
	return &game, nil
}
