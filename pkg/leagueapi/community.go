package leagueapi

import (
	"context"
	"fmt"

	"github.com/Checker-Finance/league-client/pkg/model"
)

// ListPosts GET /community/posts/
func (c *Client) ListPosts(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := c.get(ctx, "/community/posts/", "/community/posts/", &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// CreatePost publishes to the community feed, optionally scoped to a team.
// POST /community/posts/
func (c *Client) CreatePost(ctx context.Context, content string, teamID *int) (*model.Post, error) {
	var post model.Post
	body := model.CreatePostRequest{Content: content, TeamID: teamID}
	if err := c.post(ctx, "/community/posts/", "/community/posts/", body, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// LikePost toggles the caller's like. The backend answers with a detail
// message ("Post liked." / "Post unliked.").
// POST /community/posts/{id}/like/
func (c *Client) LikePost(ctx context.Context, id int) (*model.Detail, error) {
	return c.postAction(ctx, id, "like")
}

// SharePost POST /community/posts/{id}/share/
func (c *Client) SharePost(ctx context.Context, id int) (*model.Detail, error) {
	return c.postAction(ctx, id, "share")
}

func (c *Client) postAction(ctx context.Context, id int, action string) (*model.Detail, error) {
	var detail model.Detail
	path := fmt.Sprintf("/community/posts/%d/%s/", id, action)
	route := "/community/posts/{id}/" + action + "/"
	if err := c.post(ctx, path, route, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListComments returns top-level comments of a post, newest first.
// GET /community/posts/{id}/comments/
func (c *Client) ListComments(ctx context.Context, postID int) ([]model.Comment, error) {
	var comments []model.Comment
	if err := c.get(ctx, fmt.Sprintf("/community/posts/%d/comments/", postID), "/community/posts/{id}/comments/", &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment POST /community/posts/{id}/comments/
func (c *Client) AddComment(ctx context.Context, postID int, req model.CreateCommentRequest) (*model.Comment, error) {
	var comment model.Comment
	if err := c.post(ctx, fmt.Sprintf("/community/posts/%d/comments/", postID), "/community/posts/{id}/comments/", req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
