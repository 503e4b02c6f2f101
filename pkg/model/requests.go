package model

// LoginRequest is the body of POST /auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenPair is returned by the login endpoint. The refresh endpoint may omit Refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// RefreshRequest is the body of POST /auth/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// LoginResult bundles the issued tokens with the profile fetched right after login.
type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type CreateTeamRequest struct {
	Name  string `json:"name"`
	Sport string `json:"sport"`
}

// TeamUpdate carries a partial team; nil fields are left untouched by the backend.
type TeamUpdate struct {
	Name  *string `json:"name,omitempty"`
	Sport *string `json:"sport,omitempty"`
	Logo  *string `json:"logo,omitempty"`
}

type CreateLeagueRequest struct {
	Name      string `json:"name"`
	Sport     string `json:"sport"`
	Season    string `json:"season"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// LeagueUpdate carries a partial league.
type LeagueUpdate struct {
	Name      *string `json:"name,omitempty"`
	Sport     *string `json:"sport,omitempty"`
	Season    *string `json:"season,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type ScoreUpdate struct {
	HomeScore int `json:"home_score"`
	AwayScore int `json:"away_score"`
}

type CreatePostRequest struct {
	Content string `json:"content"`
	TeamID  *int   `json:"team_id,omitempty"`
}

type CreateCommentRequest struct {
	Content string `json:"content"`
	Parent  *int   `json:"parent,omitempty"`
}
