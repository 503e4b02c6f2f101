package model

// Resource DTOs returned by the league backend. The client decodes them as-is;
// validation is the backend's job.

type User struct {
	ID        int          `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Profile   *UserProfile `json:"profile,omitempty"`
}

type UserProfile struct {
	Avatar      string   `json:"avatar,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	DateOfBirth string   `json:"date_of_birth,omitempty"`
	Roles       []string `json:"roles"`
}

type Team struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Sport        string       `json:"sport"`
	Logo         string       `json:"logo,omitempty"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
	MembersCount int          `json:"members_count"`
	Coach        *User        `json:"coach,omitempty"`
	Members      []TeamMember `json:"members,omitempty"`
}

type TeamMember struct {
	ID           int    `json:"id"`
	User         User   `json:"user"`
	Role         string `json:"role"`
	JerseyNumber *int   `json:"jersey_number,omitempty"`
	Position     string `json:"position,omitempty"`
	JoinedDate   string `json:"joined_date"`
}

type League struct {
	ID                  int        `json:"id"`
	Name                string     `json:"name"`
	Sport               string     `json:"sport"`
	Season              string     `json:"season"`
	StartDate           string     `json:"start_date"`
	EndDate             string     `json:"end_date"`
	Status              string     `json:"status"`
	TeamsCount          int        `json:"teams_count"`
	GamesCount          int        `json:"games_count"`
	CompletedGamesCount int        `json:"completed_games_count"`
	Organizer           User       `json:"organizer"`
	Teams               []Team     `json:"teams,omitempty"`
	Standings           []Standing `json:"standings,omitempty"`
}

// Standing is one row of a league table.
type Standing struct {
	TeamID            int    `json:"team_id"`
	TeamName          string `json:"team_name"`
	Wins              int    `json:"wins"`
	Losses            int    `json:"losses"`
	Draws             int    `json:"draws"`
	PointsFor         int    `json:"points_for"`
	PointsAgainst     int    `json:"points_against"`
	GamesPlayed       int    `json:"games_played"`
	Points            int    `json:"points"`
	PointDifferential int    `json:"point_differential"`
}

type Venue struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Capacity *int   `json:"capacity,omitempty"`
}

type Game struct {
	ID        int    `json:"id"`
	League    League `json:"league"`
	HomeTeam  Team   `json:"home_team"`
	AwayTeam  Team   `json:"away_team"`
	Venue     *Venue `json:"venue,omitempty"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Status    string `json:"status"`
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type Post struct {
	ID            int    `json:"id"`
	Author        User   `json:"author"`
	Content       string `json:"content"`
	Team          *Team  `json:"team,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	SharesCount   int    `json:"shares_count"`
}

type Comment struct {
	ID         int    `json:"id"`
	Author     User   `json:"author"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
	LikesCount int    `json:"likes_count"`
	Parent     *int   `json:"parent,omitempty"`
}

// Detail is the `{"detail": "..."}` acknowledgement body used by action endpoints.
type Detail struct {
	Detail string `json:"detail"`
}
