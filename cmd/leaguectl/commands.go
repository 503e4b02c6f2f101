package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	internalsecrets "github.com/Checker-Finance/league-client/internal/secrets"
	"github.com/Checker-Finance/league-client/pkg/model"
	"github.com/Checker-Finance/league-client/pkg/secrets"
	"github.com/Checker-Finance/league-client/pkg/utils"
)

func (rt *runtime) newLoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", EnvVars: []string{"LEAGUE_EMAIL"}},
			&cli.StringFlag{Name: "password", EnvVars: []string{"LEAGUE_PASSWORD"}},
			&cli.BoolFlag{Name: "from-secrets", Usage: "read credentials from AWS Secrets Manager ({env}/{profile}/league)"},
		},
		Action: func(c *cli.Context) error {
			creds := secrets.Credentials{Email: c.String("email"), Password: c.String("password")}
			if c.Bool("from-secrets") || rt.cfg.CredentialsSource == "aws" {
				resolver, err := rt.credentialsResolver(c)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				if creds, err = resolver.Resolve(c.Context, rt.cfg.Profile); err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}
			if creds.Email == "" || creds.Password == "" {
				return cli.Exit("email and password are required", 1)
			}

			res, err := rt.client.Login(c.Context, creds.Email, creds.Password)
			if err != nil {
				return exitErr(err)
			}
			fmt.Fprintf(c.App.Writer, "Logged in as %s (%s), token %s\n",
				res.User.Username, res.User.Email, utils.MaskToken(res.Access))
			return nil
		},
	}
}

func (rt *runtime) credentialsResolver(c *cli.Context) (*internalsecrets.CredentialsResolver, error) {
	provider, err := secrets.NewAWSProvider(c.Context, rt.cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return internalsecrets.NewCredentialsResolver(
		rt.log.Named("secrets"),
		rt.cfg.Env,
		provider,
		secrets.NewCache[secrets.Credentials](rt.cfg.CacheTTL),
	), nil
}

func (rt *runtime) newLogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the stored session",
		Action: func(c *cli.Context) error {
			if err := rt.client.Logout(c.Context); err != nil {
				return exitErr(err)
			}
			fmt.Fprintln(c.App.Writer, "Logged out.")
			return nil
		},
	}
}

func (rt *runtime) newWhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "validate the stored session and show its user",
		Action: func(c *cli.Context) error {
			user, err := rt.client.RestoreSession(c.Context)
			if err != nil {
				return exitErr(err)
			}
			return printJSON(c.App.Writer, user)
		},
	}
}

func (rt *runtime) newRegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"LEAGUE_PASSWORD"}},
			&cli.StringFlag{Name: "first-name"},
			&cli.StringFlag{Name: "last-name"},
		},
		Action: func(c *cli.Context) error {
			user, err := rt.client.Register(c.Context, model.RegisterRequest{
				Username:  c.String("username"),
				Email:     c.String("email"),
				Password:  c.String("password"),
				Password2: c.String("password"),
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
			})
			if err != nil {
				return exitErr(err)
			}
			return printJSON(c.App.Writer, user)
		},
	}
}

func (rt *runtime) newProfilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "list profiles with credentials in AWS Secrets Manager",
		Action: func(c *cli.Context) error {
			resolver, err := rt.credentialsResolver(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			profiles, err := resolver.DiscoverProfiles(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return printJSON(c.App.Writer, profiles)
		},
	}
}

func (rt *runtime) newTeamsCommand() *cli.Command {
	return &cli.Command{
		Name:  "teams",
		Usage: "manage teams",
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Action: func(c *cli.Context) error {
					teams, err := rt.client.ListTeams(c.Context)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, teams)
				},
			},
			{
				Name:      "get",
				ArgsUsage: "<team-id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					team, err := rt.client.GetTeam(c.Context, id)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, team)
				},
			},
			{
				Name: "create",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "sport", Required: true},
				},
				Action: func(c *cli.Context) error {
					team, err := rt.client.CreateTeam(c.Context, model.CreateTeamRequest{
						Name:  c.String("name"),
						Sport: c.String("sport"),
					})
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, team)
				},
			},
			{
				Name:      "delete",
				ArgsUsage: "<team-id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					if err := rt.client.DeleteTeam(c.Context, id); err != nil {
						return exitErr(err)
					}
					fmt.Fprintf(c.App.Writer, "Deleted team %d.\n", id)
					return nil
				},
			},
			{
				Name:      "players",
				ArgsUsage: "<team-id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					members, err := rt.client.ListTeamPlayers(c.Context, id)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, members)
				},
			},
		},
	}
}

func (rt *runtime) newLeaguesCommand() *cli.Command {
	return &cli.Command{
		Name:  "leagues",
		Usage: "browse leagues",
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Action: func(c *cli.Context) error {
					leagues, err := rt.client.ListLeagues(c.Context)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, leagues)
				},
			},
			{
				Name:      "get",
				ArgsUsage: "<league-id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					league, err := rt.client.GetLeague(c.Context, id)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, league)
				},
			},
			{
				Name:      "standings",
				ArgsUsage: "<league-id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					rows, err := rt.client.LeagueStandings(c.Context, id)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, rows)
				},
			},
		},
	}
}

func (rt *runtime) newGamesCommand() *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "browse games and record scores",
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Action: func(c *cli.Context) error {
					games, err := rt.client.ListGames(c.Context)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, games)
				},
			},
			{
				Name:      "score",
				ArgsUsage: "<game-id> <home-score> <away-score>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					var home, away int
					if _, err := fmt.Sscan(c.Args().Get(1)+" "+c.Args().Get(2), &home, &away); err != nil {
						return cli.Exit("scores must be two integers", 1)
					}
					game, err := rt.client.UpdateGameScore(c.Context, id, home, away)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, game)
				},
			},
		},
	}
}

func (rt *runtime) newPostsCommand() *cli.Command {
	return &cli.Command{
		Name:  "posts",
		Usage: "read and write the community feed",
		Subcommands: []*cli.Command{
			{
				Name: "list",
				Action: func(c *cli.Context) error {
					posts, err := rt.client.ListPosts(c.Context)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, posts)
				},
			},
			{
				Name: "create",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content", Required: true},
					&cli.IntFlag{Name: "team", Usage: "scope the post to a team"},
				},
				Action: func(c *cli.Context) error {
					var teamID *int
					if c.IsSet("team") {
						id := c.Int("team")
						teamID = &id
					}
					post, err := rt.client.CreatePost(c.Context, c.String("content"), teamID)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, post)
				},
			},
			{
				Name:      "like",
				ArgsUsage: "<post-id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					d, err := rt.client.LikePost(c.Context, id)
					if err != nil {
						return exitErr(err)
					}
					fmt.Fprintln(c.App.Writer, d.Detail)
					return nil
				},
			},
			{
				Name:      "comments",
				ArgsUsage: "<post-id>",
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					comments, err := rt.client.ListComments(c.Context, id)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, comments)
				},
			},
			{
				Name:      "comment",
				ArgsUsage: "<post-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content", Required: true},
					&cli.IntFlag{Name: "reply-to", Usage: "parent comment id"},
				},
				Action: func(c *cli.Context) error {
					id, err := idArg(c, 0)
					if err != nil {
						return err
					}
					req := model.CreateCommentRequest{Content: c.String("content")}
					if c.IsSet("reply-to") {
						parent := c.Int("reply-to")
						req.Parent = &parent
					}
					comment, err := rt.client.AddComment(c.Context, id, req)
					if err != nil {
						return exitErr(err)
					}
					return printJSON(c.App.Writer, comment)
				},
			},
		},
	}
}
