package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/pkg/config"
	"github.com/Checker-Finance/league-client/pkg/leagueapi"
	"github.com/Checker-Finance/league-client/pkg/tokenstore"
)

func TestOpenStore(t *testing.T) {
	mr := miniredis.RunT(t)

	cases := []struct {
		kind       string
		wantHealth bool
	}{
		{config.StoreFile, false},
		{config.StoreMemory, false},
		{config.StoreNone, false},
		{config.StoreRedis, true},
	}
	for _, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			cfg := &config.Config{
				TokenStore: tc.kind,
				TokenFile:  filepath.Join(t.TempDir(), "session.json"),
				RedisAddr:  mr.Addr(),
				Profile:    "default",
			}
			st, health, closer, err := openStore(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)
			require.NotNil(t, st)
			assert.Equal(t, tc.wantHealth, health != nil)
			if closer != nil {
				assert.NoError(t, closer())
			}
		})
	}
}

func TestOpenStore_Unknown(t *testing.T) {
	_, _, _, err := openStore(context.Background(), &config.Config{TokenStore: "etcd"}, zap.NewNop())
	assert.ErrorContains(t, err, `unknown token store "etcd"`)
}

func TestExitErr(t *testing.T) {
	assert.NoError(t, exitErr(nil))

	var ec cli.ExitCoder
	require.ErrorAs(t, exitErr(leagueapi.ErrAuthenticationRequired), &ec)
	assert.Equal(t, 2, ec.ExitCode())

	require.ErrorAs(t, exitErr(errors.New("boom")), &ec)
	assert.Equal(t, 1, ec.ExitCode())
}

// runCommand runs args against a runtime whose client talks to h.
func runCommand(t *testing.T, h http.Handler, cmd func(*runtime) *cli.Command, args ...string) (string, error) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	store := tokenstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), tokenstore.AccessTokenKey, "tok"))
	rt := &runtime{
		cfg:    &config.Config{},
		log:    zap.NewNop(),
		store:  store,
		client: leagueapi.New(context.Background(), srv.URL, leagueapi.WithStore(store)),
	}

	var out bytes.Buffer
	app := &cli.App{
		Name:           "leaguectl",
		Writer:         &out,
		Commands:       []*cli.Command{cmd(rt)},
		ExitErrHandler: func(*cli.Context, error) {},
	}
	err := app.Run(append([]string{"leaguectl"}, args...))
	return out.String(), err
}

func TestTeamsGet(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teams/3/", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":3,"name":"Hawks","sport":"basketball"}`))
	})
	out, err := runCommand(t, h, (*runtime).newTeamsCommand, "teams", "get", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Hawks"`)
}

func TestTeamsGet_InvalidID(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := runCommand(t, h, (*runtime).newTeamsCommand, "teams", "get", "abc")
	assert.ErrorContains(t, err, `invalid id "abc"`)
}

func TestGamesScore(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/games/8/update_score/", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":8,"home_score":2,"away_score":1}`))
	})
	out, err := runCommand(t, h, (*runtime).newGamesCommand, "games", "score", "8", "2", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"home_score": 2`)
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
	})
	_, err := runCommand(t, h, (*runtime).newWhoamiCommand, "whoami")

	var ec cli.ExitCoder
	require.ErrorAs(t, err, &ec)
	assert.Equal(t, 2, ec.ExitCode())
}

func TestLogout(t *testing.T) {
	out, err := runCommand(t, http.NotFoundHandler(), (*runtime).newLogoutCommand, "logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out.\n", out)
}
