// Package watch polls league standings and announces changes.
package watch

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/league-client/internal/metrics"
	"github.com/Checker-Finance/league-client/pkg/leagueapi"
	"github.com/Checker-Finance/league-client/pkg/model"
)

// StandingsSource is the subset of *leagueapi.Client the watcher needs.
type StandingsSource interface {
	LeagueStandings(ctx context.Context, id int) ([]model.Standing, error)
}

// EventPublisher emits standings change events.
type EventPublisher interface {
	PublishStandingsUpdated(ctx context.Context, ev model.StandingsUpdated) error
}

// StandingsWatcher periodically fetches the table of each watched league and
// publishes an event whenever it differs from the last one published. The
// first observation of a league is always published.
type StandingsWatcher struct {
	logger    *zap.Logger
	source    StandingsSource
	publisher EventPublisher
	leagues   []int
	interval  time.Duration

	last     map[int]string
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewStandingsWatcher(logger *zap.Logger, source StandingsSource, pub EventPublisher, leagues []int, interval time.Duration) *StandingsWatcher {
	return &StandingsWatcher{
		logger:    logger,
		source:    source,
		publisher: pub,
		leagues:   leagues,
		interval:  interval,
		last:      make(map[int]string, len(leagues)),
		stopCh:    make(chan struct{}),
		now:       time.Now,
	}
}

// Start polls immediately and then every interval until ctx is done, Stop is
// called, or the session can no longer be used.
func (w *StandingsWatcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("standings_watcher.started",
		zap.Duration("interval", w.interval),
		zap.Ints("leagues", w.leagues))

	for {
		if err := w.runOnce(ctx); err != nil {
			w.logger.Error("standings_watcher.stopped", zap.Error(err))
			return err
		}
		select {
		case <-ticker.C:
		case <-w.stopCh:
			w.logger.Info("standings_watcher.stopped (manual stop)")
			return nil
		case <-ctx.Done():
			w.logger.Info("standings_watcher.stopped (context canceled)")
			return nil
		}
	}
}

// Stop halts the loop. Safe to call more than once.
func (w *StandingsWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// runOnce polls every league once. Only session loss is returned; any other
// failure is logged and retried on the next tick.
func (w *StandingsWatcher) runOnce(ctx context.Context) error {
	for _, id := range w.leagues {
		if ctx.Err() != nil {
			return nil
		}
		err := w.pollLeague(ctx, id)
		if errors.Is(err, leagueapi.ErrSessionExpired) || errors.Is(err, leagueapi.ErrAuthenticationRequired) {
			return err
		}
	}
	return nil
}

func (w *StandingsWatcher) pollLeague(ctx context.Context, id int) error {
	label := strconv.Itoa(id)

	rows, err := w.source.LeagueStandings(ctx, id)
	if err != nil {
		metrics.IncError("watch", "fetch_failed")
		w.logger.Warn("standings_watcher.fetch_failed", zap.Int("league_id", id), zap.Error(err))
		return err
	}
	observed := w.now().UTC()
	metrics.SetLastPoll(label, observed)

	sum, err := checksum(rows)
	if err != nil {
		metrics.IncError("watch", "checksum_failed")
		return err
	}
	if w.last[id] == sum {
		w.logger.Debug("standings_watcher.unchanged", zap.Int("league_id", id))
		return nil
	}

	ev := model.StandingsUpdated{
		LeagueID:   id,
		Standings:  rows,
		Checksum:   sum,
		ObservedAt: observed,
	}
	if err := w.publisher.PublishStandingsUpdated(ctx, ev); err != nil {
		w.logger.Warn("standings_watcher.publish_failed", zap.Int("league_id", id), zap.Error(err))
		return err
	}
	w.last[id] = sum

	w.logger.Info("standings_watcher.changed",
		zap.Int("league_id", id),
		zap.Int("teams", len(rows)),
		zap.String("checksum", sum))
	return nil
}

func checksum(rows []model.Standing) (string, error) {
	b, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(xxhash.Sum64(b), 16), nil
}
