package workers

import (
	"context"
	"time"

	"league-portal/models"

	"github.com/sirupsen/logrus"
)

// StandingsRecomputer rebuilds the league table from finished matches.
type StandingsRecomputer interface {
	RecomputeStandings(ctx context.Context) ([]models.Standing, error)
}

// PollStandings recomputes the table every interval until ctx is cancelled.
// A failed run is logged and retried on the next tick.
func PollStandings(ctx context.Context, r StandingsRecomputer, interval time.Duration, log logrus.FieldLogger) {
	if interval <= 0 {
		interval = time.Minute
	}
	log.WithField("interval", interval.String()).Info("Starting standings worker")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Standings worker stopped")
			return
		case <-ticker.C:
			started := time.Now()
			rows, err := r.RecomputeStandings(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.WithError(err).Error("Standings recompute failed")
				continue
			}
			log.WithFields(logrus.Fields{
				"teams":   len(rows),
				"elapsed": time.Since(started).String(),
			}).Debug("Standings recomputed")
		}
	}
}
