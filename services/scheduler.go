// services/scheduler.go
package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// StartReindexScheduler rebuilds the search index now and then every interval.
// The caller shuts the returned scheduler down.
func (s *SearchService) StartReindexScheduler(interval time.Duration) (gocron.Scheduler, error) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			counts, err := s.Reindex(ctx)
			if err != nil {
				s.log.WithError(err).Error("[Scheduler] Search reindex failed")
				return
			}
			s.log.WithFields(logrus.Fields{
				"teams":   counts["team"],
				"players": counts["player"],
			}).Info("[Scheduler] Search index rebuilt")
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}
