package jobs

import (
	"log"
	"time"

	"fluxtrade/internal/models"

	"github.com/go-co-op/gocron"
)

// StatsRefresher recomputes a day's platform snapshot
type StatsRefresher interface {
	RefreshPlatformStats(date time.Time) (*models.PlatformStats, error)
}

// StatsJob keeps today's PlatformStats row current
type StatsJob struct {
	stats     StatsRefresher
	scheduler *gocron.Scheduler
	now       func() time.Time
}

func NewStatsJob(stats StatsRefresher) *StatsJob {
	return &StatsJob{
		stats:     stats,
		scheduler: gocron.NewScheduler(time.UTC),
		now:       time.Now,
	}
}

// Start runs the refresh immediately and then every interval
func (j *StatsJob) Start(interval time.Duration) error {
	if _, err := j.scheduler.Every(interval).StartImmediately().Do(j.Run); err != nil {
		return err
	}
	j.scheduler.StartAsync()
	log.Printf("Platform stats job scheduled every %s", interval)
	return nil
}

// Run refreshes today's snapshot once
func (j *StatsJob) Run() {
	stats, err := j.stats.RefreshPlatformStats(j.now())
	if err != nil {
		log.Printf("Platform stats refresh error: %v", err)
		return
	}
	log.Printf("Platform stats refreshed: %d users, %d listings (%d pending), %d orders",
		stats.TotalUsers, stats.TotalListings, stats.PendingListings, stats.TotalOrders)
}

// Stop halts the scheduler
func (j *StatsJob) Stop() {
	j.scheduler.Stop()
}
