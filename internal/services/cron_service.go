package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/prathameshmane019/suhani-travels-sub000/internal/models"
)

// CronService pre-materializes upcoming trips on a schedule so the first
// search of the day does not pay the materialization cost. Search still
// materializes on demand; this job only warms the near horizon.
type CronService struct {
	cron        *cron.Cron
	tripService *TripService
	horizonDays int
	logger      *logrus.Logger
}

// NewCronService creates a new CronService. horizonDays is how many days
// ahead of today get pre-materialized.
func NewCronService(tripService *TripService, horizonDays int, logger *logrus.Logger) *CronService {
	if horizonDays < 1 {
		horizonDays = 7
	}
	return &CronService{
		cron:        cron.New(),
		tripService: tripService,
		horizonDays: horizonDays,
		logger:      logger,
	}
}

// Start schedules the background jobs
func (s *CronService) Start() error {
	// Daily at 2:00 AM
	_, err := s.cron.AddFunc("0 2 * * *", s.materializeUpcomingJob)
	if err != nil {
		return fmt.Errorf("failed to schedule materialization job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("horizon_days", s.horizonDays).Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// materializeUpcomingJob materializes trips for every active route across
// the configured horizon.
func (s *CronService) materializeUpcomingJob() {
	startTime := time.Now()

	routes, err := s.tripService.routes.ListActive()
	if err != nil {
		s.logger.WithError(err).Error("Pre-materialization failed to list routes")
		return
	}

	routeIDs := make([]string, len(routes))
	for i := range routes {
		routeIDs[i] = routes[i].ID
	}

	created := 0
	today := models.DateOnly(time.Now())
	for offset := 0; offset < s.horizonDays; offset++ {
		n, err := s.tripService.MaterializeTrips(routeIDs, today.AddDate(0, 0, offset))
		if err != nil {
			s.logger.WithError(err).WithField("offset_days", offset).Error("Pre-materialization failed")
			return
		}
		created += n
	}

	s.logger.WithFields(logrus.Fields{
		"created":     created,
		"duration_ms": time.Since(startTime).Milliseconds(),
	}).Info("Pre-materialization completed")
}

// RunNow runs the materialization job immediately
func (s *CronService) RunNow() {
	s.materializeUpcomingJob()
}

// JobStatus returns the status of scheduled jobs
func (s *CronService) JobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
