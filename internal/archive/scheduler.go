package archive

import (
	"fmt"
	"log"
	"strings"
	"time"

	"hotelstock-backend/internal/config"
	"hotelstock-backend/internal/database"

	"github.com/robfig/cron/v3"
)

// CronSpec builds the cron expression for the weekly run from the configured
// day of week and "HH:MM" time.
func CronSpec(day, at string) (string, error) {
	day = strings.ToUpper(strings.TrimSpace(day))
	switch day {
	case "SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT":
	default:
		return "", fmt.Errorf("invalid archive day %q", day)
	}

	t, err := time.Parse("15:04", at)
	if err != nil {
		return "", fmt.Errorf("invalid archive time %q: %w", at, err)
	}

	return fmt.Sprintf("%d %d * * %s", t.Minute(), t.Hour(), day), nil
}

// StartScheduler wires the weekly archive run into a cron scheduler running
// in the configured timezone. The returned cron is already started.
func StartScheduler(cfg *config.Config) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.ArchiveTZ)
	if err != nil {
		return nil, fmt.Errorf("load archive timezone: %w", err)
	}

	spec, err := CronSpec(cfg.ArchiveDay, cfg.ArchiveTime)
	if err != nil {
		return nil, err
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(spec, func() {
		res, err := Run(database.DB, time.Now().In(loc))
		if err != nil {
			// Operator-visible only; nothing user-facing depends on this run.
			log.Printf("[FATAL RUN] weekly archive failed: %v", err)
			return
		}
		log.Printf("Weekly archive complete: %d items snapshotted for week %d/%d, quantities reset",
			res.Processed, res.Week, res.Year)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule weekly archive: %w", err)
	}

	c.Start()
	log.Printf("Weekly archive scheduled: %s %s (%s)", cfg.ArchiveDay, cfg.ArchiveTime, cfg.ArchiveTZ)
	return c, nil
}
