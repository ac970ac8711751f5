package assistant

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Reaper periodically drops idle sessions from a Manager.
type Reaper struct {
	cron    *cron.Cron
	manager *Manager
}

// NewReaper schedules manager.Reap. schedule accepts standard cron
// expressions and descriptors such as "@every 5m".
func NewReaper(manager *Manager, schedule string) (*Reaper, error) {
	r := &Reaper{
		cron:    cron.New(),
		manager: manager,
	}

	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, fmt.Errorf("failed to add reaper job: %w", err)
	}
	return r, nil
}

func (r *Reaper) run() {
	if n := r.manager.Reap(time.Now()); n > 0 {
		log.Info().Int("sessions", n).Msg("🧹 Idle assistant sessions reaped")
	}
}

func (r *Reaper) Start() {
	log.Info().Msg("⏰ Starting session reaper...")
	r.cron.Start()
}

// Stop waits for a running reap to finish.
func (r *Reaper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("✅ Session reaper stopped")
}
