package processor

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Sweep declines every pending challenge whose response deadline has passed
// and returns how many were expired.
func (p *Processor) Sweep(ctx context.Context, dryRun bool) (int, error) {
	start := time.Now()
	defer func() {
		p.metrics.ObserveSweepDuration(time.Since(start).Seconds())
	}()

	p.mu.Lock()
	defer p.unlock()

	out := p.engine.ExpireChallenges(p.state, p.clock.Now())
	expired := len(out.Events)
	if expired == 0 {
		log.Debug("No challenges to expire")
		return 0, nil
	}
	if dryRun {
		for _, event := range out.Events {
			log.Info("[Dry Run] Would expire challenge", "challengeID", event.ChallengeID, "message", event.Message)
		}
		return expired, nil
	}

	log.Info("Expiring challenges", "count", expired)
	p.metrics.IncChallengesExpired(expired)
	return expired, p.apply(ctx, "expire_challenges", out)
}

// Run sweeps on every tick until ctx is cancelled.
func (p *Processor) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Error("Timeout sweep disabled, interval must be positive", "interval", interval)
		return
	}
	log.Info("Starting timeout sweep", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping timeout sweep")
			return
		case <-ticker.C:
			if _, err := p.Sweep(ctx, false); err != nil {
				log.Error("Timeout sweep failed", "error", err)
			}
		}
	}
}
