package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/club-ladder/internal/config"
	"github.com/mauv0809/club-ladder/internal/playtomic"
	"github.com/mauv0809/club-ladder/internal/processor"
)

// SweepHandler expires overdue challenges. Called by Cloud Scheduler.
func SweepHandler(processor *processor.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := IsDryRunFromContext(r)
		log.Info("Starting timeout sweep", "dryRun", isDryRun)

		expired, err := processor.Sweep(r.Context(), isDryRun)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Expired %d challenges.\n", expired)
	}
}

// RefreshRanksHandler copies club skill levels onto ladder players.
func RefreshRanksHandler(processor *processor.Processor, cfg config.Config, playtomicClient playtomic.PlaytomicClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.TenantID == "" {
			http.Error(w, "Rank refresh is not configured", http.StatusNotImplemented)
			return
		}
		isDryRun := IsDryRunFromContext(r)

		lookback := cfg.Ladder.RankLookback
		if daysStr := r.URL.Query().Get("days"); daysStr != "" {
			days, err := strconv.Atoi(daysStr)
			if err == nil && days > 0 {
				lookback = time.Duration(days) * 24 * time.Hour
			} else {
				log.Warn("Invalid 'days' parameter provided. Using default.", "days_param", daysStr)
			}
		}

		since := time.Now().Add(-lookback)
		log.Info("Fetching club levels", "since", since, "tenant", cfg.TenantID)
		levels, err := playtomic.ClubLevels(playtomicClient, cfg.TenantID, since)
		if err != nil {
			log.Error("Error fetching Playtomic levels", "error", err)
			http.Error(w, "Failed to fetch club levels", http.StatusBadGateway)
			return
		}

		updated, err := processor.RefreshRanks(r.Context(), levels, isDryRun)
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Updated %d ranks.\n", updated)
	}
}
