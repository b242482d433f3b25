package housekeeping

import (
	"context"
	"leadtime/config"
	"leadtime/infras/otel"
	resService "leadtime/internal/domains/reservation/service"
	subService "leadtime/internal/domains/submission/service"
	"leadtime/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
)

// Worker runs the periodic maintenance sweeps: completing reservations whose
// day has passed and purging the submission log past retention. Each sweep is
// idempotent, so an overlapping or repeated run is harmless.
type Worker struct {
	reservations resService.Reservation
	submissions  subService.Submission
	cfg          *config.Config
	otel         otel.Otel
}

func NewWorker(reservations resService.Reservation, submissions subService.Submission, cfg *config.Config, otel otel.Otel) *Worker {
	return &Worker{
		reservations: reservations,
		submissions:  submissions,
		cfg:          cfg,
		otel:         otel,
	}
}

// Run sweeps once immediately and then on every tick until the context is
// cancelled.
func (w *Worker) Run(ctx context.Context) {
	interval := time.Duration(w.cfg.Housekeeping.IntervalMinutes) * time.Minute

	log.Info().Dur("interval", interval).Msg("Housekeeping worker started.")

	w.sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Housekeeping worker stopped.")

			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	ctx, scope := w.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".sweep")
	defer scope.End()

	completed, err := w.reservations.CompleteElapsed(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to complete elapsed reservations")
		scope.TraceError(err)
	} else if completed > 0 {
		log.Info().Int64("completed", completed).Msg("Marked elapsed reservations as completed.")
	}

	purged, err := w.submissions.Purge(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to purge submission logs")
		scope.TraceError(err)
	} else if purged > 0 {
		log.Info().Int64("purged", purged).Msg("Purged submission logs past retention.")
	}
}
