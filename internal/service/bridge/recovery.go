package bridge

import (
	"context"
	"time"

	"github.com/sentra-home/sentra-bridge/internal/logger"
	"github.com/sentra-home/sentra-bridge/internal/metrics"
)

// handleFetchFailure discards stale state and kicks the recovery loop.
// Each failure raises exactly one signal, pending signals fold together.
func (s *Service) handleFetchFailure(ctx context.Context, err error) {
	logger.ErrorKV(ctx, "State fetch failed", "error", err)
	s.cache.Invalidate()
	s.recorder.SetCachePopulated(false)
	s.signalRecovery()
}

// signalRecovery wakes the recovery loop without blocking the caller.
func (s *Service) signalRecovery() {
	select {
	case s.recoveryCh <- struct{}{}:
	default:
	}
}

// recoveryLoop consumes failure signals and re-establishes the session.
func (s *Service) recoveryLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.recoveryCh:
			s.recover(ctx)
		}
	}
}

// recover re-logs-in and reseeds the cache, retrying with exponential
// backoff capped at backoffMax until it succeeds or the service stops.
func (s *Service) recover(ctx context.Context) {
	delay := s.backoffBase

	for attempt := 1; ; attempt++ {
		s.recorder.IncRecovery(metrics.ResultAttempt)

		err := s.connect(ctx)
		if err == nil {
			snapshot, fetchErr := s.FetchState(ctx)
			if fetchErr == nil {
				s.cache.Set(snapshot)
				s.recorder.IncRecovery(metrics.ResultSuccess)
				logger.InfoKV(ctx, "Recovery succeeded", "attempt", attempt)

				// Drop a signal that piled up while we were busy, the
				// session is fresh now.
				select {
				case <-s.recoveryCh:
				default:
				}

				return
			}

			err = fetchErr
		}

		s.recorder.IncRecovery(metrics.ResultFailed)
		logger.WarnKV(ctx, "Recovery attempt failed",
			"attempt", attempt,
			"retry_in", delay.String(),
			"error", err)

		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > s.backoffMax {
			delay = s.backoffMax
		}
	}
}
