package service

import (
	"context"
	"time"

	"skillhub-translate-worker/internal/entity"
)

// ClaimStore is the slice of the job store the lease manager needs.
type ClaimStore interface {
	FindClaimable(ctx context.Context, now time.Time, leaseTimeout time.Duration, maxAttempts, limit int) ([]*entity.TranslationJob, error)
	TryClaim(ctx context.Context, id, workerID string, now time.Time, leaseTimeout time.Duration, maxAttempts int) (bool, error)
}

// LeaseService turns "N free job slots" into "N claimed jobs" safely under
// concurrent workers. Mutual exclusion lives entirely in the store's
// conditional updates; this layer only over-fetches and retries candidates.
type LeaseService struct {
	store        ClaimStore
	workerID     string
	leaseTimeout time.Duration
	maxAttempts  int
}

func NewLeaseService(store ClaimStore, workerID string, leaseTimeout time.Duration, maxAttempts int) *LeaseService {
	if leaseTimeout <= 0 {
		leaseTimeout = 15 * time.Minute
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &LeaseService{
		store:        store,
		workerID:     workerID,
		leaseTimeout: leaseTimeout,
		maxAttempts:  maxAttempts,
	}
}

func (s *LeaseService) WorkerID() string { return s.workerID }

// Claim fetches up to 2×limit candidates and CAS-claims them one by one
// until limit jobs are held. Losing a race on a candidate just skips it:
// the over-fetch absorbs competitors, no retry inside this call. Returns
// fewer than limit (possibly zero) when the pool runs dry; never blocks.
func (s *LeaseService) Claim(ctx context.Context, limit int) ([]*entity.TranslationJob, error) {
	if limit <= 0 {
		return nil, nil
	}

	now := time.Now().UTC()

	candidates, err := s.store.FindClaimable(ctx, now, s.leaseTimeout, s.maxAttempts, 2*limit)
	if err != nil {
		return nil, err
	}

	claimed := make([]*entity.TranslationJob, 0, limit)
	for _, job := range candidates {
		ok, err := s.store.TryClaim(ctx, job.ID, s.workerID, now, s.leaseTimeout, s.maxAttempts)
		if err != nil {
			return claimed, err
		}
		if !ok {
			continue
		}

		// Mirror the store-side transition on the local copy.
		if job.Status == entity.StatusProcessing {
			job.Attempts++ // rescued lease counts as one failed attempt
		}
		job.Status = entity.StatusProcessing
		lockedAt := now
		workerID := s.workerID
		job.LockedAt = &lockedAt
		job.LockedBy = &workerID

		claimed = append(claimed, job)
		if len(claimed) == limit {
			break
		}
	}

	return claimed, nil
}
