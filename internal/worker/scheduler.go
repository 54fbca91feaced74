package worker

import (
	"context"
	"log"
	"time"

	"skillhub-translate-worker/internal/entity"
)

// Claimer is the lease manager port (implementation: service.LeaseService).
type Claimer interface {
	Claim(ctx context.Context, limit int) ([]*entity.TranslationJob, error)
}

// Scheduler is the worker's main loop. Concurrency is bounded by a channel
// semaphore: a slot is taken before a job goroutine starts and released when
// it returns, so the bound holds structurally instead of by a hand-kept
// counter. There is no in-flight drain on shutdown; an abandoned lease
// expires and the job is rescued by the next claimant.
type Scheduler struct {
	lease       Claimer
	processor   *Processor
	concurrency int
	pollDelay   time.Duration
	busyDelay   time.Duration
	sem         chan struct{}
}

func NewScheduler(lease Claimer, processor *Processor, concurrency int) *Scheduler {
	if concurrency <= 0 {
		concurrency = 10
	}
	return &Scheduler{
		lease:       lease,
		processor:   processor,
		concurrency: concurrency,
		pollDelay:   5 * time.Second,
		busyDelay:   500 * time.Millisecond,
		sem:         make(chan struct{}, concurrency),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	log.Printf("scheduler started: concurrency=%d poll_ms=%d", s.concurrency, s.pollDelay.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler stopped")
			return
		default:
		}

		free := s.concurrency - len(s.sem)

		var claimed int
		if free > 0 {
			jobs, err := s.lease.Claim(ctx, free)
			if err != nil {
				log.Printf("[scheduler] claim error=%v", err)
				sleep(ctx, s.pollDelay)
				continue
			}
			claimed = len(jobs)

			for _, job := range jobs {
				s.sem <- struct{}{}
				go func(j *entity.TranslationJob) {
					defer func() { <-s.sem }()
					_ = s.processor.Process(ctx, j)
				}(job)
			}
		}

		if claimed == 0 {
			if len(s.sem) == 0 {
				sleep(ctx, s.pollDelay)
			} else {
				// Work in flight may free slots soon; stay responsive
				// without busy-spinning.
				sleep(ctx, s.busyDelay)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
