package service

import (
	"context"
	"log"
	"time"
)

// ActiveCounter reports how many jobs for a skill are still non-terminal.
type ActiveCounter interface {
	CountActive(ctx context.Context, skillID string) (int, error)
}

// IndexRebuilder triggers the downstream search-index rebuild.
type IndexRebuilder interface {
	Rebuild(ctx context.Context) error
}

// ConvergenceMonitor checks after every completion whether the job's skill
// has any non-terminal jobs left. When a skill converges, the index rebuild
// is requested through the debouncer, so a burst of completions ends in a
// single rebuild call. Rebuild failures never touch job state.
type ConvergenceMonitor struct {
	jobs     ActiveCounter
	debounce *Debouncer
}

func NewConvergenceMonitor(jobs ActiveCounter, rebuilder IndexRebuilder, window time.Duration) *ConvergenceMonitor {
	if window <= 0 {
		window = 30 * time.Second
	}
	return &ConvergenceMonitor{
		jobs: jobs,
		debounce: NewDebouncer(window, func() {
			if err := rebuilder.Rebuild(context.Background()); err != nil {
				log.Printf("[convergence] index rebuild error=%v", err)
			}
		}),
	}
}

func (m *ConvergenceMonitor) JobCompleted(ctx context.Context, skillID string) {
	n, err := m.jobs.CountActive(ctx, skillID)
	if err != nil {
		log.Printf("[convergence] skill_id=%s count error=%v", skillID, err)
		return
	}
	if n > 0 {
		return
	}

	log.Printf("[convergence] skill_id=%s converged, rebuild requested", skillID)
	m.debounce.Trigger()
}

// Stop cancels a pending debounced rebuild.
func (m *ConvergenceMonitor) Stop() {
	m.debounce.Stop()
}
