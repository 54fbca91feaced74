package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillhub-translate-worker/internal/entity"
)

var ErrNotFound = errors.New("not found")

// JobRepository is the durable job store. All state transitions are
// conditional updates keyed on id + expected prior status, so two workers
// racing on the same row cause exactly one to succeed.
type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

const jobColumns = `
id, skill_id, payload_kind, source_lang, target_lang, payload,
status, attempts, locked_at, locked_by, last_error, created_at, updated_at`

// Enqueue inserts a queued job. The id is deterministic per
// (skill, kind, lang), so a duplicate enqueue is a no-op; returns whether a
// row was actually inserted.
func (r *JobRepository) Enqueue(ctx context.Context, job *entity.TranslationJob) (bool, error) {
	if len(job.Payload) == 0 {
		job.Payload = json.RawMessage(`{}`)
	}

	const q = `
INSERT INTO translation_jobs (id, skill_id, payload_kind, source_lang, target_lang, payload, status, attempts)
VALUES ($1, $2, $3, $4, $5, $6, 'queued', 0)
ON CONFLICT (id) DO NOTHING;
`
	tag, err := r.pool.Exec(ctx, q,
		job.ID, job.SkillID, job.PayloadKind, job.SourceLang, job.TargetLang, job.Payload)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.TranslationJob, error) {
	const q = `SELECT ` + jobColumns + ` FROM translation_jobs WHERE id = $1;`

	job, err := scanJob(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// FindClaimable returns up to limit claim candidates in creation order:
// queued/retry jobs plus processing jobs whose lease expired before
// now-leaseTimeout. Jobs at or past maxAttempts are excluded; the janitor
// demotes those to failed.
func (r *JobRepository) FindClaimable(ctx context.Context, now time.Time, leaseTimeout time.Duration, maxAttempts, limit int) ([]*entity.TranslationJob, error) {
	const q = `
SELECT ` + jobColumns + `
FROM translation_jobs
WHERE attempts < $1
  AND (status IN ('queued', 'retry') OR (status = 'processing' AND locked_at < $2))
ORDER BY created_at ASC
LIMIT $3;
`
	rows, err := r.pool.Query(ctx, q, maxAttempts, now.Add(-leaseTimeout), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*entity.TranslationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// TryClaim moves one candidate into processing under workerID's lease.
// The WHERE clause repeats the FindClaimable predicate, so a candidate that
// lost the race (someone else claimed it in between) just misses: 0 rows.
// attempts is bumped only when rescuing an expired processing row — a dead
// worker counts as one failed attempt.
func (r *JobRepository) TryClaim(ctx context.Context, id, workerID string, now time.Time, leaseTimeout time.Duration, maxAttempts int) (bool, error) {
	const q = `
UPDATE translation_jobs
SET status = 'processing',
    locked_at = $3,
    locked_by = $4,
    attempts = attempts + CASE WHEN status = 'processing' THEN 1 ELSE 0 END,
    updated_at = $3
WHERE id = $1
  AND attempts < $2
  AND (status IN ('queued', 'retry') OR (status = 'processing' AND locked_at < $5));
`
	tag, err := r.pool.Exec(ctx, q, id, maxAttempts, now, workerID, now.Add(-leaseTimeout))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// MarkCompleted is terminal: the lease is released and the row is never
// reclaimed. Conditional on the caller still holding the lease.
func (r *JobRepository) MarkCompleted(ctx context.Context, id, workerID string) error {
	const q = `
UPDATE translation_jobs
SET status = 'completed', locked_at = NULL, locked_by = NULL, updated_at = now()
WHERE id = $1 AND status = 'processing' AND locked_by = $2;
`
	tag, err := r.pool.Exec(ctx, q, id, workerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkRetry records a failed execution: back to the claim pool with
// attempts+1 and the error kept for diagnostics.
func (r *JobRepository) MarkRetry(ctx context.Context, id, workerID, errText string) error {
	const q = `
UPDATE translation_jobs
SET status = 'retry',
    attempts = attempts + 1,
    last_error = $3,
    locked_at = NULL,
    locked_by = NULL,
    updated_at = now()
WHERE id = $1 AND status = 'processing' AND locked_by = $2;
`
	tag, err := r.pool.Exec(ctx, q, id, workerID, errText)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DemoteExhausted turns jobs that burned through maxAttempts into terminal
// failed rows: retry jobs, and processing jobs whose lease expired before
// now-leaseTimeout. The second arm covers a job rescued at the ceiling whose
// new holder also died — the claim predicate excludes it, so nothing else
// would ever touch the row. Run periodically by the worker's janitor.
func (r *JobRepository) DemoteExhausted(ctx context.Context, now time.Time, leaseTimeout time.Duration, maxAttempts int) (int64, error) {
	const q = `
UPDATE translation_jobs
SET status = 'failed',
    last_error = concat('max attempts exceeded: ', coalesce(last_error, '')),
    locked_at = NULL,
    locked_by = NULL,
    updated_at = now()
WHERE attempts >= $1
  AND (status = 'retry' OR (status = 'processing' AND locked_at < $2));
`
	tag, err := r.pool.Exec(ctx, q, maxAttempts, now.Add(-leaseTimeout))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountActive returns how many jobs for the skill are not yet terminal.
// Zero means the skill has converged.
func (r *JobRepository) CountActive(ctx context.Context, skillID string) (int, error) {
	const q = `
SELECT count(*) FROM translation_jobs
WHERE skill_id = $1 AND status IN ('queued', 'retry', 'processing');
`
	var n int
	if err := r.pool.QueryRow(ctx, q, skillID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanJob(row pgx.Row) (*entity.TranslationJob, error) {
	var (
		job        entity.TranslationJob
		statusText string
		payload    []byte
	)

	if err := row.Scan(
		&job.ID,
		&job.SkillID,
		&job.PayloadKind,
		&job.SourceLang,
		&job.TargetLang,
		&payload,
		&statusText,
		&job.Attempts,
		&job.LockedAt,
		&job.LockedBy,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}

	job.Status = entity.JobStatus(statusText)
	job.Payload = json.RawMessage(payload)
	return &job, nil
}
