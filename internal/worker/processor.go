package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"skillhub-translate-worker/internal/entity"
)

// Ports the executor needs. Implementations: postgresql repositories,
// engine.Resolver, artifact.Sink, service.ConvergenceMonitor.
type JobStore interface {
	MarkCompleted(ctx context.Context, id, workerID string) error
	MarkRetry(ctx context.Context, id, workerID, errText string) error
}

type SkillStore interface {
	SetLocalizedName(ctx context.Context, skillID, lang, value string) error
	SetLocalizedDescription(ctx context.Context, skillID, lang, value string) error
	SetLocalizedContent(ctx context.Context, skillID, lang, value string) error
	SetModuleTranslation(ctx context.Context, skillID, moduleKind, lang string, data json.RawMessage) error
}

type Translator interface {
	TranslateText(ctx context.Context, text, sourceLang, targetLang string) string
	TranslateValue(ctx context.Context, raw json.RawMessage, sourceLang, targetLang string) (json.RawMessage, error)
}

type ArtifactSink interface {
	WriteTranslated(pathHint, lang, content string) (string, error)
}

type ConvergenceNotifier interface {
	JobCompleted(ctx context.Context, skillID string)
}

// Processor executes one claimed job: translate the payload, persist the
// result on the skill, move the job to a terminal state. All execution
// errors become job-state transitions; nothing propagates to the scheduler.
type Processor struct {
	jobs        JobStore
	skills      SkillStore
	translator  Translator
	artifacts   ArtifactSink
	convergence ConvergenceNotifier
	workerID    string
}

func NewProcessor(jobs JobStore, skills SkillStore, translator Translator, artifacts ArtifactSink, convergence ConvergenceNotifier, workerID string) *Processor {
	return &Processor{
		jobs:        jobs,
		skills:      skills,
		translator:  translator,
		artifacts:   artifacts,
		convergence: convergence,
		workerID:    workerID,
	}
}

func (p *Processor) Process(ctx context.Context, job *entity.TranslationJob) error {
	start := time.Now()

	if err := p.execute(ctx, job); err != nil {
		msg := normalizeError(err)
		if retryErr := p.jobs.MarkRetry(ctx, job.ID, p.workerID, msg); retryErr != nil {
			log.Printf("[worker] job_id=%s mark_retry error=%v", job.ID, retryErr)
		}
		log.Printf("[worker] job_id=%s kind=%s status=retry duration_ms=%d error=%s",
			job.ID, job.PayloadKind, time.Since(start).Milliseconds(), msg,
		)
		return err
	}

	if err := p.jobs.MarkCompleted(ctx, job.ID, p.workerID); err != nil {
		// Lease was likely lost mid-run; another worker will re-execute.
		log.Printf("[worker] job_id=%s mark_completed error=%v", job.ID, err)
		return err
	}

	log.Printf("[worker] job_id=%s kind=%s status=completed duration_ms=%d",
		job.ID, job.PayloadKind, time.Since(start).Milliseconds(),
	)

	p.convergence.JobCompleted(ctx, job.SkillID)
	return nil
}

func (p *Processor) execute(ctx context.Context, job *entity.TranslationJob) error {
	var payload entity.JobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return errors.New("malformed payload: " + err.Error())
	}

	src := job.SourceLang
	dst := job.TargetLang

	switch job.PayloadKind {
	case entity.KindContent:
		translated := p.translator.TranslateText(ctx, payload.Text, src, dst)
		if err := p.skills.SetLocalizedContent(ctx, job.SkillID, dst, translated); err != nil {
			return err
		}
		if payload.Path != "" {
			// Best effort: the row above is the authoritative copy.
			if out, err := p.artifacts.WriteTranslated(payload.Path, dst, translated); err != nil {
				log.Printf("[worker] job_id=%s artifact_write error=%v", job.ID, err)
			} else {
				log.Printf("[worker] job_id=%s artifact=%s", job.ID, out)
			}
		}
		return nil

	case entity.KindName:
		translated := p.translator.TranslateText(ctx, payload.Text, src, dst)
		return p.skills.SetLocalizedName(ctx, job.SkillID, dst, translated)

	case entity.KindDescription:
		translated := p.translator.TranslateText(ctx, payload.Text, src, dst)
		return p.skills.SetLocalizedDescription(ctx, job.SkillID, dst, translated)

	default:
		data := payload.Data
		if len(data) == 0 {
			return errors.New("module payload has no data")
		}
		translated, err := p.translator.TranslateValue(ctx, data, src, dst)
		if err != nil {
			return err
		}
		return p.skills.SetModuleTranslation(ctx, job.SkillID, job.PayloadKind, dst, translated)
	}
}

// normalizeError guarantees last_error never stores an empty or unprintable
// message.
func normalizeError(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "unknown error"
	}
	return msg
}
