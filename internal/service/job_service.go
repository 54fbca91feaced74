package service

import (
	"context"
	"encoding/json"
	"errors"

	"skillhub-translate-worker/internal/entity"
)

// Ports onto the repositories (implementations: postgresql.JobRepository,
// postgresql.SkillRepository).
type JobStore interface {
	Enqueue(ctx context.Context, job *entity.TranslationJob) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.TranslationJob, error)
}

type SkillStore interface {
	GetByID(ctx context.Context, id string) (*entity.Skill, error)
}

type JobService struct {
	jobs   JobStore
	skills SkillStore
}

func NewJobService(jobs JobStore, skills SkillStore) *JobService {
	return &JobService{jobs: jobs, skills: skills}
}

type EnqueueRequest struct {
	SkillID     string
	PayloadKind string
	SourceLang  string
	TargetLang  string
	Text        string
	Data        json.RawMessage
	Path        string
}

// NormalizeLang maps the deprecated "cn" locale alias to "zh". Older
// registry entries still carry it.
func NormalizeLang(lang string) string {
	if lang == "cn" {
		return "zh"
	}
	return lang
}

// Enqueue creates one queued job with a deterministic id. The returned bool
// reports whether a row was inserted (false: same unit of work was already
// enqueued).
func (s *JobService) Enqueue(ctx context.Context, req EnqueueRequest) (*entity.TranslationJob, bool, error) {
	if req.SkillID == "" {
		return nil, false, errors.New("skill_id is required")
	}
	if req.PayloadKind == "" {
		return nil, false, errors.New("payload_kind is required")
	}
	if req.TargetLang == "" {
		return nil, false, errors.New("target_lang is required")
	}

	sourceLang := NormalizeLang(req.SourceLang)
	if sourceLang == "" {
		sourceLang = "en"
	}
	targetLang := NormalizeLang(req.TargetLang)

	payload, err := json.Marshal(entity.JobPayload{
		Kind:       req.PayloadKind,
		TargetLang: targetLang,
		Text:       req.Text,
		Data:       req.Data,
		Path:       req.Path,
	})
	if err != nil {
		return nil, false, err
	}

	job := &entity.TranslationJob{
		ID:          entity.JobID(req.SkillID, req.PayloadKind, targetLang),
		SkillID:     req.SkillID,
		PayloadKind: req.PayloadKind,
		SourceLang:  sourceLang,
		TargetLang:  targetLang,
		Payload:     payload,
		Status:      entity.StatusQueued,
	}

	inserted, err := s.jobs.Enqueue(ctx, job)
	if err != nil {
		return nil, false, err
	}
	return job, inserted, nil
}

// EnqueueMissing scans a skill and enqueues one job per field that has a
// source-language value but no target-language translation yet: the content
// body, name, description, and every structured module section. Ids are
// deterministic, so re-scanning a skill is safe.
func (s *JobService) EnqueueMissing(ctx context.Context, skillID, sourceLang, targetLang string) ([]string, error) {
	sourceLang = NormalizeLang(sourceLang)
	if sourceLang == "" {
		sourceLang = "en"
	}
	targetLang = NormalizeLang(targetLang)
	if targetLang == "" {
		return nil, errors.New("target_lang is required")
	}

	skill, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}

	var enqueued []string

	add := func(req EnqueueRequest) error {
		job, inserted, err := s.Enqueue(ctx, req)
		if err != nil {
			return err
		}
		if inserted {
			enqueued = append(enqueued, job.ID)
		}
		return nil
	}

	if src := skill.ContentI18n[sourceLang]; src != "" && skill.ContentI18n[targetLang] == "" {
		if err := add(EnqueueRequest{
			SkillID:     skillID,
			PayloadKind: entity.KindContent,
			SourceLang:  sourceLang,
			TargetLang:  targetLang,
			Text:        src,
			Path:        skill.ContentPath,
		}); err != nil {
			return enqueued, err
		}
	}

	if skill.Name != "" && skill.NameI18n[targetLang] == "" {
		if err := add(EnqueueRequest{
			SkillID:     skillID,
			PayloadKind: entity.KindName,
			SourceLang:  sourceLang,
			TargetLang:  targetLang,
			Text:        skill.Name,
		}); err != nil {
			return enqueued, err
		}
	}

	if skill.Description != "" && skill.DescriptionI18n[targetLang] == "" {
		if err := add(EnqueueRequest{
			SkillID:     skillID,
			PayloadKind: entity.KindDescription,
			SourceLang:  sourceLang,
			TargetLang:  targetLang,
			Text:        skill.Description,
		}); err != nil {
			return enqueued, err
		}
	}

	for kind, byLang := range skill.Modules {
		src, ok := byLang[sourceLang]
		if !ok || len(src) == 0 {
			continue
		}
		if _, done := byLang[targetLang]; done {
			continue
		}
		if err := add(EnqueueRequest{
			SkillID:     skillID,
			PayloadKind: kind,
			SourceLang:  sourceLang,
			TargetLang:  targetLang,
			Data:        src,
		}); err != nil {
			return enqueued, err
		}
	}

	return enqueued, nil
}

func (s *JobService) GetJob(ctx context.Context, id string) (*entity.TranslationJob, error) {
	return s.jobs.GetByID(ctx, id)
}
