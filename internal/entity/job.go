package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusRetry      JobStatus = "retry"
)

// Payload kinds with dedicated handling. Any other kind is treated as a
// structured module payload and translated recursively.
const (
	KindContent     = "content"
	KindName        = "name"
	KindDescription = "description"
)

type TranslationJob struct {
	ID          string          `json:"id"`
	SkillID     string          `json:"skill_id"`
	PayloadKind string          `json:"payload_kind"`
	SourceLang  string          `json:"source_lang"`
	TargetLang  string          `json:"target_lang"`
	Payload     json.RawMessage `json:"payload"`
	Status      JobStatus       `json:"status"`
	Attempts    int             `json:"attempts"`
	LockedAt    *time.Time      `json:"locked_at,omitempty"`
	LockedBy    *string         `json:"locked_by,omitempty"`
	LastError   *string         `json:"last_error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// JobID builds the deterministic id for one (skill, kind, lang) unit of work,
// so re-enqueueing the same work upserts instead of duplicating the row.
func JobID(skillID, payloadKind, targetLang string) string {
	return fmt.Sprintf("job_%s_%s_%s", skillID, payloadKind, targetLang)
}

// JobPayload is the serialized input stored in TranslationJob.Payload.
// Text carries a single string (content/name/description); Data carries a
// structured bag for module kinds. Path is an optional hint for the sibling
// artifact write on content jobs.
type JobPayload struct {
	Kind       string          `json:"type"`
	TargetLang string          `json:"targetLang"`
	Text       string          `json:"text,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Path       string          `json:"path,omitempty"`
}
