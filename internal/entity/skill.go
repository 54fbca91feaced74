package entity

import (
	"encoding/json"
	"time"
)

// Skill is the parent unit translation jobs attach to. Per-language values
// live in lang-keyed maps: NameI18n["zh"] is what the old schema called
// name_zh. Modules holds heterogeneous structured sections (faq, use_cases,
// prompt_templates, ...) keyed by module kind, then by language.
type Skill struct {
	ID              string                                `json:"id"`
	Name            string                                `json:"name"`
	Description     string                                `json:"description"`
	NameI18n        map[string]string                     `json:"name_i18n,omitempty"`
	DescriptionI18n map[string]string                     `json:"description_i18n,omitempty"`
	ContentI18n     map[string]string                     `json:"content_i18n,omitempty"`
	Modules         map[string]map[string]json.RawMessage `json:"modules,omitempty"`
	ContentPath     string                                `json:"content_path,omitempty"`
	CreatedAt       time.Time                             `json:"created_at"`
	UpdatedAt       time.Time                             `json:"updated_at"`
}
