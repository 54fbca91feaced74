package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillhub-translate-worker/internal/entity"
)

// SkillRepository persists translated values onto the parent skill row.
// Per-language fields are jsonb maps keyed by language, so writing the same
// (lang, value) twice is a plain overwrite — handlers stay idempotent.
type SkillRepository struct {
	pool *pgxpool.Pool
}

func NewSkillRepository(pool *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{pool: pool}
}

func (r *SkillRepository) GetByID(ctx context.Context, id string) (*entity.Skill, error) {
	const q = `
SELECT id, name, description, name_i18n, description_i18n, content_i18n,
       modules, content_path, created_at, updated_at
FROM skills
WHERE id = $1;
`
	var (
		s           entity.Skill
		nameI18n    []byte
		descI18n    []byte
		contentI18n []byte
		modules     []byte
		contentPath *string
	)

	if err := r.pool.QueryRow(ctx, q, id).Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&nameI18n,
		&descI18n,
		&contentI18n,
		&modules,
		&contentPath,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := decodeSkillJSON(&s, nameI18n, descI18n, contentI18n, modules); err != nil {
		return nil, err
	}
	if contentPath != nil {
		s.ContentPath = *contentPath
	}

	return &s, nil
}

// decodeSkillJSON fills the per-language maps from their jsonb columns.
// A malformed blob is a hard error: dropping it would make every already
// translated field look missing and get the whole skill re-enqueued.
func decodeSkillJSON(s *entity.Skill, nameI18n, descI18n, contentI18n, modules []byte) error {
	if nameI18n != nil {
		if err := json.Unmarshal(nameI18n, &s.NameI18n); err != nil {
			return fmt.Errorf("decode name_i18n: %w", err)
		}
	}
	if descI18n != nil {
		if err := json.Unmarshal(descI18n, &s.DescriptionI18n); err != nil {
			return fmt.Errorf("decode description_i18n: %w", err)
		}
	}
	if contentI18n != nil {
		if err := json.Unmarshal(contentI18n, &s.ContentI18n); err != nil {
			return fmt.Errorf("decode content_i18n: %w", err)
		}
	}
	if modules != nil {
		if err := json.Unmarshal(modules, &s.Modules); err != nil {
			return fmt.Errorf("decode modules: %w", err)
		}
	}
	return nil
}

func (r *SkillRepository) SetLocalizedName(ctx context.Context, skillID, lang, value string) error {
	return r.setLangString(ctx, "name_i18n", skillID, lang, value)
}

func (r *SkillRepository) SetLocalizedDescription(ctx context.Context, skillID, lang, value string) error {
	return r.setLangString(ctx, "description_i18n", skillID, lang, value)
}

func (r *SkillRepository) SetLocalizedContent(ctx context.Context, skillID, lang, value string) error {
	return r.setLangString(ctx, "content_i18n", skillID, lang, value)
}

// SetModuleTranslation writes translated structured data under
// modules -> moduleKind -> lang.
func (r *SkillRepository) SetModuleTranslation(ctx context.Context, skillID, moduleKind, lang string, data json.RawMessage) error {
	const q = `
UPDATE skills
SET modules = jsonb_set(
        jsonb_set(coalesce(modules, '{}'::jsonb), ARRAY[$2],
                  coalesce(modules -> $2, '{}'::jsonb), true),
        ARRAY[$2, $3], $4::jsonb, true),
    updated_at = now()
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, q, skillID, moduleKind, lang, string(data))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SkillRepository) setLangString(ctx context.Context, column, skillID, lang, value string) error {
	// column is one of the fixed jsonb columns above, never user input.
	q := `
UPDATE skills
SET ` + column + ` = jsonb_set(coalesce(` + column + `, '{}'::jsonb), ARRAY[$2], to_jsonb($3::text), true),
    updated_at = now()
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, q, skillID, lang, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
