package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillhub-translate-worker/internal/entity"
	"skillhub-translate-worker/internal/repository/postgresql"
	"skillhub-translate-worker/internal/service"
	httptransport "skillhub-translate-worker/internal/transport/http"
)

// ---- fakes ----

type jobStoreStub struct {
	jobs   map[string]*entity.TranslationJob
	getErr error
}

func (s *jobStoreStub) Enqueue(ctx context.Context, job *entity.TranslationJob) (bool, error) {
	if _, ok := s.jobs[job.ID]; ok {
		return false, nil
	}
	job.CreatedAt = time.Now().UTC()
	job.UpdatedAt = job.CreatedAt
	s.jobs[job.ID] = job
	return true, nil
}

func (s *jobStoreStub) GetByID(ctx context.Context, id string) (*entity.TranslationJob, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, postgresql.ErrNotFound
	}
	return j, nil
}

type skillStoreStub struct {
	skills map[string]*entity.Skill
	getErr error
}

func (s *skillStoreStub) GetByID(ctx context.Context, id string) (*entity.Skill, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	sk, ok := s.skills[id]
	if !ok {
		return nil, postgresql.ErrNotFound
	}
	return sk, nil
}

type reloaderStub struct {
	calls int
}

func (r *reloaderStub) NotifyReload(ctx context.Context) error {
	r.calls++
	return nil
}

// ---- helpers ----

func newTestRouter(jobs *jobStoreStub, skills *skillStoreStub, reloader *reloaderStub) http.Handler {
	svc := service.NewJobService(jobs, skills)
	h := httptransport.NewHandler(svc, reloader)
	return httptransport.Routes(h)
}

// ---- tests ----

func TestHTTP_EnqueueJob_201(t *testing.T) {
	jobs := &jobStoreStub{jobs: map[string]*entity.TranslationJob{}}
	router := newTestRouter(jobs, &skillStoreStub{}, &reloaderStub{})

	body := `{"skill_id":"skill-1","payload_kind":"name","target_lang":"zh","text":"Template"}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID       string `json:"id"`
		Enqueued bool   `json:"enqueued"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	if resp.ID != "job_skill-1_name_zh" {
		t.Fatalf("expected deterministic id, got %s", resp.ID)
	}
	if !resp.Enqueued {
		t.Fatal("expected enqueued=true on first insert")
	}

	// same request again: dedup, enqueued=false
	req2 := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(body))
	rr2 := httptest.NewRecorder()
	router.ServeHTTP(rr2, req2)

	if rr2.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr2.Code)
	}
	if err := json.Unmarshal(rr2.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if resp.Enqueued {
		t.Fatal("expected enqueued=false on duplicate")
	}
}

func TestHTTP_EnqueueJob_400_MissingTargetLang(t *testing.T) {
	jobs := &jobStoreStub{jobs: map[string]*entity.TranslationJob{}}
	router := newTestRouter(jobs, &skillStoreStub{}, &reloaderStub{})

	body := `{"skill_id":"skill-1","payload_kind":"name","text":"Template"}`
	req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d, body=%s", rr.Code, rr.Body.String())
	}
	if len(jobs.jobs) != 0 {
		t.Fatalf("expected nothing enqueued, got %d jobs", len(jobs.jobs))
	}
}

func TestHTTP_GetJob_200(t *testing.T) {
	now := time.Now().UTC()
	jobs := &jobStoreStub{jobs: map[string]*entity.TranslationJob{
		"job_skill-1_content_zh": {
			ID:          "job_skill-1_content_zh",
			SkillID:     "skill-1",
			PayloadKind: entity.KindContent,
			SourceLang:  "en",
			TargetLang:  "zh",
			Status:      entity.StatusRetry,
			Attempts:    2,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}}
	router := newTestRouter(jobs, &skillStoreStub{}, &reloaderStub{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/job_skill-1_content_zh", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got["status"] != "retry" {
		t.Fatalf("expected status=retry, got %v", got["status"])
	}
	// numbers in map[string]any decode as float64
	if got["attempts"] != float64(2) {
		t.Fatalf("expected attempts=2, got %v", got["attempts"])
	}
}

func TestHTTP_GetJob_404(t *testing.T) {
	router := newTestRouter(&jobStoreStub{jobs: map[string]*entity.TranslationJob{}}, &skillStoreStub{}, &reloaderStub{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestHTTP_GetJob_500_StoreOutage(t *testing.T) {
	jobs := &jobStoreStub{jobs: map[string]*entity.TranslationJob{}, getErr: errors.New("connection refused")}
	router := newTestRouter(jobs, &skillStoreStub{}, &reloaderStub{})

	req := httptest.NewRequest(http.MethodGet, "/jobs/job_skill-1_name_zh", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// an unreachable store is not "not found"
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestHTTP_ScanSkill_404_UnknownSkill(t *testing.T) {
	jobs := &jobStoreStub{jobs: map[string]*entity.TranslationJob{}}
	router := newTestRouter(jobs, &skillStoreStub{skills: map[string]*entity.Skill{}}, &reloaderStub{})

	body := `{"source_lang":"en","target_lang":"zh"}`
	req := httptest.NewRequest(http.MethodPost, "/skills/nope/translations", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestHTTP_ScanSkill_500_StoreOutage(t *testing.T) {
	jobs := &jobStoreStub{jobs: map[string]*entity.TranslationJob{}}
	skills := &skillStoreStub{getErr: errors.New("connection refused")}
	router := newTestRouter(jobs, skills, &reloaderStub{})

	body := `{"source_lang":"en","target_lang":"zh"}`
	req := httptest.NewRequest(http.MethodPost, "/skills/skill-1/translations", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestHTTP_ScanSkill_EnqueuesMissing(t *testing.T) {
	jobs := &jobStoreStub{jobs: map[string]*entity.TranslationJob{}}
	skills := &skillStoreStub{skills: map[string]*entity.Skill{
		"skill-1": {
			ID:          "skill-1",
			Name:        "Demo",
			ContentI18n: map[string]string{"en": "# Demo"},
		},
	}}
	router := newTestRouter(jobs, skills, &reloaderStub{})

	body := `{"source_lang":"en","target_lang":"zh"}`
	req := httptest.NewRequest(http.MethodPost, "/skills/skill-1/translations", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Enqueued []string `json:"enqueued"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Enqueued) != 2 { // content + name
		t.Fatalf("expected 2 enqueued jobs, got %v", resp.Enqueued)
	}
}

func TestHTTP_ReloadEngines_202(t *testing.T) {
	reloader := &reloaderStub{}
	router := newTestRouter(&jobStoreStub{jobs: map[string]*entity.TranslationJob{}}, &skillStoreStub{}, reloader)

	req := httptest.NewRequest(http.MethodPost, "/engines/reload", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
	if reloader.calls != 1 {
		t.Fatalf("expected one reload notification, got %d", reloader.calls)
	}
}
