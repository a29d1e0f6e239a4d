package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/edugen-backend/internal/domain"
	"github.com/yungbote/edugen-backend/internal/domain/lesson"
	"github.com/yungbote/edugen-backend/internal/modules/lesson/pipeline"
	"github.com/yungbote/edugen-backend/internal/pkg/ctxutil"
	apperr "github.com/yungbote/edugen-backend/internal/pkg/errors"
)

type fakeLessons struct {
	res *pipeline.Result
	err error
}

func (f *fakeLessons) Generate(ctx context.Context, topic string) (*pipeline.Result, error) {
	return f.res, f.err
}

type fakeScripts struct {
	owner uuid.UUID
	rows  map[uuid.UUID]*types.Script
}

func (f *fakeScripts) Save(ctx context.Context, ownerID uuid.UUID, scriptID string, doc *lesson.Document) (string, error) {
	return uuid.NewString(), nil
}

func (f *fakeScripts) Load(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) (*types.Script, *lesson.Document, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, nil, apperr.ErrNotFound
	}
	if row.OwnerID != ownerID {
		return nil, nil, apperr.ErrForbidden
	}
	return row, &lesson.Document{Metadata: lesson.Metadata{Topic: row.Topic}}, nil
}

func (f *fakeScripts) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*types.Script, error) {
	var out []*types.Script
	for _, r := range f.rows {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeScripts) Delete(ctx context.Context, ownerID uuid.UUID, id uuid.UUID) error {
	if _, _, err := f.Load(ctx, ownerID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: id})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code    string   `json:"code"`
			Details []string `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, rec.Body.String())
	}
	return env.Error.Code
}

func TestScriptGenerateCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lessons := &fakeLessons{res: &pipeline.Result{
		StoreID:    uuid.NewString(),
		ScriptID:   "10_minus_4_20260314_092653",
		State:      pipeline.StateDone,
		Document:   &lesson.Document{Metadata: lesson.Metadata{Topic: "10 minus 4"}},
		AudioFiles: 5,
		FrameFiles: 5,
	}}
	h := NewScriptHandler(lessons, &fakeScripts{})
	r := gin.New()
	r.POST("/api/scripts", asUser(uuid.New()), h.Generate)

	rec := do(r, http.MethodPost, "/api/scripts", `{"topic":"10 minus 4"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: want=201 got=%d body=%s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["script_id"] != "10_minus_4_20260314_092653" || body["state"] != "done" || body["audio_files"] != 5.0 {
		t.Fatalf("body: got=%v", body)
	}
}

func TestScriptGenerateValidationFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	runErr := &pipeline.RunError{
		State: pipeline.StateValidating,
		Err:   &pipeline.ValidationError{Errors: []string{"$.summary: missing"}},
	}
	h := NewScriptHandler(&fakeLessons{err: runErr}, &fakeScripts{})
	r := gin.New()
	r.POST("/api/scripts", asUser(uuid.New()), h.Generate)

	rec := do(r, http.MethodPost, "/api/scripts", `{"topic":"x"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: want=422 got=%d", rec.Code)
	}
	if code := errorCode(t, rec); code != "validation_failed" {
		t.Fatalf("code: got=%q", code)
	}
}

func TestScriptGetListDeleteOwnership(t *testing.T) {
	gin.SetMode(gin.TestMode)
	owner, other := uuid.New(), uuid.New()
	id := uuid.New()
	scripts := &fakeScripts{rows: map[uuid.UUID]*types.Script{
		id: {ID: id, OwnerID: owner, ScriptKey: "k", Title: "10 minus 4", Topic: "10 minus 4", CreatedAt: time.Now()},
	}}
	h := NewScriptHandler(&fakeLessons{}, scripts)

	r := gin.New()
	own := r.Group("/own", asUser(owner))
	own.GET("/scripts", h.List)
	own.GET("/scripts/:id", h.Get)
	own.DELETE("/scripts/:id", h.Delete)
	intruder := r.Group("/other", asUser(other))
	intruder.GET("/scripts/:id", h.Get)

	if rec := do(r, http.MethodGet, "/other/scripts/"+id.String(), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("foreign get: want=403 got=%d", rec.Code)
	}
	if rec := do(r, http.MethodGet, "/own/scripts/not-a-uuid", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=400 got=%d", rec.Code)
	}
	rec := do(r, http.MethodGet, "/own/scripts", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"title":"10 minus 4"`) {
		t.Fatalf("list: %d %s", rec.Code, rec.Body.String())
	}
	if rec := do(r, http.MethodGet, "/own/scripts/"+id.String(), ""); rec.Code != http.StatusOK {
		t.Fatalf("get: want=200 got=%d", rec.Code)
	}
	if rec := do(r, http.MethodDelete, "/own/scripts/"+id.String(), ""); rec.Code != http.StatusOK {
		t.Fatalf("delete: want=200 got=%d", rec.Code)
	}
	if rec := do(r, http.MethodGet, "/own/scripts/"+id.String(), ""); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: want=404 got=%d", rec.Code)
	}
}

func TestScriptListRequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/scripts", NewScriptHandler(&fakeLessons{}, &fakeScripts{}).List)
	if rec := do(r, http.MethodGet, "/scripts", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", rec.Code)
	}
}

func TestMediaServesArtifacts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "audio"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "audio", "s_intro_narration.mp3"), []byte("ID3"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	r := gin.New()
	r.GET("/api/media/:kind/:filename", NewMediaHandler(root).Get)

	rec := do(r, http.MethodGet, "/api/media/audio/s_intro_narration.mp3", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "audio/mpeg" || rec.Body.String() != "ID3" {
		t.Fatalf("serve: %d %q %q", rec.Code, rec.Header().Get("Content-Type"), rec.Body.String())
	}
	cases := map[string]int{
		"/api/media/audio/missing.mp3":   http.StatusNotFound,
		"/api/media/secrets/a.txt":       http.StatusNotFound,
		"/api/media/frames/..":           http.StatusBadRequest,
		"/api/media/videos/s..intro.mp4": http.StatusBadRequest,
	}
	for path, want := range cases {
		if rec := do(r, http.MethodGet, path, ""); rec.Code != want {
			t.Fatalf("%s: want=%d got=%d", path, want, rec.Code)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler().HealthCheck)
	if rec := do(r, http.MethodGet, "/healthcheck", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}
}
