package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/starford/laguz/internal/auth"
	"github.com/starford/laguz/internal/noteservice"
	"github.com/starford/laguz/internal/testutil"
)

var testSecret = []byte("api-test-secret")

// testEnv sets up a temp SQLite store, service, and JWT-protected router.
func testEnv(t *testing.T) http.Handler {
	t.Helper()
	svc := noteservice.NewService(testutil.TestStore(t), nil)
	return NewRouter(svc, true, testSecret, 0, nil)
}

// do issues a request as userID (0 means unauthenticated) and returns the recorder.
func do(t *testing.T, router http.Handler, userID int64, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if userID != 0 {
		tok, err := auth.GenerateToken(testSecret, userID, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createNote(t *testing.T, router http.Handler, userID int64, title string) NoteResponse {
	t.Helper()
	w := do(t, router, userID, http.MethodPost, "/notes", url.Values{
		"title":       {title},
		"description": {"about " + title},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var env NoteEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !env.Success {
		t.Fatalf("create success = false, body = %s", w.Body.String())
	}
	return env.Note
}

func TestCreateAndGetNote(t *testing.T) {
	router := testEnv(t)

	created := createNote(t, router, 1, "hello")
	if created.ID == 0 {
		t.Fatal("expected generated id")
	}
	if created.Favorite {
		t.Error("favorite should default to false")
	}
	if created.CreatedAtDisplay != "just now" {
		t.Errorf("created_at_display = %q, want %q", created.CreatedAtDisplay, "just now")
	}

	w := do(t, router, 1, http.MethodGet, "/notes/"+itoa(created.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Note NoteResponse `json:"note"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Note.Title != "hello" || resp.Note.Description != "about hello" {
		t.Errorf("note = %+v", resp.Note)
	}
}

func TestCreateNoteEmptyTitle(t *testing.T) {
	router := testEnv(t)

	w := do(t, router, 1, http.MethodPost, "/notes", url.Values{
		"title":       {""},
		"description": {"no title"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v, body = %s", err, w.Body.String())
	}
	if resp.Success {
		t.Error("success should be false")
	}
	if _, ok := resp.Errors["title"]; !ok {
		t.Errorf("errors = %v, want a title entry", resp.Errors)
	}
}

func TestAuthRequired(t *testing.T) {
	router := testEnv(t)

	for _, tc := range []struct {
		method, target string
	}{
		{http.MethodGet, "/notes"},
		{http.MethodPost, "/notes"},
		{http.MethodGet, "/notes/1"},
		{http.MethodPost, "/notes/1/favorite"},
	} {
		w := do(t, router, 0, tc.method, tc.target, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token = %d, want 401", tc.method, tc.target, w.Code)
		}
	}
}

func TestInvalidToken(t *testing.T) {
	router := testEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token = %d, want 401", w.Code)
	}
}

func TestDisabledAuthRunsAsDevUser(t *testing.T) {
	svc := noteservice.NewService(testutil.TestStore(t), nil)
	router := NewRouter(svc, false, nil, 42, nil)

	w := do(t, router, 0, http.MethodPost, "/notes", url.Values{"title": {"dev note"}})
	if w.Code != http.StatusOK {
		t.Fatalf("create = %d, body = %s", w.Code, w.Body.String())
	}
	var env NoteEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	if env.Note.UserID != 42 {
		t.Errorf("user_id = %d, want dev user 42", env.Note.UserID)
	}
}

func TestGetNoteOwnership(t *testing.T) {
	router := testEnv(t)

	n := createNote(t, router, 1, "private")

	// Foreign reads leak existence with a 403.
	w := do(t, router, 2, http.MethodGet, "/notes/"+itoa(n.ID), nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign detail = %d, want 403", w.Code)
	}

	w = do(t, router, 1, http.MethodGet, "/notes/99999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing detail = %d, want 404", w.Code)
	}

	w = do(t, router, 1, http.MethodGet, "/notes/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id = %d, want 400", w.Code)
	}
}

func TestToggleFavorite(t *testing.T) {
	router := testEnv(t)

	n := createNote(t, router, 1, "flip")

	w := do(t, router, 1, http.MethodPost, "/notes/"+itoa(n.ID)+"/favorite", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("toggle = %d, body = %s", w.Code, w.Body.String())
	}
	var env NoteEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	if !env.Success || !env.Note.Favorite {
		t.Errorf("toggle response = %+v", env)
	}

	// Foreign toggles hide existence with a 404.
	w = do(t, router, 2, http.MethodPost, "/notes/"+itoa(n.ID)+"/favorite", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign toggle = %d, want 404", w.Code)
	}

	w = do(t, router, 1, http.MethodPost, "/notes/abc/favorite", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id = %d, want 400", w.Code)
	}

	// Wrong method on the route.
	w = do(t, router, 1, http.MethodGet, "/notes/"+itoa(n.ID)+"/favorite", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET favorite = %d, want 405", w.Code)
	}
}

func TestUpdateNote(t *testing.T) {
	router := testEnv(t)

	n := createNote(t, router, 1, "before")

	w := do(t, router, 1, http.MethodPut, "/notes/"+itoa(n.ID), url.Values{"title": {"after"}})
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}
	var env NoteEnvelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	if env.Note.Title != "after" {
		t.Errorf("title = %q, want %q", env.Note.Title, "after")
	}
	if env.Note.Description != "about before" {
		t.Errorf("description = %q, want unchanged", env.Note.Description)
	}

	w = do(t, router, 2, http.MethodPut, "/notes/"+itoa(n.ID), url.Values{"title": {"stolen"}})
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign update = %d, want 404", w.Code)
	}
}

func TestDeleteNote(t *testing.T) {
	router := testEnv(t)

	n := createNote(t, router, 1, "bye")

	w := do(t, router, 2, http.MethodDelete, "/notes/"+itoa(n.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("foreign delete = %d, want 404", w.Code)
	}

	w = do(t, router, 1, http.MethodDelete, "/notes/"+itoa(n.ID), nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}

	w = do(t, router, 1, http.MethodGet, "/notes/"+itoa(n.ID), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestListNotesPagination(t *testing.T) {
	router := testEnv(t)

	for i := 0; i < 25; i++ {
		createNote(t, router, 1, "note")
	}
	createNote(t, router, 2, "not mine")

	w := do(t, router, 1, http.MethodGet, "/notes", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var page1 NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &page1)
	if page1.Total != 25 || page1.TotalPages != 2 || page1.CurrentPage != 1 {
		t.Errorf("page 1 meta = %+v", page1)
	}
	if len(page1.Notes) != 20 {
		t.Errorf("page 1 len = %d, want 20", len(page1.Notes))
	}

	w = do(t, router, 1, http.MethodGet, "/notes?page=2", nil)
	var page2 NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &page2)
	if page2.CurrentPage != 2 || len(page2.Notes) != 5 {
		t.Errorf("page 2 = %d notes, currentPage %d", len(page2.Notes), page2.CurrentPage)
	}

	// Non-numeric page falls back to 1.
	w = do(t, router, 1, http.MethodGet, "/notes?page=banana", nil)
	var fallback NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &fallback)
	if fallback.CurrentPage != 1 {
		t.Errorf("fallback currentPage = %d, want 1", fallback.CurrentPage)
	}
}

func TestListNotesFavoritesFirst(t *testing.T) {
	router := testEnv(t)

	first := createNote(t, router, 1, "first")
	createNote(t, router, 1, "second")

	if w := do(t, router, 1, http.MethodPost, "/notes/"+itoa(first.ID)+"/favorite", nil); w.Code != http.StatusOK {
		t.Fatalf("toggle = %d", w.Code)
	}

	w := do(t, router, 1, http.MethodGet, "/notes", nil)
	var resp NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Notes) != 2 {
		t.Fatalf("len = %d", len(resp.Notes))
	}
	if resp.Notes[0].ID != first.ID {
		t.Errorf("favorited note not first: %+v", resp.Notes)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
