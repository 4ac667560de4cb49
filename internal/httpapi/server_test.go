package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"todo/internal/logging"
	"todo/internal/task"
	"todo/internal/testutil"
)

func do(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) task.Task {
	t.Helper()
	var got task.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode task: %v (body %q)", err, rec.Body.String())
	}
	return got
}

func TestListTasks(t *testing.T) {
	store, _ := testutil.NewStore(t, testutil.Tasks("one", "two")...)
	srv := New(store, logging.Discard())

	rec := do(t, srv, http.MethodGet, "/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got []task.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Name != "one" || got[1].Name != "two" {
		t.Errorf("unexpected tasks: %+v", got)
	}
}

func TestListTasks_EmptyIsArray(t *testing.T) {
	store, _ := testutil.NewStore(t)
	srv := New(store, logging.Discard())

	rec := do(t, srv, http.MethodGet, "/tasks", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected [], got %q", rec.Body.String())
	}
}

func TestCreateTask(t *testing.T) {
	store, fb := testutil.NewStore(t)
	srv := New(store, logging.Discard())

	rec := do(t, srv, http.MethodPost, "/tasks", `{"name":"Buy milk","priority":"low"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	got := decodeTask(t, rec)
	want := task.Task{ID: "t1", Name: "Buy milk", Priority: task.Low}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if len(fb.Tasks()) != 1 {
		t.Errorf("expected task persisted, got %+v", fb.Tasks())
	}
}

func TestCreateTask_DefaultPriority(t *testing.T) {
	store, _ := testutil.NewStore(t)
	srv := New(store, logging.Discard())

	got := decodeTask(t, do(t, srv, http.MethodPost, "/tasks", `{"name":"x"}`))
	if got.Priority != task.High {
		t.Errorf("expected High, got %q", got.Priority)
	}
}

func TestCreateTask_BadRequests(t *testing.T) {
	store, fb := testutil.NewStore(t)
	srv := New(store, logging.Discard())

	for _, body := range []string{
		`{"name":"   "}`,
		`{"name":"x","priority":"urgent"}`,
		`{"name":`,
	} {
		rec := do(t, srv, http.MethodPost, "/tasks", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
	if fb.Saves != 0 {
		t.Errorf("expected no saves, got %d", fb.Saves)
	}
}

func TestCompleteAndReopen(t *testing.T) {
	store, _ := testutil.NewStore(t, testutil.Tasks("one")...)
	srv := New(store, logging.Discard())

	rec := do(t, srv, http.MethodPost, "/tasks/a/complete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !decodeTask(t, rec).Completed {
		t.Error("expected task completed")
	}

	rec = do(t, srv, http.MethodPost, "/tasks/a/reopen", "")
	if decodeTask(t, rec).Completed {
		t.Error("expected task reopened")
	}
}

func TestSetPriorityAndRename(t *testing.T) {
	store, _ := testutil.NewStore(t, testutil.Tasks("one")...)
	srv := New(store, logging.Discard())

	rec := do(t, srv, http.MethodPut, "/tasks/a/priority", `{"priority":"Medium"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeTask(t, rec).Priority; got != task.Medium {
		t.Errorf("expected Medium, got %q", got)
	}

	rec = do(t, srv, http.MethodPut, "/tasks/a/name", `{"name":"renamed"}`)
	if got := decodeTask(t, rec).Name; got != "renamed" {
		t.Errorf("expected renamed, got %q", got)
	}

	rec = do(t, srv, http.MethodPut, "/tasks/a/priority", `{"priority":"soon"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad priority, got %d", rec.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	store, fb := testutil.NewStore(t, testutil.Tasks("one", "two")...)
	srv := New(store, logging.Discard())

	rec := do(t, srv, http.MethodDelete, "/tasks/a", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if tasks := fb.Tasks(); len(tasks) != 1 || tasks[0].ID != "b" {
		t.Errorf("expected only b left, got %+v", tasks)
	}
}

func TestUnknownID(t *testing.T) {
	store, _ := testutil.NewStore(t, testutil.Tasks("one")...)
	srv := New(store, logging.Discard())

	tests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/tasks/zzz", ""},
		{http.MethodPost, "/tasks/zzz/complete", ""},
		{http.MethodPost, "/tasks/zzz/reopen", ""},
		{http.MethodPut, "/tasks/zzz/priority", `{"priority":"Low"}`},
		{http.MethodPut, "/tasks/zzz/name", `{"name":"x"}`},
		{http.MethodDelete, "/tasks/zzz", ""},
	}
	for _, tt := range tests {
		rec := do(t, srv, tt.method, tt.target, tt.body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tt.method, tt.target, rec.Code)
		}
	}
}

func TestPersistFailure(t *testing.T) {
	store, fb := testutil.NewStore(t)
	fb.SaveErr = testutil.ErrInjected
	srv := New(store, logging.Discard())

	rec := do(t, srv, http.MethodPost, "/tasks", `{"name":"x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body.Error, "not saved") {
		t.Errorf("expected persistence error message, got %q", body.Error)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	store, _ := testutil.NewStore(t)
	srv := New(store, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, "127.0.0.1:0")
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
