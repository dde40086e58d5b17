package drive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticTokenSource hands out canned tokens and counts refreshes.
type staticTokenSource struct {
	token        string
	refreshed    string
	refreshCalls int
	refreshErr   error
}

func (s *staticTokenSource) AccessToken(ctx context.Context, userID string) (string, error) {
	return s.token, nil
}

func (s *staticTokenSource) Refresh(ctx context.Context, userID string) (string, error) {
	s.refreshCalls++
	if s.refreshErr != nil {
		return "", s.refreshErr
	}
	return s.refreshed, nil
}

func newTestClient(server *httptest.Server, tokens TokenSource) *Client {
	provider := Provider{
		Name:           "test",
		APIBase:        server.URL,
		UploadBase:     server.URL + "/upload",
		FolderMIMEType: "application/vnd.google-apps.folder",
	}
	return NewClient(provider, tokens, server.Client(), testLogger())
}

func TestTrashPatchesTrashedFlag(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody map[string]bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Object{ID: "obj-1", Trashed: true})
	}))
	defer server.Close()

	client := newTestClient(server, &staticTokenSource{token: "tok-1"})

	if err := client.Trash(context.Background(), "user-1", "obj-1"); err != nil {
		t.Fatalf("trash: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if gotPath != "/files/obj-1" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer tok-1" {
		t.Errorf("auth = %s", gotAuth)
	}
	if !gotBody["trashed"] {
		t.Errorf("body = %v, want trashed=true", gotBody)
	}
}

func TestUntrashPatchesTrashedFalse(t *testing.T) {
	var gotBody map[string]bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(Object{ID: "obj-1"})
	}))
	defer server.Close()

	client := newTestClient(server, &staticTokenSource{token: "tok-1"})
	if err := client.Untrash(context.Background(), "user-1", "obj-1"); err != nil {
		t.Fatalf("untrash: %v", err)
	}

	if trashed, ok := gotBody["trashed"]; !ok || trashed {
		t.Errorf("body = %v, want trashed=false", gotBody)
	}
}

func TestMissingObjectCountsAsDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server, &staticTokenSource{token: "tok-1"})
	ctx := context.Background()

	if err := client.Delete(ctx, "user-1", "gone"); err != nil {
		t.Errorf("delete of missing object: %v, want nil", err)
	}
	if err := client.Trash(ctx, "user-1", "gone"); err != nil {
		t.Errorf("trash of missing object: %v, want nil", err)
	}
}

func TestDeleteSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server, &staticTokenSource{token: "tok-1"})

	err := client.Delete(context.Background(), "user-1", "obj-1")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("got %v, want StatusError", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Errorf("code = %d, want 500", statusErr.Code)
	}
}

func TestStaleTokenRefreshesOnceAndReplays(t *testing.T) {
	var attempts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		attempts = append(attempts, auth)
		if auth != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(Object{ID: "obj-1", Name: "folder"})
	}))
	defer server.Close()

	tokens := &staticTokenSource{token: "stale", refreshed: "fresh"}
	client := newTestClient(server, tokens)

	obj, err := client.CreateFolder(context.Background(), "user-1", "folder", "parent-1")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if obj.ID != "obj-1" {
		t.Errorf("object id = %s", obj.ID)
	}

	if tokens.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", tokens.refreshCalls)
	}
	if len(attempts) != 2 || attempts[0] != "Bearer stale" || attempts[1] != "Bearer fresh" {
		t.Errorf("attempts = %v, want stale then fresh", attempts)
	}
}

func TestUploadFileSendsMultipartBody(t *testing.T) {
	var gotContentType, gotPath string
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("uploadType")
		body, _ := io.ReadAll(r.Body)
		if len(body) == 0 {
			t.Error("empty upload body")
		}
		json.NewEncoder(w).Encode(Object{ID: "obj-9", Name: "essay.pdf", Size: 42})
	}))
	defer server.Close()

	client := newTestClient(server, &staticTokenSource{token: "tok-1"})

	obj, err := client.UploadFile(context.Background(), "user-1", "essay.pdf", "application/pdf", "parent-1", []byte("pdf-bytes"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if obj.Size != 42 {
		t.Errorf("size = %d, want 42 (string-encoded by the provider)", obj.Size)
	}
	if gotPath != "/upload/files" {
		t.Errorf("path = %s, want the upload base", gotPath)
	}
	if gotQuery != "multipart" {
		t.Errorf("uploadType = %s, want multipart", gotQuery)
	}
	if !strings.HasPrefix(gotContentType, "multipart/related") {
		t.Errorf("content type = %s, want multipart/related", gotContentType)
	}
}

func TestCreateFolderAtRootOmitsParents(t *testing.T) {
	var metadata map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&metadata)
		json.NewEncoder(w).Encode(Object{ID: "root-obj"})
	}))
	defer server.Close()

	client := newTestClient(server, &staticTokenSource{token: "tok-1"})

	if _, err := client.CreateFolder(context.Background(), "user-1", "Portfolio", ""); err != nil {
		t.Fatalf("create folder: %v", err)
	}

	if _, ok := metadata["parents"]; ok {
		t.Errorf("metadata = %v, root create must omit parents", metadata)
	}
	if metadata["mimeType"] != "application/vnd.google-apps.folder" {
		t.Errorf("mimeType = %v", metadata["mimeType"])
	}
}

func TestListChildrenFiltersTrashed(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]any{
			"files": []Object{{ID: "a"}, {ID: "b"}},
		})
	}))
	defer server.Close()

	client := newTestClient(server, &staticTokenSource{token: "tok-1"})

	children, err := client.ListChildren(context.Background(), "user-1", "parent-1")
	if err != nil {
		t.Fatalf("list children: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("children = %d, want 2", len(children))
	}
	if gotQuery != "'parent-1' in parents and trashed = false" {
		t.Errorf("query = %q", gotQuery)
	}
}
