//go:build integration

package e2e_test

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/adamwoolhether/httpsreq"
	"github.com/adamwoolhether/httpsreq/client"
)

// -------------------------------------------------------------------------
// Types
// -------------------------------------------------------------------------

type user struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

type itemResp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type queryResp struct {
	Search []string `json:"search"`
	Page   string   `json:"page"`
}

var downloadContent = []byte("hello, this is test download content!")

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

func newTestApp(t *testing.T) (string, *x509.CertPool) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /echo", echoHandler)
	mux.HandleFunc("GET /items/{id}/{name}", itemHandler)
	mux.HandleFunc("GET /query", queryHandler)
	mux.HandleFunc("GET /error/not-found", notFoundHandler)
	mux.HandleFunc("POST /form", formHandler)
	mux.HandleFunc("GET /latin1", latin1Handler)
	mux.HandleFunc("GET /download", downloadHandler)
	mux.HandleFunc("GET /slow", slowHandler)

	srv := httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())

	return srv.URL, pool
}

func newSession(t *testing.T, pool *x509.CertPool, opts ...client.Option) *client.Session {
	t.Helper()

	s, err := httpsreq.NewSession(append([]client.Option{client.WithRootCAs(pool)}, opts...)...)
	if err != nil {
		t.Fatalf("building session: %v", err)
	}

	return s
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// -------------------------------------------------------------------------
// Handlers
// -------------------------------------------------------------------------

func echoHandler(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "application/json" {
		http.Error(w, "unexpected content type "+ct, http.StatusUnsupportedMediaType)
		return
	}

	var u user
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusCreated, u)
}

func itemHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, itemResp{
		ID:   r.PathValue("id"),
		Name: r.PathValue("name"),
	})
}

func queryHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondJSON(w, http.StatusOK, queryResp{
		Search: q["search"],
		Page:   q.Get("page"),
	})
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusNotFound, map[string]string{"error": "widget not found"})
}

func formHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, r.PostForm)
}

func latin1Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=ISO-8859-1")
	_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
}

func downloadHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(downloadContent)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(downloadContent)
}

func slowHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case <-r.Context().Done():
	case <-time.After(5 * time.Second):
		w.WriteHeader(http.StatusOK)
	}
}

// -------------------------------------------------------------------------
// Tests
// -------------------------------------------------------------------------

func TestE2E_JSONRoundTrip(t *testing.T) {
	baseURL, pool := newTestApp(t)
	s := newSession(t, pool)

	sent := user{Name: "Alice", Email: "alice@test.com", Age: 30}

	resp, err := s.Post(t.Context(), baseURL+"/echo", client.WithJSON(sent))
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, http.StatusCreated, resp.Text())
	}

	var got user
	if err := resp.DecodeJSON(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if got != sent {
		t.Errorf("round-trip mismatch:\n  got:  %+v\n  want: %+v", got, sent)
	}
}

func TestE2E_PathParams(t *testing.T) {
	baseURL, pool := newTestApp(t)
	s := newSession(t, pool)

	resp, err := s.Get(t.Context(), baseURL+"/items/42/widget")
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}

	var got itemResp
	if err := resp.DecodeJSON(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if got.ID != "42" {
		t.Errorf("id = %q, want %q", got.ID, "42")
	}
	if got.Name != "widget" {
		t.Errorf("name = %q, want %q", got.Name, "widget")
	}
}

func TestE2E_QueryParams(t *testing.T) {
	baseURL, pool := newTestApp(t)
	s := newSession(t, pool)

	resp, err := s.Get(t.Context(), baseURL+"/query?search=gopher",
		client.WithParam("search", "tls"),
		client.WithParam("page", "3"),
	)
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}

	var got queryResp
	if err := resp.DecodeJSON(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if strings.Join(got.Search, ",") != "gopher,tls" {
		t.Errorf("search = %v, want [gopher tls]", got.Search)
	}
	if got.Page != "3" {
		t.Errorf("page = %q, want %q", got.Page, "3")
	}
}

func TestE2E_Form(t *testing.T) {
	baseURL, pool := newTestApp(t)
	s := newSession(t, pool)

	resp, err := s.Post(t.Context(), baseURL+"/form",
		client.WithData(client.Form{client.Param("user", "alice"), client.Param("role", "admin", "dev")}),
	)
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}

	var got map[string][]string
	if err := resp.DecodeJSON(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if fmt.Sprint(got["role"]) != "[admin dev]" || fmt.Sprint(got["user"]) != "[alice]" {
		t.Errorf("form = %v", got)
	}
}

func TestE2E_NotFound(t *testing.T) {
	baseURL, pool := newTestApp(t)
	s := newSession(t, pool)

	resp, err := s.Get(t.Context(), baseURL+"/error/not-found")
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}

	err = resp.RaiseForStatus()

	var httpErr *client.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", httpErr.StatusCode, http.StatusNotFound)
	}

	body, err := httpErr.Response.JSON()
	if err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if m, ok := body.(map[string]any); !ok || m["error"] != "widget not found" {
		t.Errorf("error body = %v", body)
	}
}

func TestE2E_Charset(t *testing.T) {
	baseURL, pool := newTestApp(t)
	s := newSession(t, pool)

	resp, err := s.Get(t.Context(), baseURL+"/latin1")
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}

	if resp.Text() != "café" {
		t.Errorf("text = %q, want %q", resp.Text(), "café")
	}
	if resp.Encoding() != "ISO-8859-1" {
		t.Errorf("encoding = %q, want %q", resp.Encoding(), "ISO-8859-1")
	}
}

func TestE2E_Timeout(t *testing.T) {
	baseURL, pool := newTestApp(t)
	s := newSession(t, pool, client.WithTimeout(200*time.Millisecond))

	_, err := s.Get(t.Context(), baseURL+"/slow")
	if !errors.Is(err, client.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got: %v", err)
	}
}

func TestE2E_Download(t *testing.T) {
	baseURL, pool := newTestApp(t)
	s := newSession(t, pool)

	sum := sha256.Sum256(downloadContent)
	dest := filepath.Join(t.TempDir(), "download.bin")

	if err := s.Download(t.Context(), baseURL+"/download", dest, client.WithChecksum(sha256.New(), hex.EncodeToString(sum[:]))); err != nil {
		t.Fatalf("download failed: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}

	if string(got) != string(downloadContent) {
		t.Errorf("content = %q, want %q", got, downloadContent)
	}
}

func TestE2E_RemoteHost(t *testing.T) {
	resp, err := httpsreq.Get(t.Context(), "https://example.com", client.WithRequestTimeout(15*time.Second))
	if err != nil {
		t.Fatalf("executing request: %v", err)
	}

	if !resp.OK() {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Text(), "Example Domain") {
		t.Errorf("unexpected body: %.200s", resp.Text())
	}
}
