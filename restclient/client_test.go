package restclient

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeSession records the option surface the executor configures, so tests
// can assert on exactly what the transport was told.
type fakeSession struct {
	url       string
	method    string
	headers   [][2]string
	userpass  string
	userAgent string
	noSignals bool
	closed    bool

	status      int
	headerLines []string
	bodyChunks  [][]byte
	performErr  error

	uploadSize int64
	body       io.Reader

	onHeader   HeaderFunc
	onBody     WriteFunc
	onRead     ReadFunc
	onProgress ProgressFunc
}

func (s *fakeSession) SetURL(url string) { s.url = url }

func (s *fakeSession) SetMethod(method string) { s.method = method }

func (s *fakeSession) AddHeader(key, value string) {
	s.headers = append(s.headers, [2]string{key, value})
}

func (s *fakeSession) SetBasicAuth(userpass string) { s.userpass = userpass }

func (s *fakeSession) SetUserAgent(agent string) { s.userAgent = agent }

func (s *fakeSession) DisableSignalHandlers() { s.noSignals = true }

func (s *fakeSession) SetUploadSize(n int64) { s.uploadSize = n }

func (s *fakeSession) SetBody(r io.Reader, n int64) { s.body = r }

func (s *fakeSession) OnHeaderLine(fn HeaderFunc) { s.onHeader = fn }

func (s *fakeSession) OnBodyChunk(fn WriteFunc) { s.onBody = fn }

func (s *fakeSession) OnBodyRead(fn ReadFunc) { s.onRead = fn }

func (s *fakeSession) OnProgress(fn ProgressFunc) { s.onProgress = fn }

func (s *fakeSession) StatusCode() int { return s.status }

func (s *fakeSession) Close() { s.closed = true }

func (s *fakeSession) Perform(ctx context.Context) error {
	for _, line := range s.headerLines {
		s.onHeader(line)
	}
	for _, chunk := range s.bodyChunks {
		if err := s.onBody(chunk); err != nil {
			return err
		}
	}
	return s.performErr
}

type fakeTransport struct {
	sess *fakeSession
	err  error
}

func (t *fakeTransport) NewSession() (Session, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.sess, nil
}

func TestClient_GetConfiguresOnlyDefaultUserAgent(t *testing.T) {
	sess := &fakeSession{status: 200}
	client := NewClient(WithTransport(&fakeTransport{sess: sess}))

	resp := client.Get(context.Background(), NewRequest("http://example.com"))

	if resp.Status != 200 {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}
	if len(sess.headers) != 0 {
		t.Errorf("Expected no custom headers, got %v", sess.headers)
	}
	if sess.userAgent != defaultUserAgent {
		t.Errorf("Expected default user agent %q, got %q", defaultUserAgent, sess.userAgent)
	}
	if sess.userpass != "" {
		t.Errorf("Expected no auth configured, got %q", sess.userpass)
	}
	if !sess.noSignals {
		t.Error("Expected signal handlers to be disabled")
	}
	if !sess.closed {
		t.Error("Expected session to be closed")
	}
}

func TestClient_CustomUserAgentSuppressesDefault(t *testing.T) {
	sess := &fakeSession{status: 200}
	client := NewClient(WithTransport(&fakeTransport{sess: sess}))

	req := NewRequest("http://example.com").WithHeader("User-Agent", "custom/1.0")
	client.Get(context.Background(), req)

	if sess.userAgent != "" {
		t.Errorf("Expected no default user agent, got %q", sess.userAgent)
	}
	if len(sess.headers) != 1 || sess.headers[0] != [2]string{"User-Agent", "custom/1.0"} {
		t.Errorf("Expected only the custom User-Agent header, got %v", sess.headers)
	}
}

func TestClient_SetAuthAndClearAuth(t *testing.T) {
	sess := &fakeSession{status: 200}
	transport := &fakeTransport{sess: sess}
	client := NewClient(WithTransport(transport))

	client.SetAuth("alice", "secret")
	client.Get(context.Background(), NewRequest("http://example.com"))
	if sess.userpass != "alice:secret" {
		t.Errorf("Expected credential string alice:secret, got %q", sess.userpass)
	}

	client.ClearAuth()
	transport.sess = &fakeSession{status: 200}
	client.Get(context.Background(), NewRequest("http://example.com"))
	if transport.sess.userpass != "" {
		t.Errorf("Expected no auth after ClearAuth, got %q", transport.sess.userpass)
	}
}

func TestClient_SessionAcquisitionFailure(t *testing.T) {
	client := NewClient(WithTransport(&fakeTransport{err: errors.New("no session")}))

	resp := client.Get(context.Background(), NewRequest("http://example.com"))

	if resp.Status != StatusTransportFailure {
		t.Fatalf("Expected sentinel status, got %d", resp.Status)
	}
	if resp.BodyString() != "Failed to query." {
		t.Errorf("Expected failure marker body, got %q", resp.BodyString())
	}
}

func TestClient_PerformFailureKeepsHeaders(t *testing.T) {
	sess := &fakeSession{
		headerLines: []string{
			"HTTP/1.1 502 Bad Gateway\r\n",
			"X-Partial: yes\r\n",
		},
		performErr: errors.New("connection reset"),
	}
	client := NewClient(WithTransport(&fakeTransport{sess: sess}))

	resp := client.Get(context.Background(), NewRequest("http://example.com"))

	if resp.Status != StatusTransportFailure {
		t.Fatalf("Expected sentinel status, got %d", resp.Status)
	}
	if !resp.IsTransportFailure() {
		t.Error("Expected IsTransportFailure")
	}
	if resp.BodyString() != "Failed to query." {
		t.Errorf("Expected failure marker body, got %q", resp.BodyString())
	}
	if resp.GetHeader("X-Partial") != "yes" {
		t.Errorf("Expected headers collected before failure to be kept, got %v", resp.Headers)
	}
	if resp.GetHeader("HTTP/1.1 502 Bad Gateway") != HeaderPresent {
		t.Errorf("Expected status line presence marker, got %v", resp.Headers)
	}
	if !sess.closed {
		t.Error("Expected session to be closed on the failure path")
	}
}

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected method GET, got %s", r.Method)
		}
		if r.Header.Get("X-Test-Header") != "test-value" {
			t.Errorf("Expected header X-Test-Header: test-value, got %s", r.Header.Get("X-Test-Header"))
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "restclient/") {
			t.Errorf("Expected default user agent, got %s", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("Expected no Authorization header, got %s", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"message":"success"}`))
	}))
	defer server.Close()

	client := NewClient()
	req := NewRequest(server.URL).WithHeader("X-Test-Header", "test-value")

	resp := client.Get(context.Background(), req)

	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}
	if resp.BodyString() != `{"message":"success"}` {
		t.Errorf("Unexpected body %q", resp.BodyString())
	}
	if resp.GetHeader("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type header, got %v", resp.Headers)
	}
	if resp.GetHeader("HTTP/1.1 200 OK") != HeaderPresent {
		t.Errorf("Expected status line recorded as present, got %v", resp.Headers)
	}
	if !resp.IsSuccess() {
		t.Error("Expected IsSuccess")
	}
}

func TestClient_GetWithBasicAuth(t *testing.T) {
	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret"))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != expected {
			t.Errorf("Expected %q, got %q", expected, r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	client.SetAuth("alice", "secret")

	resp := client.Get(context.Background(), NewRequest(server.URL))
	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}
}

func TestClient_GetWithSink(t *testing.T) {
	payload := strings.Repeat("streamed body ", 1024)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, payload)
	}))
	defer server.Close()

	var sink bytes.Buffer
	client := NewClient()

	resp := client.Get(context.Background(), NewRequest(server.URL), WithSink(&sink))

	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}
	if len(resp.Body) != 0 {
		t.Errorf("Expected empty Response.Body with sink, got %d bytes", len(resp.Body))
	}
	if sink.String() != payload {
		t.Errorf("Sink received %d bytes, expected %d", sink.Len(), len(payload))
	}
}

// recordingReporter collects progress ticks; reporter callbacks can fire
// from transport goroutines, so guard the state.
type recordingReporter struct {
	mu     sync.Mutex
	ticks  int
	last   [4]int64
	result int
}

func (r *recordingReporter) UpdateTransferInfo(dlTotal, dl, ulTotal, ul int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks++
	r.last = [4]int64{dlTotal, dl, ulTotal, ul}
	return r.result
}

func TestClient_GetWithProgress(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, payload)
	}))
	defer server.Close()

	reporter := &recordingReporter{}
	client := NewClient()

	resp := client.Get(context.Background(), NewRequest(server.URL), WithProgress(reporter))

	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}
	reporter.mu.Lock()
	defer reporter.mu.Unlock()
	if reporter.ticks == 0 {
		t.Fatal("Expected at least one progress tick")
	}
	if reporter.last[1] != int64(len(payload)) {
		t.Errorf("Expected %d bytes downloaded, got %d", len(payload), reporter.last[1])
	}
}

func TestClient_ProgressAbort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, strings.Repeat("y", 1<<16))
	}))
	defer server.Close()

	reporter := &recordingReporter{result: 1}
	client := NewClient()

	resp := client.Get(context.Background(), NewRequest(server.URL), WithProgress(reporter))

	if resp.Status != StatusTransportFailure {
		t.Fatalf("Expected transport failure after abort, got status %d", resp.Status)
	}
	if resp.BodyString() != "Failed to query." {
		t.Errorf("Expected failure marker body, got %q", resp.BodyString())
	}
}

func TestClient_Post(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/report.txt"
	if err := os.WriteFile(path, []byte("file contents"), 0o644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected method POST, got %s", r.Method)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Error parsing multipart form: %v", err)
		}
		if got := r.FormValue("name"); got != "alice" {
			t.Errorf("Expected form value alice, got %q", got)
		}
		f, header, err := r.FormFile("report")
		if err != nil {
			t.Fatalf("Error reading file field: %v", err)
		}
		defer f.Close()
		if header.Filename != "report.txt" {
			t.Errorf("Expected filename report.txt, got %q", header.Filename)
		}
		data, _ := io.ReadAll(f)
		if string(data) != "file contents" {
			t.Errorf("Expected file contents, got %q", data)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Post(context.Background(), NewRequest(server.URL), map[string]FormField{
		"name":   TextField("alice"),
		"report": FileField(path),
	})

	if resp.Status != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.Status)
	}
}

func TestClient_PostMissingFileIsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Post(context.Background(), NewRequest(server.URL), map[string]FormField{
		"report": FileField("/nonexistent/report.txt"),
	})

	if resp.Status != StatusTransportFailure {
		t.Fatalf("Expected transport failure, got status %d", resp.Status)
	}
}

func TestClient_PostBadURLReleasesFormWriter(t *testing.T) {
	before := runtime.NumGoroutine()

	client := NewClient()
	resp := client.Post(context.Background(), NewRequest("://not-a-url"), map[string]FormField{
		"name": TextField("alice"),
	})

	if resp.Status != StatusTransportFailure {
		t.Fatalf("Expected transport failure, got status %d", resp.Status)
	}

	// The multipart writer goroutine must wind down once the session is
	// released, even though the transport never consumed the payload.
	for i := 0; i < 100 && runtime.NumGoroutine() > before; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if now := runtime.NumGoroutine(); now > before {
		t.Errorf("Expected form writer goroutine to exit, goroutines before=%d now=%d", before, now)
	}
}

func TestClient_LowercaseUserAgentHeaderWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "custom/2.0" {
			t.Errorf("Expected custom user agent on the wire, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()

	// The key is not an exact "User-Agent" match, so the engine still sets
	// the default, but the caller's header must win once net/http
	// canonicalizes the name.
	req := NewRequest(server.URL).WithHeader("user-agent", "custom/2.0")
	resp := client.Get(context.Background(), req)

	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}
}

func TestClient_PostData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected content type application/json, got %q", r.Header.Get("Content-Type"))
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"a":1}` {
			t.Errorf("Unexpected body %q", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.PostData(context.Background(), NewRequest(server.URL), "application/json", []byte(`{"a":1}`))

	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}
}

func TestClient_Put(t *testing.T) {
	payload := []byte("put body payload")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Expected method PUT, got %s", r.Method)
		}
		if r.ContentLength != int64(len(payload)) {
			t.Errorf("Expected content length %d, got %d", len(payload), r.ContentLength)
		}
		body, _ := io.ReadAll(r.Body)
		if !bytes.Equal(body, payload) {
			t.Errorf("Expected body %q, got %q", payload, body)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Put(context.Background(), NewRequest(server.URL), "text/plain", payload)

	if resp.Status != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", resp.Status)
	}
}

func TestClient_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected method DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	resp := client.Delete(context.Background(), NewRequest(server.URL))

	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}
}

func TestClient_Cookies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") != "session=abc123" {
			t.Errorf("Expected cookie header, got %q", r.Header.Get("Cookie"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient()
	client.SetCookies("session=abc123")

	resp := client.Get(context.Background(), NewRequest(server.URL))
	if resp.Status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Status)
	}

	client.ClearCookies()
}

func TestClient_UnreachableHost(t *testing.T) {
	// A just-closed test server leaves a port that refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient()
	resp := client.Get(context.Background(), NewRequest(url))

	if resp.Status != StatusTransportFailure {
		t.Fatalf("Expected transport failure, got status %d", resp.Status)
	}
	if resp.BodyString() != "Failed to query." {
		t.Errorf("Expected failure marker body, got %q", resp.BodyString())
	}
}
