// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/focus/internal/models"
)

// Call records one invocation of a [FakeRunner].
type Call struct {
	Name string
	Args []string
}

// RunResult is the scripted outcome of a [FakeRunner] call.
type RunResult struct {
	Stdout string
	Stderr string
	Err    error
	// Block waits for the context to end and returns its error.
	Block bool
}

// FakeRunner is a test double for [shared.CommandRunner] that records calls instead of starting processes.
type FakeRunner struct {
	mu      sync.Mutex
	calls   []Call
	Handler func(name string, args []string) RunResult
	Default RunResult
}

func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Name: name, Args: append([]string(nil), args...)})
	handler := f.Handler
	f.mu.Unlock()

	res := f.Default
	if handler != nil {
		res = handler(name, args)
	}
	if res.Block {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	return []byte(res.Stdout), []byte(res.Stderr), res.Err
}

// Calls returns a copy of the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// MockFetcher is a test double for [services.VideoFetcher] that counts calls per channel id.
type MockFetcher struct {
	mu    sync.Mutex
	calls map[string]int
	Fn    func(ctx context.Context, ch models.Channel) ([]models.Video, error)
}

func (m *MockFetcher) FetchVideos(ctx context.Context, ch models.Channel) ([]models.Video, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[ch.ID]++
	m.mu.Unlock()

	if m.Fn == nil {
		return nil, nil
	}
	return m.Fn(ctx, ch)
}

// Calls returns how many times channel id was fetched.
func (m *MockFetcher) Calls(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

// Total returns the number of fetches across all channels.
func (m *MockFetcher) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// FakeGistClient is an in-memory test double for [services.GistClient].
type FakeGistClient struct {
	mu    sync.Mutex
	files map[string]string
	next  int
	Up    bool
	Err   error
}

func NewFakeGistClient() *FakeGistClient {
	return &FakeGistClient{files: make(map[string]string), Up: true}
}

func (f *FakeGistClient) Name() string { return "fake" }

func (f *FakeGistClient) Available(context.Context) bool { return f.Up }

func (f *FakeGistClient) Create(_ context.Context, filename, _, content string, _ bool) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.next++
	id := fmt.Sprintf("gist%d", f.next)
	f.files[id+"/"+filename] = content
	return id, nil
}

func (f *FakeGistClient) Read(_ context.Context, id, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	content, ok := f.files[id+"/"+filename]
	if !ok {
		return "", errors.New("gist not found")
	}
	return content, nil
}

func (f *FakeGistClient) Update(_ context.Context, id, filename, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.files[id+"/"+filename] = content
	return nil
}

// Content returns the stored content without going through the client interface.
func (f *FakeGistClient) Content(id, filename string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[id+"/"+filename]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
