package restyutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type memoryOutput struct {
	mu        sync.Mutex
	exchanges map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.exchanges == nil {
		o.exchanges = map[string]string{}
	}
	o.exchanges[id] = contents
}

func newInstrumentedClient(t *testing.T, output InstrumentOutput) (*resty.Client, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() {
		provider.Shutdown(context.Background())
	})

	client := resty.New()
	InstrumentClient(client, provider.Tracer("test"), output)
	return client, recorder
}

func TestInstrumentClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("X-Origin", "test")
		w.Write([]byte("<h1>hello</h1>"))
	}))
	defer server.Close()

	output := &memoryOutput{}
	client, recorder := newInstrumentedClient(t, output)

	_, err := client.R().Get(server.URL + "/profile")
	require.NoError(t, err)
	_, err = client.R().Get(server.URL + "/missing")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		require.Equal(t, "http GET", span.Name())
		require.Equal(t, trace.SpanKindClient, span.SpanKind())
	}
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, codes.Error, spans[1].Status().Code)

	require.Len(t, output.exchanges, 2)
	require.Contains(t, output.exchanges["1"], "GET "+server.URL+"/profile")
	require.Contains(t, output.exchanges["1"], "X-Origin: test")
	require.Contains(t, output.exchanges["1"], "<h1>hello</h1>")
	require.Contains(t, output.exchanges["2"], "404")
}

func TestInstrumentClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	output := &memoryOutput{}
	client, recorder := newInstrumentedClient(t, output)

	_, err := client.R().Get(url)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Contains(t, output.exchanges["1"], "failed:")
}

func TestInstrumentClientWithoutOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	client, recorder := newInstrumentedClient(t, nil)
	_, err := client.R().Get(server.URL)
	require.NoError(t, err)
	require.Len(t, recorder.Ended(), 1)
}

func TestFormatHeaders(t *testing.T) {
	require.Equal(t, "", formatHeaders(nil))
	require.Equal(t, "A: 1\nA: 2\nB: 3", formatHeaders(http.Header{
		"B": {"3"},
		"A": {"1", "2"},
	}))
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "traffic")
	require.NoError(t, os.MkdirAll(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale"), []byte("old"), 0600))

	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)
	output.Write("1", "exchange")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.Equal(t, "exchange", string(contents))
}

func TestFormatRequestBody(t *testing.T) {
	require.Equal(t, "", formatRequestBody(nil))

	emptyBody, err := http.NewRequest(http.MethodGet, "http://robocontest.uz", nil)
	require.NoError(t, err)
	emptyBody.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, "", formatRequestBody(emptyBody))

	withBody, err := http.NewRequest(http.MethodPost, "http://robocontest.uz", strings.NewReader("a=1"))
	require.NoError(t, err)
	require.Equal(t, "a=1", formatRequestBody(withBody))
}
