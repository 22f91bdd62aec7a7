package robocontest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"robobadge/internal/components/telemetry"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t testing.TB, handler http.HandlerFunc, modify func(opts *ClientOptions)) Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts := DefaultClientOptions()
	opts.BaseUrl = server.URL
	opts.DisableCloudflareBypass = true
	if modify != nil {
		modify(&opts)
	}

	client, err := NewClient(opts, &telemetry.Recorder{})
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestFetchProfile(t *testing.T) {
	var path, userAgent string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		userAgent = r.Header.Get("user-agent")
		w.Write([]byte("<html>profile</html>"))
	}, nil)

	page, err := client.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "<html>profile</html>", page)
	require.Equal(t, "/profile/alice", path)
	require.Equal(t, defaultUserAgent, userAgent)
}

func TestFetchProfileEscapesUsername(t *testing.T) {
	var path string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
	}, nil)

	_, err := client.FetchProfile(context.Background(), "a b/../c?d")
	require.NoError(t, err)
	require.Equal(t, "/profile/a%20b%2F..%2Fc%3Fd", path)
}

func TestFetchProfileNonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte("<html>error</html>"))
		}, nil)

		_, err := client.FetchProfile(context.Background(), "alice")
		require.ErrorIs(t, err, ErrUnexpectedStatus, "status %d", status)
	}
}

func TestFetchProfileTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, nil)
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.FetchProfile(ctx, "alice")
	require.Error(t, err)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestFetchProfileRateLimit(t *testing.T) {
	var count atomic.Int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		count.Add(1)
	}, func(opts *ClientOptions) {
		opts.RequestsPerSecond = 1
	})

	_, err := client.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)

	// the bucket is empty now, the next request cannot get a token before the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.FetchProfile(ctx, "alice")
	require.Error(t, err)
	require.Equal(t, int64(1), count.Load())
}

func TestNewClientInvalidBaseUrl(t *testing.T) {
	for _, baseUrl := range []string{"", "robocontest.uz", "://bad"} {
		opts := DefaultClientOptions()
		opts.BaseUrl = baseUrl
		_, err := NewClient(opts, &telemetry.Recorder{})
		require.Error(t, err, "base url %q", baseUrl)
	}
}

type exchangeCollector struct {
	ids      []string
	contents []string
}

func (c *exchangeCollector) Write(id string, contents string) {
	c.ids = append(c.ids, id)
	c.contents = append(c.contents, contents)
}

func TestFetchProfileTrafficOutput(t *testing.T) {
	output := &exchangeCollector{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<title>alice</title>"))
	}, func(opts *ClientOptions) {
		opts.TrafficOutput = output
	})

	_, err := client.FetchProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, output.ids)
	require.Contains(t, output.contents[0], "/profile/alice")
	require.Contains(t, output.contents[0], "<title>alice</title>")
}

func TestFetchProfileCloudflareBypassKeepsUserAgent(t *testing.T) {
	testCases := []struct {
		name      string
		userAgent string
		expected  string
	}{
		{name: "default", userAgent: "", expected: defaultUserAgent},
		{name: "configured", userAgent: "robobadge/1.0", expected: "robobadge/1.0"},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			var userAgent, acceptLanguage string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				userAgent = r.Header.Get("User-Agent")
				acceptLanguage = r.Header.Get("Accept-Language")
			}, func(opts *ClientOptions) {
				opts.DisableCloudflareBypass = false
				opts.UserAgent = test.userAgent
			})

			_, err := client.FetchProfile(context.Background(), "alice")
			require.NoError(t, err)
			require.Equal(t, test.expected, userAgent)
			// only the bypass transport sets this header
			require.Equal(t, "en-US,en;q=0.5", acceptLanguage)
		})
	}
}
