package core

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messagePattern = regexp.MustCompile(`^Hello from (.+) at (\S+)\. Call #(\d+)\.$`)

func newTestService(allowed string) *GreetingService {
	return NewGreetingService(ParseCORSPolicy(allowed), "test-host", zerolog.Nop())
}

func doRequest(t *testing.T, h http.Handler, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, GreetingPath, nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeGreeting(t *testing.T, rec *httptest.ResponseRecorder) GreetingResponse {
	t.Helper()
	var resp GreetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHandleGreeting_ReturnsMessageAndTimestamp(t *testing.T) {
	svc := newTestService("")
	svc.now = func() time.Time {
		return time.Date(2025, 3, 14, 15, 9, 26, 535_000_000, time.FixedZone("BRT", -3*3600))
	}

	rec := doRequest(t, svc, http.MethodGet, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeGreeting(t, rec)
	assert.Equal(t, "2025-03-14T18:09:26.535Z", resp.TS)
	assert.Equal(t, "Hello from test-host at 2025-03-14T18:09:26.535Z. Call #1.", resp.Message)
}

func TestHandleGreeting_BodyHasOnlyMessageAndTS(t *testing.T) {
	rec := doRequest(t, newTestService(""), http.MethodGet, "")

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Len(t, raw, 2)
	assert.Contains(t, raw, "message")
	assert.Contains(t, raw, "ts")
}

func TestHandleGreeting_CounterIncrementsByOne(t *testing.T) {
	svc := newTestService("")

	for i := 1; i <= 25; i++ {
		resp := decodeGreeting(t, doRequest(t, svc, http.MethodGet, ""))
		m := messagePattern.FindStringSubmatch(resp.Message)
		require.NotNil(t, m, "unexpected message %q", resp.Message)
		assert.Equal(t, fmt.Sprint(i), m[3])
	}
}

func TestHandleGreeting_TimestampMatchesMessage(t *testing.T) {
	svc := newTestService("")

	for i := 0; i < 5; i++ {
		resp := decodeGreeting(t, doRequest(t, svc, http.MethodGet, ""))
		m := messagePattern.FindStringSubmatch(resp.Message)
		require.NotNil(t, m)
		assert.Equal(t, resp.TS, m[2])

		_, err := time.Parse(time.RFC3339Nano, resp.TS)
		assert.NoError(t, err)
	}
}

func TestHandleGreeting_ConcurrentCallsGetDistinctNumbers(t *testing.T) {
	svc := newTestService("")
	const n = 200

	var wg sync.WaitGroup
	seen := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- svc.Greet().Message
		}()
	}
	wg.Wait()
	close(seen)

	numbers := map[string]bool{}
	for msg := range seen {
		m := messagePattern.FindStringSubmatch(msg)
		require.NotNil(t, m)
		assert.False(t, numbers[m[3]], "duplicate call number %s", m[3])
		numbers[m[3]] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, numbers[fmt.Sprint(i)], "missing call number %d", i)
	}
}

func TestPreflight_NoContentAndNoCounterChange(t *testing.T) {
	svc := newTestService("")

	rec := doRequest(t, svc, http.MethodOptions, "https://a.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	doRequest(t, svc, http.MethodOptions, "")
	resp := decodeGreeting(t, doRequest(t, svc, http.MethodGet, ""))
	assert.Contains(t, resp.Message, "Call #1.")
}

func TestCORS_WildcardOnEveryResponse(t *testing.T) {
	svc := newTestService("   ")

	for _, method := range []string{http.MethodGet, http.MethodOptions} {
		for _, origin := range []string{"", "https://a.example", "https://evil.example"} {
			rec := doRequest(t, svc, method, origin)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), "%s %q", method, origin)
		}
	}
}

func TestCORS_AllowListScenarios(t *testing.T) {
	allowed := "https://a.example,https://b.example"

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
		present    bool
	}{
		{"listed origin reflected", "https://a.example", "https://a.example", true},
		{"unlisted origin omitted", "https://c.example", "", false},
		{"no origin omitted", "", "", false},
	}

	for _, tt := range tests {
		for _, method := range []string{http.MethodGet, http.MethodOptions} {
			t.Run(tt.name+" "+method, func(t *testing.T) {
				rec := doRequest(t, newTestService(allowed), method, tt.origin)

				values := rec.Header().Values("Access-Control-Allow-Origin")
				if tt.present {
					assert.Equal(t, []string{tt.wantOrigin}, values)
				} else {
					assert.Empty(t, values)
				}
				assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
				assert.Equal(t, "GET,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
				assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
			})
		}
	}
}

func TestCredentialsAdvertisedInWildcardMode(t *testing.T) {
	rec := doRequest(t, newTestService(""), http.MethodGet, "https://a.example")
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestOtherMethodsRejected(t *testing.T) {
	svc := newTestService("")

	rec := doRequest(t, svc, http.MethodPost, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Allow"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	resp := decodeGreeting(t, doRequest(t, svc, http.MethodGet, ""))
	assert.Contains(t, resp.Message, "Call #1.")
}

func TestNewGreetingServiceFromConfig(t *testing.T) {
	cfg := &Config{AllowedOrigins: "https://a.example", Hostname: "from-config"}
	svc := NewGreetingServiceFromConfig(cfg, zerolog.Nop())

	rec := doRequest(t, svc, http.MethodGet, "https://a.example")
	assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, decodeGreeting(t, rec).Message, "Hello from from-config at ")
}
