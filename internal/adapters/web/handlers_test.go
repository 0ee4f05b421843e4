package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mikey/phish-dashboard/internal/adapters/detection"
	"github.com/mikey/phish-dashboard/internal/core"
	"github.com/mikey/phish-dashboard/internal/display"
	"github.com/mikey/phish-dashboard/internal/evidence"
	"github.com/mikey/phish-dashboard/internal/session"
	"github.com/mikey/phish-dashboard/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newDashboard serves the dashboard against a fake detection service
func newDashboard(t *testing.T, detector http.HandlerFunc) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()

	backend := httptest.NewServer(detector)
	t.Cleanup(backend.Close)

	client, err := detection.NewClient(backend.URL, backend.Client(), logger)
	require.NoError(t, err)
	svc := core.NewDashboardService(client, nil, logger, false, 0)
	formatter := display.NewFormatter(logger, "en-US", "UTC", 50)

	store := session.NewStore(func() *session.Session {
		return &session.Session{
			URL:     views.NewURLChecker(svc, logger),
			Email:   views.NewEmailChecker(svc, logger),
			History: views.NewHistoryView(svc, formatter, views.DefaultHistoryLimit, logger),
			Stats:   views.NewStatsView(svc, formatter, views.DefaultRecentLimit, logger),
		}
	}, time.Hour, 0, logger)
	t.Cleanup(store.Stop)

	handler := NewHandler(store, evidence.DefaultVocabulary(), formatter, logger)
	srv := httptest.NewServer(NewRouter(handler, logger))
	t.Cleanup(srv.Close)
	return srv
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", SessionCookie)
	return nil
}

func postForm(t *testing.T, target string, form url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getWithCookie(t *testing.T, target string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestDashboardPage(t *testing.T) {
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/stats":
			_, _ = w.Write([]byte(`{"urls":{"total":3,"phishing":1,"legitimate":2,"phishing_percentage":33.33},
				"emails":{"total":0,"phishing":0,"legitimate":0,"phishing_percentage":0}}`))
		case "/api/url-history":
			_, _ = w.Write([]byte(`[{"id":1,"url":"http://bad.example","checked_at":"2024-03-05T14:07:09Z","is_phishing":true,"confidence":0.9}]`))
		default:
			http.NotFound(w, r)
		}
	})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	sessionCookie(t, resp)

	body := readBody(t, resp)
	assert.Contains(t, body, "URL Detection Statistics")
	assert.Contains(t, body, "Total URLs")
	assert.Contains(t, body, "33.3%")
	assert.Contains(t, body, "conic-gradient")
	assert.Contains(t, body, "No email data available yet")
	assert.Contains(t, body, "http://bad.example")
	assert.Contains(t, body, "3/5/2024, 2:07:09 PM")
}

func TestDashboardPage_Failure(t *testing.T) {
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/stats" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "Failed to fetch data. Please try again later.")
	assert.NotContains(t, body, "Total URLs")
}

func TestURLChecker_ValidationNeverCallsService(t *testing.T) {
	var calls atomic.Int32
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	})

	resp := postForm(t, srv.URL+"/url-checker", url.Values{"url": {"example.com"}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Please enter a valid URL starting with http:// or https://")

	resp = postForm(t, srv.URL+"/url-checker", url.Values{"url": {""}}, nil)
	assert.Contains(t, readBody(t, resp), "Please enter a URL")

	assert.Zero(t, calls.Load())
}

func TestURLChecker_Success(t *testing.T) {
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"http://example.com","is_phishing":false,"confidence":0.92,
			"features":{"has_https":false,"url_length":19,"page_rank":3}}`))
	})

	resp := postForm(t, srv.URL+"/url-checker", url.Values{"url": {"http://example.com"}, "fetch_content": {"on"}}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)

	body := readBody(t, resp)
	assert.Contains(t, body, "URL Appears Legitimate")
	assert.Contains(t, body, "Confidence: 92%")
	assert.Contains(t, body, "<th>Has Https</th><td>No</td>")
	assert.Contains(t, body, "<th>Url Length</th><td>19</td>")
	assert.NotContains(t, body, "Page Rank")

	// leaving the page and coming back mounts a fresh checker
	resp = getWithCookie(t, srv.URL+"/about", cookie)
	readBody(t, resp)
	resp = getWithCookie(t, srv.URL+"/url-checker", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = readBody(t, resp)
	assert.NotContains(t, body, "Analysis Result")
	assert.NotContains(t, body, "http://example.com")
}

func TestEmailChecker_ResultDiscardedOnReturn(t *testing.T) {
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"is_phishing":false,"confidence":0.7}`))
	})

	resp := postForm(t, srv.URL+"/email-checker", url.Values{"body": {"Lunch at noon?"}}, nil)
	cookie := sessionCookie(t, resp)
	assert.Contains(t, readBody(t, resp), "Email Appears Legitimate")

	resp = getWithCookie(t, srv.URL+"/email-checker", cookie)
	body := readBody(t, resp)
	assert.NotContains(t, body, "Analysis Result")
	assert.NotContains(t, body, "Lunch at noon?")
}

func TestURLChecker_WhitespaceIsMalformed(t *testing.T) {
	var calls atomic.Int32
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	})

	for _, raw := range []string{"   ", " http://example.com"} {
		resp := postForm(t, srv.URL+"/url-checker", url.Values{"url": {raw}}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "url %q", raw)
		body := readBody(t, resp)
		assert.Contains(t, body, "Please enter a valid URL starting with http:// or https://", "url %q", raw)
		assert.NotContains(t, body, "Please enter a URL<", "url %q", raw)
	}
	assert.Zero(t, calls.Load())
}

func TestURLChecker_ServiceError(t *testing.T) {
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	})

	resp := postForm(t, srv.URL+"/url-checker", url.Values{"url": {"http://example.com"}}, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "rate limited")
}

func TestURLChecker_BusyWhileLoading(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		_, _ = w.Write([]byte(`{"url":"http://slow.example","is_phishing":true,"confidence":0.8}`))
	})

	// establish a session first
	resp, err := http.Get(srv.URL + "/url-checker")
	require.NoError(t, err)
	cookie := sessionCookie(t, resp)
	readBody(t, resp)

	first := make(chan *http.Response, 1)
	go func() {
		first <- postForm(t, srv.URL+"/url-checker", url.Values{"url": {"http://slow.example"}}, cookie)
	}()
	<-started

	resp = postForm(t, srv.URL+"/url-checker", url.Values{"url": {"http://other.example"}}, cookie)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Analyzing URL...")

	close(release)
	resp = <-first
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Potential Phishing Detected")
}

func TestEmailChecker(t *testing.T) {
	var calls atomic.Int32
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"is_phishing":true,"confidence":0.876,"features":{"num_links":2},
			"analyzed_urls":[{"url":"http://bad.example","is_phishing":true}]}`))
	})

	resp := postForm(t, srv.URL+"/email-checker", url.Values{"subject": {"Hi"}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Email body is required")
	assert.Zero(t, calls.Load())

	resp = postForm(t, srv.URL+"/email-checker", url.Values{"body": {"Verify your account now"}}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Potential Phishing Email Detected")
	assert.Contains(t, body, "(No subject)")
	assert.Contains(t, body, "(Unknown sender)")
	assert.Contains(t, body, "Confidence: 88%")
	assert.Contains(t, body, "Suspicious")
	assert.Contains(t, body, "<th>Num Links</th><td>2</td>")
}

func TestHistoryPage(t *testing.T) {
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/url-history":
			_, _ = w.Write([]byte(`[{"id":1,"url":"http://a.example","checked_at":"2024-03-05T14:07:09Z","is_phishing":false,"confidence":0.92}]`))
		case "/api/email-history":
			_, _ = w.Write([]byte(`[]`))
		}
	})

	resp, err := http.Get(srv.URL + "/history")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "http://a.example")
	assert.Contains(t, body, "(92%)")

	resp, err = http.Get(srv.URL + "/history?tab=emails")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "No email check history available")

	resp, err = http.Get(srv.URL + "/history?tab=sms")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	readBody(t, resp)
}

func TestHistoryPage_OvertakenTabKeepsItsHeader(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/url-history" {
			started <- struct{}{}
			<-release
			_, _ = w.Write([]byte(`[{"id":1,"url":"http://late.example","checked_at":"2024-03-05T14:07:09Z","is_phishing":false,"confidence":0.5}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	resp, err := http.Get(srv.URL + "/about")
	require.NoError(t, err)
	cookie := sessionCookie(t, resp)
	readBody(t, resp)

	urls := make(chan *http.Response, 1)
	go func() {
		urls <- getWithCookie(t, srv.URL+"/history?tab=urls", cookie)
	}()
	<-started

	resp = getWithCookie(t, srv.URL+"/history?tab=emails", cookie)
	assert.Contains(t, readBody(t, resp), "No email check history available")

	close(release)
	resp = <-urls
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `<a href="/history?tab=urls" class="active">`)
	assert.Contains(t, body, "A newer history request replaced this one.")
	assert.NotContains(t, body, "No email check history available")
	assert.NotContains(t, body, "Loading history...")
	assert.NotContains(t, body, "http://late.example")
}

func TestHistoryPage_Failure(t *testing.T) {
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"database unavailable"}`))
	})

	resp, err := http.Get(srv.URL + "/history?tab=urls")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "Failed to fetch history. Please try again later.")
	assert.NotContains(t, body, "database unavailable")
}

func TestStaticPages(t *testing.T) {
	srv := newDashboard(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, "ok", readBody(t, resp))

	resp, err = http.Get(srv.URL + "/about")
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), "About Phishing Detector")

	resp, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	readBody(t, resp)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(nil))
	assert.Equal(t, http.StatusOK, statusFor(views.ErrSuperseded))
	assert.Equal(t, http.StatusConflict, statusFor(core.ErrBusy))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(&core.ValidationError{Reason: core.ReasonMissingURL}))
	assert.Equal(t, http.StatusBadGateway, statusFor(&core.TransportError{Op: "check-url"}))
}
