package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	appanalyses "github.com/verilens/verilens/internal/application/analyses"
	appreports "github.com/verilens/verilens/internal/application/reports"
	domanalyses "github.com/verilens/verilens/internal/domain/analyses"
	domreports "github.com/verilens/verilens/internal/domain/reports"
	"github.com/verilens/verilens/internal/infra/analyzer/demo"
)

// In-memory ports. The report store serializes its counter bump the same way
// the SQL backends do, so the concurrency property is testable here.

type memAnalyses struct {
	mu      sync.Mutex
	records map[domanalyses.AnalysisID]*domanalyses.Analysis
}

func newMemAnalyses() *memAnalyses {
	return &memAnalyses{records: make(map[domanalyses.AnalysisID]*domanalyses.Analysis)}
}

func (m *memAnalyses) Save(_ context.Context, a *domanalyses.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.records[a.ID] = &cp
	return nil
}

func (m *memAnalyses) Get(_ context.Context, id domanalyses.AnalysisID) (*domanalyses.Analysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[id]
	if !ok {
		return nil, domanalyses.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

type memReports struct {
	mu      sync.Mutex
	records map[domreports.ShareToken]*domreports.Report
}

func newMemReports() *memReports {
	return &memReports{records: make(map[domreports.ShareToken]*domreports.Report)}
}

func (m *memReports) Save(_ context.Context, r *domreports.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.records[r.Token] = &cp
	return nil
}

func (m *memReports) FindByToken(_ context.Context, token domreports.ShareToken) (*domreports.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[token]
	if !ok {
		return nil, domreports.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memReports) IncrementViews(_ context.Context, token domreports.ShareToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[token]
	if !ok {
		return domreports.ErrNotFound
	}
	r.ViewCount++
	return nil
}

func (m *memReports) views(token domreports.ShareToken) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[token].ViewCount
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type env struct {
	srv      *httptest.Server
	analyses *memAnalyses
	reports  *memReports
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	analysesRepo := newMemAnalyses()
	reportsRepo := newMemReports()

	analysesSvc := &appanalyses.Service{
		Repo:     analysesRepo,
		Analyzer: demo.NewGenerator(),
		Clock:    clock,
	}
	reportsSvc := &appreports.Service{
		Analyses: analysesRepo,
		Reports:  reportsRepo,
		Clock:    clock,
	}

	identities := map[string]string{"test-key": "user-7"}
	srv := httptest.NewServer(NewRouter(analysesSvc, reportsSvc, nil, identities, nil))
	t.Cleanup(srv.Close)
	return &env{srv: srv, analyses: analysesRepo, reports: reportsRepo}
}

func postJSON(t *testing.T, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	payload, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func getJSON(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func errBody(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]string
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("Non-JSON error body: %s", body)
	}
	return m["error"]
}

func TestAnalyzeGeneratesValidRecord(t *testing.T) {
	e := newEnv(t)

	resp, body := postJSON(t, e.srv.URL+"/analyze", map[string]string{
		"fileName": "clip.mp4",
		"fileType": "video",
		"fileHash": "sha256:abc123",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}

	var a domanalyses.Analysis
	if err := json.Unmarshal(body, &a); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Generated record invalid: %v", err)
	}
	if a.Score < 20 || a.Score > 100 {
		t.Errorf("Score %d outside generation policy [20,100]", a.Score)
	}
	if a.FileName != "clip.mp4" {
		t.Errorf("Expected file name echoed, got %q", a.FileName)
	}
}

func TestAnalyzeMissingFields(t *testing.T) {
	e := newEnv(t)

	resp, body := postJSON(t, e.srv.URL+"/analyze", map[string]string{"fileName": "x"}, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	if got := errBody(t, body); got != "Missing required fields" {
		t.Errorf("Expected missing-fields message, got %q", got)
	}
}

func TestAnalyzeWrongMethod(t *testing.T) {
	e := newEnv(t)

	resp, _ := getJSON(t, e.srv.URL+"/analyze")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	e := newEnv(t)

	req, _ := http.NewRequest(http.MethodOptions, e.srv.URL+"/analyze", nil)
	req.Header.Set("Origin", "https://demo.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard origin, got %q", got)
	}
}

func TestReportMissingID(t *testing.T) {
	e := newEnv(t)

	resp, _ := getJSON(t, e.srv.URL+"/report")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}

func TestReportUnknownToken(t *testing.T) {
	e := newEnv(t)

	resp, body := getJSON(t, e.srv.URL+"/report?id=nonexistent-token")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
	if got := errBody(t, body); got != "Report not found" {
		t.Errorf("Expected report-not-found message, got %q", got)
	}
}

func TestReportMalformedToken(t *testing.T) {
	e := newEnv(t)

	// outside the token alphabet: still a plain 404, never a 500
	resp, body := getJSON(t, e.srv.URL+"/report?id=%3Bdrop%20table")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", resp.StatusCode, body)
	}
	if got := errBody(t, body); got != "Report not found" {
		t.Errorf("Expected report-not-found message, got %q", got)
	}
}

func TestReportDanglingLink(t *testing.T) {
	e := newEnv(t)

	e.reports.Save(context.Background(), &domreports.Report{
		Token:      "dangling-token-1",
		AnalysisID: "gone",
	})

	resp, body := getJSON(t, e.srv.URL+"/report?id=dangling-token-1")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
	if got := errBody(t, body); got != "Analysis not found" {
		t.Errorf("Expected analysis-not-found message, got %q", got)
	}
}

func saveRecord(t *testing.T, e *env, headers map[string]string) domanalyses.Analysis {
	t.Helper()
	resp, body := postJSON(t, e.srv.URL+"/analyses", map[string]any{
		"fileName":          "clip.mp4",
		"fileType":          "video",
		"fileHash":          "sha256:abc123",
		"authenticityScore": 42,
		"status":            "suspicious",
		"aiExplanation":     "odd artifacts",
		"detectedSignals":   []string{"Lighting inconsistencies across frames"},
		"confidenceLevel":   88,
	}, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Save expected 200, got %d: %s", resp.StatusCode, body)
	}
	var a domanalyses.Analysis
	if err := json.Unmarshal(body, &a); err != nil {
		t.Fatalf("Bad save response: %v", err)
	}
	return a
}

func issueToken(t *testing.T, e *env, analysisID domanalyses.AnalysisID) domreports.Report {
	t.Helper()
	resp, body := postJSON(t, e.srv.URL+"/reports", map[string]string{
		"analysisId": string(analysisID),
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Issue expected 200, got %d: %s", resp.StatusCode, body)
	}
	var rep domreports.Report
	if err := json.Unmarshal(body, &rep); err != nil {
		t.Fatalf("Bad issue response: %v", err)
	}
	return rep
}

func TestSaveAssignsIDAndTimestamp(t *testing.T) {
	e := newEnv(t)

	a := saveRecord(t, e, nil)
	if a.ID == "" {
		t.Error("Expected assigned id")
	}
	if a.CreatedAt.IsZero() {
		t.Error("Expected assigned creation time")
	}
	if a.UserID != "" {
		t.Errorf("Anonymous save should have no identity, got %q", a.UserID)
	}
}

func TestSaveAttachesIdentity(t *testing.T) {
	e := newEnv(t)

	a := saveRecord(t, e, map[string]string{"Authorization": "Bearer test-key"})
	if a.UserID != "user-7" {
		t.Errorf("Expected identity user-7, got %q", a.UserID)
	}
}

func TestIssueUnknownAnalysis(t *testing.T) {
	e := newEnv(t)

	resp, body := postJSON(t, e.srv.URL+"/reports", map[string]string{"analysisId": "missing"}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", resp.StatusCode)
	}
	if got := errBody(t, body); got != "Analysis not found" {
		t.Errorf("Expected analysis-not-found message, got %q", got)
	}
}

func TestIssueYieldsDistinctTokens(t *testing.T) {
	e := newEnv(t)
	a := saveRecord(t, e, nil)

	first := issueToken(t, e, a.ID)
	second := issueToken(t, e, a.ID)
	if first.Token == second.Token {
		t.Errorf("Expected distinct tokens, both were %q", first.Token)
	}
	if first.ViewCount != 0 || second.ViewCount != 0 {
		t.Error("Fresh reports should start at zero views")
	}
}

func TestEndToEndShareFlow(t *testing.T) {
	e := newEnv(t)

	saved := saveRecord(t, e, nil)
	rep := issueToken(t, e, saved.ID)

	resp, body := getJSON(t, e.srv.URL+"/report?id="+string(rep.Token))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Resolve expected 200, got %d: %s", resp.StatusCode, body)
	}
	var got domanalyses.Analysis
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("Bad resolve body: %v", err)
	}
	if got.ID != saved.ID || got.Status != saved.Status || got.Score != saved.Score {
		t.Errorf("Resolved record differs from saved: %+v vs %+v", got, saved)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("Timestamp should come from stored creation time")
	}
	if n := e.reports.views(rep.Token); n != 1 {
		t.Errorf("Expected view_count 1, got %d", n)
	}

	// resolving again returns the same record but bumps the counter
	_, body2 := getJSON(t, e.srv.URL+"/report?id="+string(rep.Token))
	var got2 domanalyses.Analysis
	json.Unmarshal(body2, &got2)
	if got2.ID != got.ID {
		t.Errorf("Resolve should be idempotent on record fields")
	}
	if n := e.reports.views(rep.Token); n != 2 {
		t.Errorf("Expected view_count 2, got %d", n)
	}
}

func TestConcurrentResolutionsCountExactly(t *testing.T) {
	e := newEnv(t)
	saved := saveRecord(t, e, nil)
	rep := issueToken(t, e, saved.ID)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(e.srv.URL + "/report?id=" + string(rep.Token))
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("Concurrent resolve failed: %v", err)
	}

	if got := e.reports.views(rep.Token); got != n {
		t.Errorf("Expected exactly %d views, got %d (lost updates)", n, got)
	}
}

func TestDemoFixtures(t *testing.T) {
	e := newEnv(t)

	for kind, wantStatus := range map[string]domanalyses.Status{
		"fake": domanalyses.StatusFake,
		"real": domanalyses.StatusSafe,
	} {
		resp, body := getJSON(t, e.srv.URL+"/demo/"+kind)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("demo/%s expected 200, got %d", kind, resp.StatusCode)
		}
		var a domanalyses.Analysis
		if err := json.Unmarshal(body, &a); err != nil {
			t.Fatalf("Bad demo body: %v", err)
		}
		if a.Status != wantStatus {
			t.Errorf("demo/%s status = %q, want %q", kind, a.Status, wantStatus)
		}
		if err := a.Validate(); err != nil {
			t.Errorf("demo/%s fixture invalid: %v", kind, err)
		}
	}
}
