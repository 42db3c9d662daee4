package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/credlens/credlens/internal/analyze"
	"github.com/credlens/credlens/internal/anomaly"
	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/factcheck"
	"github.com/credlens/credlens/internal/index"
	"github.com/credlens/credlens/internal/ml"
	"github.com/credlens/credlens/internal/model"
	"github.com/credlens/credlens/internal/worker"
)

func newTestServer(t *testing.T) (*Server, *index.Index, *worker.Pool) {
	t.Helper()

	ix := index.NewInMemory()
	for _, a := range []model.Announcement{
		{
			CompanyName:      "Reliance Industries",
			CompanySymbol:    "RELIANCE",
			Title:            "Quarterly results",
			FullText:         "reliance industries reported quarterly results revenue of 1500 crore",
			ContentHash:      "h-rel",
			AnnouncementDate: time.Date(2024, 4, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			CompanyName:      "Tata Consultancy Services",
			CompanySymbol:    "TCS",
			Title:            "Dividend declared",
			FullText:         "tcs board declared an interim dividend today",
			ContentHash:      "h-tcs",
			AnnouncementDate: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		},
	} {
		if _, err := ix.Upsert(a); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	providers := ml.Providers{
		Classifier: ml.NewRuleClassifier(),
		Sentiment:  ml.NewRuleSentiment(),
	}
	cfg := model.DefaultConfig()
	analyzer := analyze.NewAnalyzer(ix, providers, nil, cfg.Scoring)
	checker := factcheck.NewChecker(extract.NewClaimExtractor(nil), ix, anomaly.NewDetector(cfg.Scoring.AnomalyThreshold))

	pool := worker.NewPool(2, analyzer.Analyze)
	pool.Start()
	t.Cleanup(pool.Shutdown)

	srv := New(ix, checker, pool, model.ServerConfig{
		Addr:        ":0",
		AnalyzeWait: time.Second,
	})
	return srv, ix, pool
}

func doRequest(srv *Server, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/healthz", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestListAnnouncementsFiltered(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/api/announcements?symbol=tcs", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Announcements []model.Announcement `json:"announcements"`
		Total         int                  `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || len(resp.Announcements) != 1 {
		t.Fatalf("total = %d, announcements = %d, want 1", resp.Total, len(resp.Announcements))
	}
	if resp.Announcements[0].CompanySymbol != "TCS" {
		t.Errorf("symbol = %q, want TCS", resp.Announcements[0].CompanySymbol)
	}
}

func TestGetAnnouncement(t *testing.T) {
	srv, _, _ := newTestServer(t)

	if w := doRequest(srv, http.MethodGet, "/api/announcements/1", nil, ""); w.Code != http.StatusOK {
		t.Errorf("existing: status = %d, want 200", w.Code)
	}
	if w := doRequest(srv, http.MethodGet, "/api/announcements/999", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("missing: status = %d, want 404", w.Code)
	}
	if w := doRequest(srv, http.MethodGet, "/api/announcements/abc", nil, ""); w.Code != http.StatusBadRequest {
		t.Errorf("malformed: status = %d, want 400", w.Code)
	}
}

func TestAnalyzeEndpointCompletes(t *testing.T) {
	srv, ix, _ := newTestServer(t)

	w := doRequest(srv, http.MethodPost, "/api/announcements/1/analyze", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status model.AnnouncementStatus `json:"status"`
		Score  float64                  `json:"credibility_score"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != model.StatusAnalyzed {
		t.Errorf("status = %q, want analyzed", resp.Status)
	}

	ann, err := ix.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ann.CredibilityScore == nil {
		t.Error("score not persisted")
	}
}

func TestAnalyzeEndpointUnknownID(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := doRequest(srv, http.MethodPost, "/api/announcements/999/analyze", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestAnalyzeEndpointBoundedWait(t *testing.T) {
	srv, _, _ := newTestServer(t)

	// A pool whose single worker never finishes within the wait
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	slow := worker.NewPool(1, func(ctx context.Context, _ int64) (model.AnalysisSummary, error) {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return model.AnalysisSummary{}, ctx.Err()
	})
	slow.Start()
	t.Cleanup(slow.Shutdown)

	srv.pool = slow
	srv.analyzeWait = 20 * time.Millisecond

	w := doRequest(srv, http.MethodPost, "/api/announcements/1/analyze", nil, "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}

	var resp struct {
		Status model.AnnouncementStatus `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != model.StatusAnalyzing {
		t.Errorf("status = %q, want analyzing", resp.Status)
	}
}

func TestFactCheckEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("text_content", "RELIANCE reported quarterly results revenue of 1500 crore"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	mw.Close()

	w := doRequest(srv, http.MethodPost, "/api/fact-check", &body, mw.FormDataContentType())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Status model.VerificationStatus `json:"verification_status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != model.VerifiedAuthentic {
		t.Errorf("status = %q, want %q", resp.Status, model.VerifiedAuthentic)
	}
}

func TestFactCheckEndpointEmptyRequest(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.Close()

	w := doRequest(srv, http.MethodPost, "/api/fact-check", &body, mw.FormDataContentType())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	w := doRequest(srv, http.MethodGet, "/api/stats", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var st model.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Total != 2 {
		t.Errorf("total = %d, want 2", st.Total)
	}
}
