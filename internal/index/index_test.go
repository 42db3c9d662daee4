package index

import (
	"errors"
	"testing"
	"time"

	"github.com/credlens/credlens/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, ix *Index) []model.Announcement {
	t.Helper()
	input := []model.Announcement{
		{
			CompanyName:      "ABC Corp",
			CompanySymbol:    "ABC",
			Title:            "Quarterly results",
			AnnouncementDate: date(2024, 3, 10),
			PDFURL:           "https://exchange.example/abc-q4.pdf",
			FullText:         "ABC Corp quarterly revenue rose 20 percent compared to last year",
		},
		{
			CompanyName:      "ABC Corp",
			CompanySymbol:    "ABC",
			Title:            "Dividend declaration",
			AnnouncementDate: date(2024, 1, 5),
			PDFURL:           "https://exchange.example/abc-div.pdf",
			FullText:         "Board of ABC Corp declares interim dividend for shareholders",
		},
		{
			CompanyName:      "XYZ Industries",
			CompanySymbol:    "XYZ",
			Title:            "Plant expansion",
			AnnouncementDate: date(2024, 2, 20),
			PDFURL:           "https://exchange.example/xyz-plant.pdf",
			FullText:         "XYZ Industries commissions new manufacturing plant in Pune",
		},
	}
	var out []model.Announcement
	for _, a := range input {
		stored, err := ix.Upsert(a)
		if err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		out = append(out, stored)
	}
	return out
}

func TestIndex_UpsertSupersedesByIdentity(t *testing.T) {
	ix := NewInMemory()
	seed(t, ix)

	updated, err := ix.Upsert(model.Announcement{
		CompanyName:      "ABC Corp",
		CompanySymbol:    "ABC",
		Title:            "Quarterly results (revised)",
		AnnouncementDate: date(2024, 3, 10),
		PDFURL:           "https://exchange.example/abc-q4.pdf",
		FullText:         "Revised statement",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	if ix.Stats().Total != 3 {
		t.Errorf("Expected re-upsert to supersede, total = %d", ix.Stats().Total)
	}
	got, err := ix.Get(updated.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Quarterly results (revised)" {
		t.Errorf("Expected superseded title, got %q", got.Title)
	}
}

func TestIndex_FindBySymbol(t *testing.T) {
	ix := NewInMemory()
	seed(t, ix)

	abc := ix.FindBySymbol("abc")
	if len(abc) != 2 {
		t.Fatalf("Expected 2 ABC announcements, got %d", len(abc))
	}
	if !abc[0].AnnouncementDate.After(abc[1].AnnouncementDate) {
		t.Error("Expected most recent announcement first")
	}

	if got := ix.FindBySymbol("NOPE"); len(got) != 0 {
		t.Errorf("Expected no results for unknown symbol, got %d", len(got))
	}
}

func TestIndex_SearchRankingAndBoost(t *testing.T) {
	ix := NewInMemory()
	seed(t, ix)

	matches := ix.Search("ABC Corp quarterly revenue rose sharply", "")
	if len(matches) == 0 {
		t.Fatal("Expected matches for overlapping text")
	}
	if matches[0].Announcement.Title != "Quarterly results" {
		t.Errorf("Expected best lexical match first, got %q", matches[0].Announcement.Title)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Similarity > matches[i-1].Similarity {
			t.Error("Expected descending similarity order")
		}
	}

	plain := matches[0].Similarity
	boosted := ix.Search("ABC Corp quarterly revenue rose sharply", "ABC")
	if boosted[0].Similarity <= plain {
		t.Errorf("Expected company-hint boost: %f <= %f", boosted[0].Similarity, plain)
	}
	if boosted[0].Similarity > 1.0 {
		t.Errorf("Expected similarity capped at 1.0, got %f", boosted[0].Similarity)
	}
}

func TestIndex_SearchEmpty(t *testing.T) {
	ix := NewInMemory()

	if got := ix.Search("anything at all", ""); len(got) != 0 {
		t.Errorf("Expected empty result on empty index, got %d", len(got))
	}

	seed(t, ix)
	if got := ix.Search("", "ABC"); len(got) != 0 {
		t.Errorf("Expected empty result for empty query, got %d", len(got))
	}
}

func TestIndex_ApplyAnalysisAtomicity(t *testing.T) {
	ix := NewInMemory()
	stored := seed(t, ix)

	id := stored[0].ID
	summary := model.AnalysisSummary{
		CredibilityScore: 5.5,
		RedFlags:         []model.RedFlag{model.FlagVagueLanguage},
		Deductions: []model.Deduction{
			{Kind: model.DeductionRedFlag, Points: 1.5, Detail: "vague_language"},
		},
		AnalyzedAt: time.Now().UTC(),
	}
	if err := ix.ApplyAnalysis(id, summary); err != nil {
		t.Fatalf("ApplyAnalysis: %v", err)
	}

	got, err := ix.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.StatusAnalyzed {
		t.Errorf("Expected analyzed status, got %s", got.Status)
	}
	// Score and summary always travel together
	if got.CredibilityScore == nil || got.Summary == nil {
		t.Fatal("Expected both score and summary to be set")
	}
	if *got.CredibilityScore != got.Summary.CredibilityScore {
		t.Errorf("Score %f disagrees with summary %f", *got.CredibilityScore, got.Summary.CredibilityScore)
	}
}

func TestIndex_MarkFailedPreservesOldScore(t *testing.T) {
	ix := NewInMemory()
	stored := seed(t, ix)

	id := stored[0].ID
	if err := ix.ApplyAnalysis(id, model.AnalysisSummary{CredibilityScore: 7.0}); err != nil {
		t.Fatalf("ApplyAnalysis: %v", err)
	}
	if err := ix.MarkFailed(id); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	got, _ := ix.Get(id)
	if got.Status != model.StatusFailed {
		t.Errorf("Expected failed status, got %s", got.Status)
	}
	if got.CredibilityScore == nil || *got.CredibilityScore != 7.0 {
		t.Error("Expected previous score to remain readable after failure")
	}
}

func TestIndex_Stats(t *testing.T) {
	ix := NewInMemory()
	stored := seed(t, ix)

	if err := ix.ApplyAnalysis(stored[0].ID, model.AnalysisSummary{CredibilityScore: 8.0}); err != nil {
		t.Fatalf("ApplyAnalysis: %v", err)
	}
	if err := ix.ApplyAnalysis(stored[1].ID, model.AnalysisSummary{CredibilityScore: 4.0}); err != nil {
		t.Fatalf("ApplyAnalysis: %v", err)
	}

	st := ix.Stats()
	if st.Total != 3 || st.Analyzed != 2 || st.Pending != 1 {
		t.Errorf("Unexpected counts: %+v", st)
	}
	if st.TotalCompanies != 2 {
		t.Errorf("Expected 2 companies, got %d", st.TotalCompanies)
	}
	if st.AverageCredibilityScore != 6.0 {
		t.Errorf("Expected average 6.0, got %f", st.AverageCredibilityScore)
	}
}

func TestIndex_Financials(t *testing.T) {
	ix := NewInMemory()

	revenue := 1000.0
	if err := ix.PutFinancial(model.CompanyFinancial{
		CompanySymbol: "abc",
		CompanyName:   "ABC Corp",
		RevenueCr:     &revenue,
	}); err != nil {
		t.Fatalf("PutFinancial: %v", err)
	}

	f, ok := ix.Financial("ABC")
	if !ok {
		t.Fatal("Expected baseline lookup to be case-insensitive")
	}
	if f.RevenueCr == nil || *f.RevenueCr != 1000.0 {
		t.Error("Expected stored revenue baseline")
	}

	if _, ok := ix.Financial("XYZ"); ok {
		t.Error("Expected no baseline for unknown company")
	}
}

func TestIndex_GetNotFound(t *testing.T) {
	ix := NewInMemory()
	if _, err := ix.Get(42); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
