package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/credlens/credlens/internal/model"
)

// Index is the queryable store of known official announcements and company
// financial baselines. Reads are concurrent; all writes funnel through the
// single write lock, so a score and its summary are always observed
// together.
type Index struct {
	mu         sync.RWMutex
	byID       map[int64]*model.Announcement
	byIdentity map[string]int64
	financials map[string]model.CompanyFinancial
	nextID     int64

	store *store // nil when running purely in memory
}

// NewInMemory creates an index without persistence
func NewInMemory() *Index {
	return &Index{
		byID:       make(map[int64]*model.Announcement),
		byIdentity: make(map[string]int64),
		financials: make(map[string]model.CompanyFinancial),
		nextID:     1,
	}
}

// Match pairs an announcement with its similarity to a search query
type Match struct {
	Announcement model.Announcement `json:"announcement"`
	Similarity   float64            `json:"similarity"`
}

// Upsert adds an announcement or supersedes the existing one with the same
// identity (PDF URL or content hash). Announcements are never deleted.
func (ix *Index) Upsert(a model.Announcement) (model.Announcement, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	now := time.Now().UTC()
	if id, ok := ix.byIdentity[a.Identity()]; ok && a.Identity() != "" {
		existing := ix.byID[id]
		a.ID = id
		a.CreatedAt = existing.CreatedAt
		a.UpdatedAt = now
	} else {
		if a.ID == 0 {
			a.ID = ix.nextID
			ix.nextID++
		} else if a.ID >= ix.nextID {
			ix.nextID = a.ID + 1
		}
		a.CreatedAt = now
		a.UpdatedAt = now
	}
	if a.Status == "" {
		a.Status = model.StatusPending
	}

	stored := a
	ix.byID[a.ID] = &stored
	if key := a.Identity(); key != "" {
		ix.byIdentity[key] = a.ID
	}

	if ix.store != nil {
		if err := ix.store.saveAnnouncement(&stored); err != nil {
			return a, fmt.Errorf("persist announcement: %w", err)
		}
	}
	return a, nil
}

// Get returns a copy of the announcement with the given id
func (ix *Index) Get(id int64) (model.Announcement, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	a, ok := ix.byID[id]
	if !ok {
		return model.Announcement{}, model.ErrNotFound
	}
	return *a, nil
}

// FindBySymbol returns all announcements for a company symbol,
// most recent first
func (ix *Index) FindBySymbol(symbol string) []model.Announcement {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []model.Announcement
	for _, a := range ix.byID {
		if strings.EqualFold(a.CompanySymbol, symbol) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AnnouncementDate.After(out[j].AnnouncementDate)
	})
	return out
}

// Search ranks announcements by lexical similarity to the query text.
// Similarity is token-set intersection over union in [0,1]; when companyHint
// matches a candidate's symbol exactly the score gets a fixed +0.15 boost,
// capped at 1.0. Zero matches yield an empty result, never an error.
func (ix *Index) Search(text string, companyHint string) []Match {
	query := tokenize(text)
	if len(query) == 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var matches []Match
	for _, a := range ix.byID {
		s := jaccard(query, tokenize(a.FullText+" "+a.Title))
		if companyHint != "" && strings.EqualFold(a.CompanySymbol, companyHint) {
			s += hintBoost
			if s > 1.0 {
				s = 1.0
			}
		}
		if s > 0 {
			matches = append(matches, Match{Announcement: *a, Similarity: s})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Announcement.AnnouncementDate.After(matches[j].Announcement.AnnouncementDate)
	})
	return matches
}

const hintBoost = 0.15

// MarkAnalyzing flips an announcement into the analyzing state
func (ix *Index) MarkAnalyzing(id int64) error {
	return ix.mutate(id, func(a *model.Announcement) {
		a.Status = model.StatusAnalyzing
	})
}

// ApplyAnalysis records a completed analysis. Score, summary and status
// change under one lock acquisition: no reader ever sees one without
// the others. Re-analysis overwrites; last write wins.
func (ix *Index) ApplyAnalysis(id int64, summary model.AnalysisSummary) error {
	return ix.mutate(id, func(a *model.Announcement) {
		score := summary.CredibilityScore
		s := summary
		a.CredibilityScore = &score
		a.Summary = &s
		a.Status = model.StatusAnalyzed
	})
}

// MarkFailed records a failed analysis attempt. A previously stored score
// and summary stay readable until a later successful re-analysis.
func (ix *Index) MarkFailed(id int64) error {
	return ix.mutate(id, func(a *model.Announcement) {
		a.Status = model.StatusFailed
	})
}

func (ix *Index) mutate(id int64, fn func(*model.Announcement)) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	a, ok := ix.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	fn(a)
	a.UpdatedAt = time.Now().UTC()

	if ix.store != nil {
		if err := ix.store.saveAnnouncement(a); err != nil {
			return fmt.Errorf("persist announcement: %w", err)
		}
	}
	return nil
}

// ListFilter narrows List results
type ListFilter struct {
	Status model.AnnouncementStatus
	Symbol string
	Limit  int
}

// List returns announcements matching the filter, most recent first
func (ix *Index) List(f ListFilter) []model.Announcement {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var out []model.Announcement
	for _, a := range ix.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Symbol != "" && !strings.EqualFold(a.CompanySymbol, f.Symbol) {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AnnouncementDate.After(out[j].AnnouncementDate)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

// Stats aggregates over the whole store
func (ix *Index) Stats() model.Stats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var st model.Stats
	companies := make(map[string]bool)
	var scoreSum float64

	for _, a := range ix.byID {
		st.Total++
		if a.CompanySymbol != "" {
			companies[strings.ToUpper(a.CompanySymbol)] = true
		}
		switch a.Status {
		case model.StatusAnalyzed:
			st.Analyzed++
			if a.CredibilityScore != nil {
				scoreSum += *a.CredibilityScore
			}
		case model.StatusFailed:
			st.Failed++
		default:
			st.Pending++
		}
	}
	st.TotalCompanies = len(companies)
	if st.Analyzed > 0 {
		st.AverageCredibilityScore = scoreSum / float64(st.Analyzed)
	}
	return st
}

// PutFinancial stores or refreshes a company's financial baseline
func (ix *Index) PutFinancial(f model.CompanyFinancial) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	f.CompanySymbol = strings.ToUpper(f.CompanySymbol)
	if f.LastUpdated.IsZero() {
		f.LastUpdated = time.Now().UTC()
	}
	ix.financials[f.CompanySymbol] = f

	if ix.store != nil {
		if err := ix.store.saveFinancial(&f); err != nil {
			return fmt.Errorf("persist financial: %w", err)
		}
	}
	return nil
}

// Financial returns a company's baseline, if known
func (ix *Index) Financial(symbol string) (model.CompanyFinancial, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	f, ok := ix.financials[strings.ToUpper(symbol)]
	return f, ok
}
