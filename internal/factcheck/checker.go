package factcheck

import (
	"context"
	"fmt"

	"github.com/credlens/credlens/internal/anomaly"
	"github.com/credlens/credlens/internal/extract"
	"github.com/credlens/credlens/internal/index"
	"github.com/credlens/credlens/internal/model"
)

// State tracks a fact-check request through its phases. Requests are
// ephemeral: nothing here persists, so caller cancellation needs no
// rollback.
type State string

const (
	StateReceived         State = "received"
	StateClaimsExtracted  State = "claims_extracted"
	StateEvidenceGathered State = "evidence_gathered"
	StateClassified       State = "classified" // Terminal
	StateFailed           State = "failed"     // Terminal, unreadable input only
)

// Classification thresholds over the best evidence similarity
const (
	verifiedThreshold = 0.70
	partialThreshold  = 0.40
)

// maxEvidence bounds the evidence list returned to the caller
const maxEvidence = 5

// Request carries user-submitted content. At least one of Text or
// FileBytes must be present.
type Request struct {
	Text      string
	FileName  string
	FileBytes []byte
}

// Response is the fact-check outcome plus the terminal request state
type Response struct {
	model.FactCheckResult
	State State `json:"state"`
}

// Checker verifies user content against the announcement index
type Checker struct {
	extractor *extract.ClaimExtractor
	index     *index.Index
	anomalies *anomaly.Detector
}

// NewChecker wires a checker over the given collaborators
func NewChecker(extractor *extract.ClaimExtractor, ix *index.Index, anomalies *anomaly.Detector) *Checker {
	return &Checker{
		extractor: extractor,
		index:     ix,
		anomalies: anomalies,
	}
}

// Check runs the request through the state machine:
// Received -> ClaimsExtracted -> EvidenceGathered -> Classified,
// or Failed when the input cannot be read at all.
func (c *Checker) Check(ctx context.Context, req Request) (Response, error) {
	resp := Response{State: StateReceived}

	content, claims, err := c.extractClaims(req)
	if err != nil {
		resp.State = StateFailed
		return resp, err
	}
	resp.State = StateClaimsExtracted
	resp.TotalClaims = len(claims.Claims)

	if err := ctx.Err(); err != nil {
		resp.State = StateFailed
		return resp, err
	}

	companyHint := ""
	if symbols := claims.Symbols(); len(symbols) > 0 {
		companyHint = symbols[0]
	}

	matches := c.index.Search(content, companyHint)
	resp.State = StateEvidenceGathered

	resp.Status, resp.ConfidenceScore = classify(matches)
	resp.Evidence = evidenceRefs(matches)
	resp.Anomalies = c.historyCheck(claims, companyHint)
	resp.Recommendations = recommendations(resp.Status, resp.ConfidenceScore)
	resp.State = StateClassified

	return resp, nil
}

// extractClaims resolves the checkable content and extracts claims from it.
// File content wins over pasted text when both are present.
func (c *Checker) extractClaims(req Request) (string, model.ClaimSet, error) {
	if req.Text == "" && len(req.FileBytes) == 0 {
		return "", model.ClaimSet{}, fmt.Errorf("%w: either text content or a file must be provided", model.ErrInvalidInput)
	}

	if len(req.FileBytes) > 0 {
		content, err := extract.TextFromFile(req.FileName, req.FileBytes)
		if err != nil {
			return "", model.ClaimSet{}, err
		}
		set, err := c.extractor.FromFile(req.FileName, req.FileBytes)
		if err != nil {
			return "", model.ClaimSet{}, err
		}
		return content, set, nil
	}

	return req.Text, c.extractor.FromText(req.Text), nil
}

// classify maps the best similarity onto the verification outcome.
// Confidence equals that similarity, 0 when no evidence at all.
func classify(matches []index.Match) (model.VerificationStatus, float64) {
	if len(matches) == 0 {
		return model.Unverified, 0
	}
	s := matches[0].Similarity
	switch {
	case s >= verifiedThreshold:
		return model.VerifiedAuthentic, s
	case s >= partialThreshold:
		return model.PartiallyVerified, s
	case s > 0:
		return model.PotentiallyMisleading, s
	default:
		return model.Unverified, 0
	}
}

func evidenceRefs(matches []index.Match) []model.EvidenceRef {
	var refs []model.EvidenceRef
	for i, m := range matches {
		if i >= maxEvidence {
			break
		}
		refs = append(refs, model.EvidenceRef{
			AnnouncementID:   m.Announcement.ID,
			CompanyName:      m.Announcement.CompanyName,
			CompanySymbol:    m.Announcement.CompanySymbol,
			Title:            m.Announcement.Title,
			AnnouncementDate: m.Announcement.AnnouncementDate,
			Similarity:       m.Similarity,
		})
	}
	return refs
}

// historyCheck runs the anomaly detector for the hinted company. Whether
// content is consistent with history is independent of whether it matches
// an official announcement; both are reported.
func (c *Checker) historyCheck(claims model.ClaimSet, companyHint string) []model.AnomalyFinding {
	if companyHint == "" {
		return nil
	}
	baseline, ok := c.index.Financial(companyHint)
	if !ok {
		return nil
	}
	return c.anomalies.Detect(claims, &baseline)
}

// recommendations are fixed templates per outcome, keeping the response
// reproducible
func recommendations(status model.VerificationStatus, confidence float64) []string {
	var recs []string
	switch status {
	case model.VerifiedAuthentic:
		recs = append(recs,
			"Content matches official announcements",
			"High confidence in authenticity",
		)
	case model.PartiallyVerified:
		recs = append(recs,
			"Some claims match official sources, but verification is incomplete",
			"Cross-reference with additional official sources",
		)
	case model.PotentiallyMisleading:
		recs = append(recs,
			"Content does not match official announcements",
			"High risk of misinformation",
			"Check official company filings before acting on this content",
		)
	default:
		recs = append(recs,
			"No matching announcements found",
			"Check official company websites and exchange filings",
		)
	}
	if confidence > 0 && confidence < 0.5 {
		recs = append(recs, "Low confidence score: exercise caution")
	}
	return recs
}
