package model

import "time"

// AnnouncementStatus tracks the analysis lifecycle of an announcement
type AnnouncementStatus string

const (
	StatusPending   AnnouncementStatus = "pending"   // Ingested, not yet analyzed
	StatusAnalyzing AnnouncementStatus = "analyzing" // Analysis in progress
	StatusAnalyzed  AnnouncementStatus = "analyzed"  // Score and summary available
	StatusFailed    AnnouncementStatus = "failed"    // Last analysis attempt errored
)

// Announcement represents an official corporate announcement under scrutiny.
// Identity is the source PDF URL when present, otherwise the content hash.
type Announcement struct {
	ID               int64              `json:"id" yaml:"id" gorm:"primaryKey;autoIncrement"`
	CompanyName      string             `json:"company_name" yaml:"company_name" gorm:"index"`
	CompanySymbol    string             `json:"company_symbol" yaml:"company_symbol" gorm:"index"`
	Title            string             `json:"title" yaml:"title"`
	AnnouncementDate time.Time          `json:"announcement_date" yaml:"announcement_date" gorm:"index"`
	PDFURL           string             `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
	ContentHash      string             `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	StoragePath      string             `json:"storage_path,omitempty" yaml:"storage_path,omitempty"`
	FullText         string             `json:"full_text,omitempty" yaml:"full_text,omitempty" gorm:"type:text"`
	Status           AnnouncementStatus `json:"status" yaml:"status" gorm:"index;default:pending"`

	// CredibilityScore is non-nil iff Status == StatusAnalyzed.
	CredibilityScore *float64         `json:"credibility_score,omitempty" yaml:"credibility_score,omitempty"`
	Summary          *AnalysisSummary `json:"analysis_summary,omitempty" yaml:"analysis_summary,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

// Identity returns the stable identity key for deduplication
func (a *Announcement) Identity() string {
	if a.PDFURL != "" {
		return a.PDFURL
	}
	return a.ContentHash
}

// CompanyFinancial holds the last-known financial baseline for a company,
// refreshed by an external periodic job and read here for anomaly checks.
type CompanyFinancial struct {
	CompanySymbol    string   `json:"company_symbol" yaml:"company_symbol" gorm:"primaryKey"`
	CompanyName      string   `json:"company_name" yaml:"company_name"`
	RevenueCr        *float64 `json:"last_quarter_revenue_cr,omitempty" yaml:"last_quarter_revenue_cr,omitempty"`
	ProfitCr         *float64 `json:"last_quarter_profit_cr,omitempty" yaml:"last_quarter_profit_cr,omitempty"`
	MarketCapCr      *float64 `json:"market_cap_cr,omitempty" yaml:"market_cap_cr,omitempty"`
	PERatio          *float64 `json:"pe_ratio,omitempty" yaml:"pe_ratio,omitempty"`
	RevenueGrowthPct *float64 `json:"revenue_growth_pct,omitempty" yaml:"revenue_growth_pct,omitempty"`

	LastUpdated time.Time `json:"last_updated" yaml:"-"`
}

// Stats is the aggregate view over the announcement store
type Stats struct {
	Total                   int     `json:"total"`
	Analyzed                int     `json:"analyzed"`
	Pending                 int     `json:"pending"`
	Failed                  int     `json:"failed"`
	TotalCompanies          int     `json:"total_companies"`
	AverageCredibilityScore float64 `json:"average_credibility_score"`
}
