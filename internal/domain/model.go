package domain

import "time"

// Core domain models used internally. Transport shapes live in the HTTP adapter;
// keep these decoupled where helpful.

// Candidate is a generated, not-yet-verified company suggestion. Ephemeral:
// it either survives enrichment as an EnrichedCompany or is dropped.
type Candidate struct {
	Name   string
	Type   string // free-text category, e.g. "Mining Company"
	Region string // coarse geography, e.g. "Americas"
}

// EnrichedCompany is a candidate augmented with verified brand metadata.
// Created during one enrichment pass; persisted if it survives dedup.
type EnrichedCompany struct {
	Name         string
	Domain       *string
	Description  *string
	Website      *string
	LogoURL      *string
	PrimaryColor *string
	Email        *string
	Verified     bool // brand profile claimed/confirmed by the company itself
	CompanyType  string
	Region       string
	QualityScore int // 0..100, see QualityScore
}

// Participant is the durable directory record. Never mutated or deleted by the
// population pipeline after insertion.
type Participant struct {
	ID          string
	Commodities []string // at least one at creation time
	CreatedAt   time.Time
	EnrichedCompany
}

// RunResult is the final tally of one population run. It is also emitted to the
// logs batch by batch so partial progress stays observable on abort.
type RunResult struct {
	Commodity  string
	Generated  int
	Enriched   int
	Added      int
	Duplicates int
	Failed     int
	Aborted    bool
}
