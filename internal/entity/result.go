package entity

import (
	"encoding/json"
	"strings"
)

// Markers used by the generation engine's markdown-like output
const (
	HeadingMarker = "# "
	BulletMarker  = "- "
)

type EntryKind string

const (
	EntryHeading EntryKind = "heading"
	EntryBullet  EntryKind = "bullet"
	EntryText    EntryKind = "text"
)

// Entry is one normalized line of a result section.
// It is stored as a single string carrying its marker: "# x", "- x" or "x".
type Entry struct {
	Kind EntryKind
	Text string
}

func Heading(text string) Entry { return Entry{Kind: EntryHeading, Text: text} }
func Bullet(text string) Entry  { return Entry{Kind: EntryBullet, Text: text} }
func Text(text string) Entry    { return Entry{Kind: EntryText, Text: text} }

// String returns the entry with its marker
func (e Entry) String() string {
	switch e.Kind {
	case EntryHeading:
		return HeadingMarker + e.Text
	case EntryBullet:
		return BulletMarker + e.Text
	default:
		return e.Text
	}
}

// ParseEntry is the inverse of Entry.String
func ParseEntry(s string) Entry {
	switch {
	case strings.HasPrefix(s, HeadingMarker):
		return Heading(s[len(HeadingMarker):])
	case strings.HasPrefix(s, BulletMarker):
		return Bullet(s[len(BulletMarker):])
	default:
		return Text(s)
	}
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = ParseEntry(s)
	return nil
}

// SectionKey is the canonical name of one of the four result sections
type SectionKey string

const (
	SectionCaseStudies     SectionKey = "case_studies"
	SectionFeasibility     SectionKey = "feasibility"
	SectionDevelopmentPlan SectionKey = "development_plan"
	SectionImprovements    SectionKey = "improvements"
)

// SectionKeys lists the result sections in display order
var SectionKeys = []SectionKey{
	SectionCaseStudies,
	SectionFeasibility,
	SectionDevelopmentPlan,
	SectionImprovements,
}

// ResultRecord is the structured analysis produced from the engine output
type ResultRecord struct {
	Summary         string     `json:"summary"`
	CaseStudies     []Entry    `json:"case_studies"`
	Feasibility     []Entry    `json:"feasibility"`
	DevelopmentPlan []Entry    `json:"development_plan"`
	Improvements    []Entry    `json:"improvements"`
	Input           *AnswerMap `json:"input"`
}

// NewResultRecord creates a record with all four sections present and empty
func NewResultRecord(input *AnswerMap) *ResultRecord {
	if input == nil {
		input = NewAnswerMap()
	}
	return &ResultRecord{
		CaseStudies:     []Entry{},
		Feasibility:     []Entry{},
		DevelopmentPlan: []Entry{},
		Improvements:    []Entry{},
		Input:           input,
	}
}

// Section returns the entries stored under key
func (r *ResultRecord) Section(key SectionKey) []Entry {
	switch key {
	case SectionCaseStudies:
		return r.CaseStudies
	case SectionFeasibility:
		return r.Feasibility
	case SectionDevelopmentPlan:
		return r.DevelopmentPlan
	case SectionImprovements:
		return r.Improvements
	default:
		return nil
	}
}

// SetSection replaces the entries stored under key. Unknown keys are ignored.
func (r *ResultRecord) SetSection(key SectionKey, entries []Entry) {
	if entries == nil {
		entries = []Entry{}
	}
	switch key {
	case SectionCaseStudies:
		r.CaseStudies = entries
	case SectionFeasibility:
		r.Feasibility = entries
	case SectionDevelopmentPlan:
		r.DevelopmentPlan = entries
	case SectionImprovements:
		r.Improvements = entries
	}
}

// MarshalJSON keeps every section present as an array, never null
func (r ResultRecord) MarshalJSON() ([]byte, error) {
	type plain ResultRecord
	out := plain(r)
	for _, key := range SectionKeys {
		if (*ResultRecord)(&out).Section(key) == nil {
			(*ResultRecord)(&out).SetSection(key, nil)
		}
	}
	if out.Input == nil {
		out.Input = NewAnswerMap()
	}
	return json.Marshal(out)
}
