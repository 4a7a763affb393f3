// Package parser turns short freeform workout phrases into journal entries.
package parser

import (
	"time"

	"github.com/google/uuid"

	"example.com/workoutlog/internal/catalog"
	"example.com/workoutlog/internal/domain"
)

// Canonicalizer resolves an activity phrase to its canonical name.
type Canonicalizer interface {
	Canonicalize(phrase string) string
}

// Option configures optional behaviour for the Parser.
type Option func(*Parser)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator overrides the entry id source.
func WithIDGenerator(newID func() string) Option {
	return func(p *Parser) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// Parser assembles entries from text using an injected alias index.
type Parser struct {
	index Canonicalizer
	now   func() time.Time
	newID func() string
}

// New constructs a Parser. A nil index behaves like an empty alias index.
func New(index Canonicalizer, opts ...Option) *Parser {
	if index == nil {
		index = catalog.Build(nil)
	}
	p := &Parser{
		index: index,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the entries found in text. An empty result means nothing
// could be understood.
func (p *Parser) Parse(text string) []domain.Entry {
	return p.Analyze(text).Entries
}

// Analyze parses text and also reports how many clauses were seen.
func (p *Parser) Analyze(text string) domain.ParseResult {
	clauses := SplitClauses(Normalize(text))
	result := domain.ParseResult{
		Entries: make([]domain.Entry, 0, len(clauses)),
		Clauses: len(clauses),
	}
	for _, clause := range clauses {
		ex, ok := matchClause(clause)
		if !ok || ex.Amount <= 0 {
			continue
		}
		activity := p.Canonicalize(ex.Activity)
		if activity == "" {
			continue
		}
		result.Entries = append(result.Entries, domain.Entry{
			ID:        p.newID(),
			Activity:  activity,
			Amount:    ex.Amount,
			Unit:      NormalizeUnit(ex.RawUnit),
			Timestamp: p.now().UTC(),
		})
	}
	return result
}

// Canonicalize resolves phrase through the catalog.
func (p *Parser) Canonicalize(phrase string) string {
	return p.index.Canonicalize(phrase)
}
