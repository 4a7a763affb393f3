// Package domain defines the workout journal: entries, edits and the session
// that owns the entry collection.
package domain

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"example.com/workoutlog/internal/observability"
)

// EntryStore captures the persistence boundary for the entry collection.
type EntryStore interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// ParseResult is the outcome of parsing one piece of freeform text.
type ParseResult struct {
	Entries []Entry
	Clauses int
}

// Parser turns freeform text into entries.
type Parser interface {
	Analyze(text string) ParseResult
	Canonicalize(phrase string) string
}

// ChangeType names the kind of mutation applied to the journal.
type ChangeType string

const (
	ChangeLogged  ChangeType = "entry.logged"
	ChangeEdited  ChangeType = "entry.edited"
	ChangeDeleted ChangeType = "entry.deleted"
)

// Change describes one mutation for downstream consumers.
type Change struct {
	Type       ChangeType
	Entry      Entry
	OccurredAt time.Time
}

// Publisher forwards journal changes after they have been saved.
type Publisher interface {
	Publish(ctx context.Context, changes ...Change) error
}

// NoopPublisher drops every change.
type NoopPublisher struct{}

// Publish performs no action.
func (NoopPublisher) Publish(context.Context, ...Change) error { return nil }

// Option configures optional behaviour for the Service.
type Option func(*Service)

// WithPublisher sets the change publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLocation sets the zone used to bucket entries into calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger overrides the logger used to report publish failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the clock used to stamp change events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service owns the entry collection for a session. Every mutation is saved
// before it becomes visible.
type Service struct {
	mu        sync.RWMutex
	entries   []Entry
	store     EntryStore
	parser    Parser
	publisher Publisher
	loc       *time.Location
	now       func() time.Time
	logger    *log.Logger
}

// NewService constructs a Service with an empty collection. Call Load to read
// the persisted entries.
func NewService(store EntryStore, parser Parser, opts ...Option) *Service {
	s := &Service{
		store:     store,
		parser:    parser,
		publisher: NoopPublisher{},
		loc:       time.Local,
		now:       time.Now,
		logger:    log.New(log.Writer(), "[journal] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one.
func (s *Service) Load(ctx context.Context) error {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	observability.RecordJournalSize(len(entries))
	return nil
}

// Location returns the zone used for calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the current instant in the journal's zone.
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// LogText parses text and appends the resulting entries. An empty result
// means nothing could be parsed and is not an error.
func (s *Service) LogText(ctx context.Context, text string) ([]Entry, error) {
	result := s.parser.Analyze(text)
	observability.RecordParse(result.Clauses, len(result.Entries))
	if len(result.Entries) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	next := make([]Entry, 0, len(s.entries)+len(result.Entries))
	next = append(next, s.entries...)
	next = append(next, result.Entries...)
	if err := s.store.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("save entries: %w", err)
	}
	s.entries = next
	s.mu.Unlock()

	observability.RecordJournalSize(len(next))
	observability.RecordEntryLogged(result.Entries[len(result.Entries)-1].Timestamp)

	changes := make([]Change, 0, len(result.Entries))
	for _, entry := range result.Entries {
		changes = append(changes, Change{Type: ChangeLogged, Entry: entry, OccurredAt: s.now().UTC()})
	}
	s.publish(ctx, changes...)
	return result.Entries, nil
}

// Entries returns a copy of the whole collection in insertion order.
func (s *Service) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Get returns the entry with id.
func (s *Service) Get(id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if index := indexOf(s.entries, id); index >= 0 {
		return s.entries[index], nil
	}
	return Entry{}, ErrEntryNotFound
}

// EntriesForDay returns the entries logged on day (YYYY-MM-DD), oldest first.
func (s *Service) EntriesForDay(day string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0)
	for _, entry := range s.entries {
		if DayKey(entry.Timestamp, s.loc) == day {
			out = append(out, entry)
		}
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return out
}

// Days lists the calendar days that have entries, newest first.
func (s *Service) Days() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	days := make([]string, 0)
	for _, entry := range s.entries {
		day := DayKey(entry.Timestamp, s.loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	slices.Sort(days)
	slices.Reverse(days)
	return days
}

// EditEntry overwrites the editable fields of the entry with id. The activity
// is canonicalized the same way parsed activities are.
func (s *Service) EditEntry(ctx context.Context, id string, edit EntryEdit) (Entry, error) {
	edit.Activity = s.parser.Canonicalize(strings.TrimSpace(edit.Activity))
	if err := edit.Validate(); err != nil {
		observability.RecordEdit("invalid")
		return Entry{}, err
	}

	s.mu.Lock()
	next, ok := ApplyEdit(s.entries, id, edit)
	if !ok {
		s.mu.Unlock()
		observability.RecordEdit("not_found")
		return Entry{}, ErrEntryNotFound
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return Entry{}, fmt.Errorf("save entries: %w", err)
	}
	s.entries = next
	updated := next[indexOf(next, id)]
	s.mu.Unlock()

	observability.RecordEdit("applied")
	s.publish(ctx, Change{Type: ChangeEdited, Entry: updated, OccurredAt: s.now().UTC()})
	return updated, nil
}

// DeleteEntry removes the entry with id.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	removed, err := s.lockedGet(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	next, _ := RemoveEntry(s.entries, id)
	if err := s.store.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("save entries: %w", err)
	}
	s.entries = next
	s.mu.Unlock()

	observability.RecordJournalSize(len(next))
	s.publish(ctx, Change{Type: ChangeDeleted, Entry: removed, OccurredAt: s.now().UTC()})
	return nil
}

func (s *Service) lockedGet(id string) (Entry, error) {
	if index := indexOf(s.entries, id); index >= 0 {
		return s.entries[index], nil
	}
	return Entry{}, ErrEntryNotFound
}

func (s *Service) publish(ctx context.Context, changes ...Change) {
	if err := s.publisher.Publish(ctx, changes...); err != nil {
		observability.RecordPublishError()
		s.logger.Printf("publish %d change(s) failed: %v", len(changes), err)
	}
}
