package tips

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Sentinel errors for store construction.
var (
	ErrQueuePathRequired   = errors.New("tips: QueuePath is required")
	ErrCuratedPathRequired = errors.New("tips: CuratedPath is required")
)

// Submission is one pending observation in the queue.
type Submission struct {
	Category     string   `json:"category"`
	Severity     string   `json:"severity"`
	Triggers     []string `json:"triggers"`
	Problem      string   `json:"problem"`
	Solution     string   `json:"solution"`
	ErrorMessage string   `json:"error_message,omitempty"`
	JSXContext   string   `json:"jsx_context,omitempty"`
}

// Entry is one curated tip. ID is a slug derived from the problem text,
// unique within the curated file.
type Entry struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Severity   string   `json:"severity"`
	Triggers   []string `json:"triggers"`
	Problem    string   `json:"problem"`
	Solution   string   `json:"solution"`
	Added      string   `json:"added"`
	Source     string   `json:"source"`
	ExampleBad string   `json:"example_bad,omitempty"`
}

type curatedFile struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Decision is a reviewer's verdict on one submission.
type Decision int

const (
	// Skip keeps the submission in the queue.
	Skip Decision = iota
	// Approve promotes the submission to the curated store.
	Approve
	// Reject drops the submission.
	Reject
	// Quit stops the review; this and all later submissions stay
	// queued.
	Quit
)

// Stats summarises one review pass.
type Stats struct {
	Approved int
	Rejected int
	Pending  int
}

// Config holds the store's file locations.
type Config struct {
	// QueuePath is the pending JSON lines file.
	QueuePath string

	// CuratedPath is the curated JSON file approved tips land in.
	CuratedPath string

	// Logger for queue activity. Nil disables logging.
	Logger *zerolog.Logger
}

// Store reads and writes the queue and curated files.
type Store struct {
	queuePath   string
	curatedPath string
	logger      zerolog.Logger
}

// NewStore validates cfg and returns a store. Neither file needs to
// exist yet.
func NewStore(cfg Config) (*Store, error) {
	if cfg.QueuePath == "" {
		return nil, ErrQueuePathRequired
	}
	if cfg.CuratedPath == "" {
		return nil, ErrCuratedPathRequired
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Store{
		queuePath:   cfg.QueuePath,
		curatedPath: cfg.CuratedPath,
		logger:      logger,
	}, nil
}

// Submit appends one submission to the queue.
func (s *Store) Submit(sub Submission) error {
	if strings.TrimSpace(sub.Problem) == "" {
		return errors.New("tips: submission problem is required")
	}
	if strings.TrimSpace(sub.Solution) == "" {
		return errors.New("tips: submission solution is required")
	}

	line, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("tips: encoding submission: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.queuePath), 0o755); err != nil {
		return fmt.Errorf("tips: creating queue directory: %w", err)
	}

	f, err := os.OpenFile(s.queuePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("tips: opening queue: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("tips: appending submission: %w", err)
	}
	s.logger.Debug().Str("problem", sub.Problem).Msg("submission queued")
	return nil
}

// Pending returns the parseable submissions currently queued. Malformed
// lines are counted but left in the file.
func (s *Store) Pending() ([]Submission, int, error) {
	lines, err := s.queueLines()
	if err != nil {
		return nil, 0, err
	}

	var subs []Submission
	invalid := 0
	for _, line := range lines {
		var sub Submission
		if err := json.Unmarshal([]byte(line), &sub); err != nil {
			invalid++
			continue
		}
		subs = append(subs, sub)
	}
	return subs, invalid, nil
}

// Curated returns the curated entries. A missing or malformed curated
// file reads as empty.
func (s *Store) Curated() ([]Entry, error) {
	file, err := s.loadCurated()
	if err != nil {
		return nil, err
	}
	return file.Entries, nil
}

// Review walks the queue in order, calling decide for each parseable
// submission. Approved submissions are promoted to the curated file;
// rejected ones are dropped; skipped, malformed, and post-Quit lines
// stay queued. Both files are rewritten at the end of the pass.
func (s *Store) Review(decide func(index int, sub Submission) Decision) (Stats, error) {
	lines, err := s.queueLines()
	if err != nil {
		return Stats{}, err
	}
	curated, err := s.loadCurated()
	if err != nil {
		return Stats{}, err
	}

	existing := make(map[string]bool, len(curated.Entries))
	for _, e := range curated.Entries {
		existing[e.ID] = true
	}

	var stats Stats
	var kept []string
	quit := false
	for i, line := range lines {
		if quit {
			kept = append(kept, line)
			continue
		}

		var sub Submission
		if err := json.Unmarshal([]byte(line), &sub); err != nil {
			s.logger.Warn().Int("line", i+1).Msg("invalid submission kept in queue")
			kept = append(kept, line)
			continue
		}

		switch decide(i+1, sub) {
		case Quit:
			quit = true
			kept = append(kept, line)
		case Reject:
			stats.Rejected++
		case Approve:
			entry, ok := promote(sub, existing)
			if !ok {
				// Missing required fields; the reviewer sees it again
				// next pass.
				kept = append(kept, line)
				continue
			}
			existing[entry.ID] = true
			curated.Entries = append(curated.Entries, entry)
			stats.Approved++
		default:
			kept = append(kept, line)
		}
	}
	stats.Pending = len(kept)

	if err := s.writeCurated(curated); err != nil {
		return stats, err
	}
	if err := s.writeQueue(kept); err != nil {
		return stats, err
	}
	s.logger.Info().
		Int("approved", stats.Approved).
		Int("rejected", stats.Rejected).
		Int("pending", stats.Pending).
		Msg("review complete")
	return stats, nil
}

// promote converts an approved submission into a curated entry.
// Returns false when required fields are missing.
func promote(sub Submission, existing map[string]bool) (Entry, bool) {
	problem := strings.TrimSpace(sub.Problem)
	solution := strings.TrimSpace(sub.Solution)
	var triggers []string
	for _, t := range sub.Triggers {
		if t = strings.TrimSpace(t); t != "" {
			triggers = append(triggers, t)
		}
	}
	if problem == "" || solution == "" || len(triggers) == 0 {
		return Entry{}, false
	}

	category := sub.Category
	if category == "" {
		category = "extendscript"
	}
	severity := sub.Severity
	if severity == "" {
		severity = "warning"
	}

	return Entry{
		ID:         uniqueID(truncate(slugify(problem), 64), existing),
		Category:   category,
		Severity:   severity,
		Triggers:   triggers,
		Problem:    problem,
		Solution:   solution,
		Added:      time.Now().Format("2006-01-02"),
		Source:     "auto-submission",
		ExampleBad: sub.JSXContext,
	}, true
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(text string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(text), "-"), "-")
	if slug == "" {
		return "learning"
	}
	return slug
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func uniqueID(base string, existing map[string]bool) string {
	if !existing[base] {
		return base
	}
	for i := 2; ; i++ {
		id := fmt.Sprintf("%s-%d", base, i)
		if !existing[id] {
			return id
		}
	}
}

func (s *Store) queueLines() ([]string, error) {
	data, err := os.ReadFile(s.queuePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tips: reading queue: %w", err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (s *Store) loadCurated() (curatedFile, error) {
	data, err := os.ReadFile(s.curatedPath)
	if errors.Is(err, os.ErrNotExist) {
		return curatedFile{Version: 1, Entries: []Entry{}}, nil
	}
	if err != nil {
		return curatedFile{}, fmt.Errorf("tips: reading curated file: %w", err)
	}

	var file curatedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return curatedFile{Version: 1, Entries: []Entry{}}, nil
	}
	if file.Version == 0 {
		file.Version = 1
	}
	if file.Entries == nil {
		file.Entries = []Entry{}
	}
	return file, nil
}

func (s *Store) writeCurated(file curatedFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("tips: encoding curated file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.curatedPath), 0o755); err != nil {
		return fmt.Errorf("tips: creating curated directory: %w", err)
	}
	if err := os.WriteFile(s.curatedPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("tips: writing curated file: %w", err)
	}
	return nil
}

func (s *Store) writeQueue(lines []string) error {
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.MkdirAll(filepath.Dir(s.queuePath), 0o755); err != nil {
		return fmt.Errorf("tips: creating queue directory: %w", err)
	}
	if err := os.WriteFile(s.queuePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("tips: writing queue: %w", err)
	}
	return nil
}
