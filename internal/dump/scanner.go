package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dbsmedya/dumpmigrate/internal/logger"
)

// DefaultSchema is the schema of the tables in a stock dump.
const DefaultSchema = "dbo"

const defaultMaxLineBytes = 16 * 1024 * 1024

// Options configures a Scanner.
type Options struct {
	Schema       string     // schema of the known tables, DefaultSchema if empty
	Escape       EscapeMode // quote escaping convention of the dump
	MaxLineBytes int        // longest accepted physical line
	Logger       *logger.Logger
}

// Scanner turns a dump into a Result. It holds no per-scan state and may be
// reused.
type Scanner struct {
	classifier   *classifier
	escape       EscapeMode
	maxLineBytes int
	logger       *logger.Logger
}

// NewScanner creates a Scanner from opts.
func NewScanner(opts Options) *Scanner {
	if opts.Schema == "" {
		opts.Schema = DefaultSchema
	}
	if opts.MaxLineBytes <= 0 {
		opts.MaxLineBytes = defaultMaxLineBytes
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	return &Scanner{
		classifier:   newClassifier(opts.Schema),
		escape:       opts.Escape,
		maxLineBytes: opts.MaxLineBytes,
		logger:       opts.Logger,
	}
}

// ParseFile scans the dump stored at path.
func (s *Scanner) ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dump: %w", err)
	}
	defer f.Close()

	return s.Parse(f)
}

// Parse scans r to the end and returns the recovered records. Only a read
// error fails the scan; statements that cannot be used are skipped and
// counted in Result.Stats.
func (s *Scanner) Parse(r io.Reader) (*Result, error) {
	result := NewResult()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, s.maxLineBytes)), s.maxLineBytes)

	// nil while idle
	var current *statement
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		switch {
		case isInsertLine(line):
			if current != nil {
				result.Stats.Unterminated++
			}
			current = newStatement(s.classifier.classify(line), line, lineNo, s.escape)
		case current != nil:
			current.appendLine(line)
		default:
			continue
		}

		if current.closed() {
			s.dispatch(result, current)
			current = nil
		}
	}

	result.Stats.Lines = lineNo
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dump at line %d: %w", lineNo+1, err)
	}

	if current != nil {
		result.Stats.Unterminated++
	}

	return result, nil
}

// dispatch splits and coerces a closed statement.
func (s *Scanner) dispatch(result *Result, st *statement) {
	result.Stats.Statements++

	inner, ok := st.tuple()
	if !ok {
		result.Stats.Malformed++
		s.logger.WithLine(st.startLine).Debugw("Statement has no value tuple", "entity", st.entity)
		return
	}

	if st.entity == Other {
		result.Stats.Unknown++
		return
	}

	rec, err := Coerce(st.entity, SplitValues(inner, s.escape), s.escape)
	if err != nil {
		result.Stats.Failed[st.entity]++
		s.logger.WithEntity(string(st.entity)).WithLine(st.startLine).
			Warnw("Skipping record", "error", err)
		return
	}

	result.Add(rec)
}
