package complaints

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/complaints/internal/logger"
)

// DefaultSentinel is the input line that ends a session.
const DefaultSentinel = "1"

// Prompt is written before each line of input is read.
const Prompt = "Enter your complaint (or type '1' to stop): "

// State is a step of the interactive loop.
type State int

const (
	StateIdle State = iota
	StateReadInput
	StateClassify
	StateExit
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReadInput:
		return "read-input"
	case StateClassify:
		return "classify"
	case StateExit:
		return "exit"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// Session runs the interactive classify loop over a reader and writer.
type Session struct {
	classifier Classifier
	sentiment  *SentimentAnalyzer
	evaluator  Evaluator
	in         *bufio.Reader
	out        io.Writer
	sentinel   string
	id         string
	state      State
}

// SessionOpt configures a Session.
type SessionOpt func(*Session)

// WithSentinel changes the line that ends the session.
func WithSentinel(sentinel string) SessionOpt {
	return func(s *Session) {
		if sentinel != "" {
			s.sentinel = sentinel
		}
	}
}

// WithSessionID sets the identifier used in log lines.
func WithSessionID(id string) SessionOpt {
	return func(s *Session) {
		s.id = id
	}
}

// NewSession wires the loop's collaborators.
func NewSession(classifier Classifier, sentiment *SentimentAnalyzer, evaluator Evaluator,
	in io.Reader, out io.Writer, opts ...SessionOpt) *Session {
	s := &Session{
		classifier: classifier,
		sentiment:  sentiment,
		evaluator:  evaluator,
		in:         bufio.NewReader(in),
		out:        out,
		sentinel:   DefaultSentinel,
		state:      StateIdle,
	}
	for _, applyOpt := range opts {
		applyOpt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run reads complaints until the sentinel line or end of input. Errors for a
// single complaint are printed and the loop continues; only read failures
// and context cancellation end Run with an error.
func (s *Session) Run(ctx context.Context) error {
	logger.Info("session %s started", s.id)
	s.state = StateReadInput

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(s.out, Prompt)
		line, err := s.in.ReadString('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return fmt.Errorf("read input: %w", err)
		}
		text := strings.TrimRight(line, "\r\n")

		if text == s.sentinel || (eof && text == "") {
			if eof && text == "" {
				fmt.Fprintln(s.out)
			}
			s.exit()
			return nil
		}

		s.state = StateClassify
		s.classify(ctx, text)

		if eof {
			s.exit()
			return nil
		}
		s.state = StateReadInput
	}
}

func (s *Session) exit() {
	s.state = StateExit
	fmt.Fprintln(s.out, "Exiting...")
	logger.Info("session %s ended", s.id)
}

func (s *Session) classify(ctx context.Context, text string) {
	category, err := s.classifier.Classify(text)
	if err != nil {
		s.fail("classify", err)
		return
	}
	sentiment := s.sentiment.Classify(text)
	logger.Debug("session %s: %q -> %s (%s)", s.id, text, category, sentiment)

	fmt.Fprintln(s.out, "Predicted complaint type:", category)
	fmt.Fprintln(s.out, "Sentiment:", sentiment)

	m, err := s.evaluator.Evaluate(ctx)
	if err != nil {
		s.fail("evaluate", err)
		return
	}
	fmt.Fprintln(s.out, "Accuracy:", formatMetric(m.Accuracy))
	fmt.Fprintln(s.out, "Precision:", formatMetric(m.Precision))
	fmt.Fprintln(s.out, "Recall:", formatMetric(m.Recall))
	fmt.Fprintln(s.out, "F1-score:", formatMetric(m.F1))
	fmt.Fprintln(s.out, "Classification Report:")
	fmt.Fprintln(s.out, m.Report.String())
}

func (s *Session) fail(stage string, err error) {
	logger.Warn("session %s: %s failed: %v", s.id, stage, err)
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

// formatMetric prints the shortest exact representation, always with a
// decimal point.
func formatMetric(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
