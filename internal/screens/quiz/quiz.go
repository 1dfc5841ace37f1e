package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiq/internal/quiz"
	"github.com/abhisek/lexiq/internal/router"
	"github.com/abhisek/lexiq/internal/screen"
	"github.com/abhisek/lexiq/internal/screens/summary"
	"github.com/abhisek/lexiq/internal/ui/components"
	"github.com/abhisek/lexiq/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseAsking
	phaseSubmitting
	phaseFeedback
)

// QuizScreen asks the questions of one session in order and shows the
// outcome of each answer.
type QuizScreen struct {
	tester *quiz.Tester
	total  int
	quota  int
	mode   quiz.QuotaMode

	questions []quiz.Question
	current   int
	outcomes  []quiz.Outcome
	skipped   int
	last      *quiz.Outcome

	input       components.TextInput
	phase       phase
	confirmQuit bool
	notice      string
	errMsg      string
	started     time.Time
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.StatusProvider = (*QuizScreen)(nil)

// New creates a QuizScreen that starts a session of total questions, quota
// of which (per mode) come from the practice pool.
func New(tester *quiz.Tester, total, quota int, mode quiz.QuotaMode) *QuizScreen {
	return &QuizScreen{
		tester: tester,
		total:  total,
		quota:  quota,
		mode:   mode,
		input:  components.NewTextInput("Type the word...", 80),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return tea.Batch(
		s.startSession(),
		s.input.Init(),
	)
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) Status() string {
	if len(s.questions) == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", min(s.current+1, len(s.questions)), len(s.questions))
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Exit"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.phase == phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.phase == phaseAsking:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return nil
}

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return renderError(width, s.errMsg)
	case s.phase == phaseLoading:
		return renderLoading(width)
	case s.confirmQuit:
		return renderQuitConfirm(width, len(s.outcomes))
	case s.phase == phaseFeedback:
		return s.renderFeedback(width)
	}
	return s.renderQuestion(width)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		return s.handleStarted(msg)

	case submittedMsg:
		return s.handleSubmitted(msg)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAsking && !s.confirmQuit {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// startSession draws the questions off the UI goroutine.
func (s *QuizScreen) startSession() tea.Cmd {
	tester, total, quota, mode := s.tester, s.total, s.quota, s.mode
	return func() tea.Msg {
		qs, err := tester.StartSession(context.Background(), total, quota, mode)
		return sessionStartedMsg{Questions: qs, Err: err}
	}
}

func (s *QuizScreen) handleStarted(msg sessionStartedMsg) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, quiz.ErrEmptyStore):
		s.errMsg = "Your vocabulary is empty. Add entries with `lexiq add` first."
		return s, nil
	case msg.Err != nil:
		s.errMsg = msg.Err.Error()
		return s, nil
	case len(msg.Questions) == 0:
		s.errMsg = "No questions were requested."
		return s, nil
	}

	s.questions = msg.Questions
	s.current = 0
	s.started = time.Now()
	s.phase = phaseAsking
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, tea.Quit
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, s.finish(true)
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.phase {
	case phaseFeedback:
		return s, s.advance()

	case phaseAsking:
		switch key {
		case "esc":
			s.confirmQuit = true
			return s, nil
		case "enter":
			return s.submitAnswer()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	return s, nil
}

// submitAnswer records the typed answer and commits it asynchronously.
// Blank input is ignored.
func (s *QuizScreen) submitAnswer() (screen.Screen, tea.Cmd) {
	answer := s.input.Value()
	if answer == "" {
		return s, nil
	}

	q := s.questions[s.current]
	if err := s.tester.Answer(q.ID, answer); err != nil {
		s.notice = err.Error()
		return s, nil
	}

	s.notice = ""
	s.phase = phaseSubmitting
	tester := s.tester
	return s, func() tea.Msg {
		out, err := tester.Submit(context.Background(), q.ID)
		return submittedMsg{ID: q.ID, Outcome: out, Err: err}
	}
}

func (s *QuizScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, quiz.ErrEntryGone):
		s.skipped++
		s.notice = "That entry was removed from the vocabulary; skipping it."
		return s, s.advance()
	case msg.Err != nil:
		// The answer was not saved and the question is still open.
		s.notice = fmt.Sprintf("Could not save your answer: %v. Press Enter to retry.", msg.Err)
		s.phase = phaseAsking
		return s, nil
	}

	out := msg.Outcome
	s.outcomes = append(s.outcomes, out)
	s.last = &out
	s.phase = phaseFeedback
	return s, nil
}

// advance moves to the next question, or ends the quiz after the last one.
func (s *QuizScreen) advance() tea.Cmd {
	s.last = nil
	s.current++
	if s.current >= len(s.questions) {
		return s.finish(false)
	}
	s.input.Reset()
	s.phase = phaseAsking
	return nil
}

// finish closes the session and shows the results. Questions still open,
// such as skipped ones, are dropped without being recorded.
func (s *QuizScreen) finish(abandoned bool) tea.Cmd {
	s.tester.ClearQuestions(context.Background())

	report := summary.Report{
		Outcomes:  s.outcomes,
		Requested: len(s.questions),
		Skipped:   s.skipped,
		Abandoned: abandoned,
		Duration:  time.Since(s.started),
	}
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(report)}
	}
}
