package summary

import (
	"math"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lexiq/internal/quiz"
	"github.com/abhisek/lexiq/internal/store"
)

func testReport() Report {
	return Report{
		Requested: 3,
		Duration:  95 * time.Second,
		Outcomes: []quiz.Outcome{
			{
				Question: quiz.Question{Expected: "abate", Answer: "abate", Pool: store.PoolGeneral, Evaluation: 100},
				Ratio:    1,
				Accepted: true,
			},
			{
				Question: quiz.Question{Expected: "sitting", Answer: "kitten", Pool: store.PoolPractice, Evaluation: 61.54},
				Ratio:    8.0 / 13,
			},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testReport())
	if s.Title() != "Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Results")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testReport())
	view := s.View(80, 24)
	if view == "" {
		t.Error("expected non-empty summary view")
	}
}

func TestSummaryScreen_EmptyReport(t *testing.T) {
	s := New(Report{Requested: 2, Abandoned: true})
	if s.View(80, 24) == "" {
		t.Error("expected a view for an abandoned session with no answers")
	}
}

func TestReport_Totals(t *testing.T) {
	r := testReport()
	if got := r.Accepted(); got != 1 {
		t.Errorf("Accepted = %d, want 1", got)
	}
	if got, want := r.Average(), 80.77; math.Abs(got-want) > 1e-9 {
		t.Errorf("Average = %v, want %v", got, want)
	}
	if got := (Report{}).Average(); got != 0 {
		t.Errorf("Average of empty report = %v, want 0", got)
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testReport())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected a command on Enter (quit)")
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(testReport())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc (quit)")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testReport())
	hints := s.KeyHints()
	if len(hints) != 1 {
		t.Errorf("KeyHints length = %d, want 1", len(hints))
	}
}
