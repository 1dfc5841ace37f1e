package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiq/internal/quiz"
	"github.com/abhisek/lexiq/internal/screen"
	"github.com/abhisek/lexiq/internal/store"
	"github.com/abhisek/lexiq/internal/ui/layout"
	"github.com/abhisek/lexiq/internal/ui/theme"
)

// Report describes a finished or abandoned quiz session.
type Report struct {
	Outcomes  []quiz.Outcome
	Requested int
	Skipped   int
	Abandoned bool
	Duration  time.Duration
}

// Accepted returns the number of accepted answers.
func (r Report) Accepted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Accepted {
			n++
		}
	}
	return n
}

// Average returns the mean evaluation of the submitted answers, in percent.
func (r Report) Average() float64 {
	if len(r.Outcomes) == 0 {
		return 0
	}
	var sum float64
	for _, o := range r.Outcomes {
		sum += o.Evaluation()
	}
	return sum / float64(len(r.Outcomes))
}

// SummaryScreen displays the session results.
type SummaryScreen struct {
	report Report
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(report Report) *SummaryScreen {
	return &SummaryScreen{report: report}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.report
	center := func(style lipgloss.Style, text string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(text))
	}

	var b strings.Builder

	heading := "Quiz complete!"
	if r.Abandoned {
		heading = "Quiz ended early"
	}
	b.WriteString(center(theme.Title, heading))
	b.WriteString("\n\n")

	mins := int(r.Duration.Minutes())
	secs := int(r.Duration.Seconds()) % 60
	b.WriteString(center(theme.Hint, fmt.Sprintf("Time: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Answered: %d/%d        Accepted: %d        Average match: %.2f%%",
		len(r.Outcomes), r.Requested, r.Accepted(), r.Average())
	b.WriteString(center(theme.Body, statsLine))
	b.WriteString("\n")
	if r.Skipped > 0 {
		b.WriteString(center(theme.Hint,
			fmt.Sprintf("%d question(s) skipped because their entry was removed", r.Skipped)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(r.Outcomes) == 0 {
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(center(theme.Hint, "Answers"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, o := range r.Outcomes {
		mark, style := "✗", theme.Incorrect
		if o.Accepted {
			mark, style = "✓", theme.Correct
		}
		line := fmt.Sprintf("%s %-20s %6.2f%%", mark, o.Question.Expected, o.Evaluation())
		if o.Question.Pool == store.PoolPractice {
			line += theme.Practice.Render("  practice")
		}
		if !o.Accepted {
			line += theme.Hint.Render(fmt.Sprintf("  you wrote %q", o.Question.Answer))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
