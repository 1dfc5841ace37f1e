package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lexiq/internal/store"
	"github.com/abhisek/lexiq/internal/ui/components"
	"github.com/abhisek/lexiq/internal/ui/theme"
)

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

// renderQuestion renders the current definition and the answer input.
func (s *QuizScreen) renderQuestion(width int) string {
	q := s.questions[s.current]

	var b strings.Builder

	bar := components.NewProgressBar("Progress", len(s.outcomes)+s.skipped, len(s.questions), min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	var card strings.Builder
	if q.Pool == store.PoolPractice {
		card.WriteString(theme.Practice.Render("PRACTICE"))
		card.WriteString("\n\n")
	}
	card.WriteString(theme.Body.Bold(true).Render(q.Prompt))
	card.WriteString("\n\n")

	hint := string(q.Category)
	if q.Collocate != "" {
		hint += fmt.Sprintf("  ·  used with %q", q.Collocate)
	}
	card.WriteString(theme.Hint.Render(hint))

	cardWidth := min(width-8, 70)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Width(cardWidth).Render(card.String())))
	b.WriteString("\n\n")

	if s.phase == phaseSubmitting {
		b.WriteString(centered(width, theme.Hint, "Checking..."))
	} else {
		b.WriteString(centered(width, theme.Body, "Answer: "+s.input.View()))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Accent), s.notice))
	}

	return b.String()
}

// renderFeedback renders the outcome of the last submitted answer.
func (s *QuizScreen) renderFeedback(width int) string {
	out := s.last
	if out == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n")

	if out.Accepted {
		b.WriteString(centered(width, theme.Correct, "Accepted!"))
	} else {
		b.WriteString(centered(width, theme.Incorrect, "Not quite"))
	}
	b.WriteString("\n\n")

	b.WriteString(centered(width, theme.Body, fmt.Sprintf("Match: %.2f%%", out.Evaluation())))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Body, "Expected: "+out.Question.Expected))
	if !out.Accepted {
		b.WriteString("\n")
		b.WriteString(centered(width, theme.Hint, "You wrote: "+out.Question.Answer))
	}

	if out.Question.Pool == store.PoolPractice {
		b.WriteString("\n\n")
		b.WriteString(centered(width, theme.Hint, "Practice answers do not count toward your average."))
	} else if out.Entry != nil {
		b.WriteString("\n\n")
		b.WriteString(centered(width, theme.Hint, fmt.Sprintf("Average for this entry: %.2f%% over %d test(s)",
			out.Entry.AverageMatch()*100, out.Entry.TestCount)))
	}

	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Hint, "Press any key to continue..."))

	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width, answered int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(centered(width, theme.Body.Bold(true), "End quiz early?"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Hint,
		fmt.Sprintf("%d submitted answer(s) are kept; unanswered questions are dropped.", answered)))
	b.WriteString("\n\n")

	b.WriteString(centered(width, theme.Correct, "[Y] Yes, end quiz"))
	b.WriteString("\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))

	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return centered(width, theme.Hint, "\n\n\n  Drawing questions...")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return centered(width, lipgloss.NewStyle().Foreground(theme.Error),
		fmt.Sprintf("\n\n\n  %s\n\n  Press any key to exit.", errMsg))
}
