package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/lexiq/internal/store"
)

// QuestionID is a stable handle to a question in a Tester's arena.
// Handles are never reused for the lifetime of the Tester.
type QuestionID int

// Question asks for the lexeme matching a definition.
type Question struct {
	ID      QuestionID
	EntryID int
	Pool    store.Pool

	// Prompt is the definition shown to the user.
	Prompt string
	// Expected is the lexeme the user should produce.
	Expected string
	// Category and Collocate are shown as hints.
	Category  store.Category
	Collocate string

	Answer    string
	Answered  bool
	Submitted bool

	// Evaluation is the match percentage rounded to two decimals, set once
	// the question is submitted.
	Evaluation float64
}

func newQuestion(e *store.Entry, pool store.Pool) Question {
	return Question{
		EntryID:   e.ID,
		Pool:      pool,
		Prompt:    e.Definition,
		Expected:  e.Lexeme,
		Category:  e.Category,
		Collocate: e.Collocate,
	}
}

// QuotaMode selects how the practice quota of a session is interpreted.
type QuotaMode int

const (
	QuotaCount      QuotaMode = iota // quota is a number of questions
	QuotaPercentage                  // quota is a percentage of the total
)

func (m QuotaMode) String() string {
	if m == QuotaPercentage {
		return "percentage"
	}
	return "count"
}

// practiceCount returns the number of practice questions for a session of
// total questions.
func practiceCount(total, quota int, mode QuotaMode) int {
	if mode == QuotaPercentage {
		return total * quota / 100
	}
	return quota
}

// ParseQuota parses "N" as a count and "N%" as a percentage.
func ParseQuota(s string) (int, QuotaMode, error) {
	s = strings.TrimSpace(s)
	mode := QuotaCount
	if strings.HasSuffix(s, "%") {
		mode = QuotaPercentage
		s = strings.TrimSuffix(s, "%")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, 0, fmt.Errorf("%w: %q is not a non-negative count or percentage", ErrInvalidQuota, s)
	}
	if mode == QuotaPercentage && n > 100 {
		return 0, 0, fmt.Errorf("%w: %d%% exceeds 100%%", ErrInvalidQuota, n)
	}
	return n, mode, nil
}
