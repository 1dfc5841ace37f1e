package quiz

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexiq/internal/quiz"
	"github.com/abhisek/lexiq/internal/router"
	"github.com/abhisek/lexiq/internal/screens/summary"
	"github.com/abhisek/lexiq/internal/store"
)

func newTestTester(t *testing.T, entries, practice int) (*quiz.Tester, store.EntryRepo) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:screen_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	repo := st.EntryRepo()
	for i := range entries {
		_, err := repo.Create(context.Background(), store.NewEntry{
			Lexeme:      fmt.Sprintf("word%d", i),
			Definition:  fmt.Sprintf("the meaning of word %d", i),
			Category:    store.CategoryNoun,
			ForPractice: i < practice,
		})
		require.NoError(t, err)
	}

	tr, err := quiz.NewTester(context.Background(), repo, quiz.DefaultConfig(), quiz.WithSeed(1))
	require.NoError(t, err)
	return tr, repo
}

func key(k string) tea.KeyPressMsg {
	switch k {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	r := []rune(k)[0]
	return tea.KeyPressMsg{Code: r, Text: k}
}

// started returns a screen whose session has been drawn.
func started(t *testing.T, tr *quiz.Tester, total, quota int) *QuizScreen {
	t.Helper()
	s := New(tr, total, quota, quiz.QuotaCount)
	msg := s.startSession()()
	_, cmd := s.Update(msg)
	assert.Nil(t, cmd)
	require.Empty(t, s.errMsg)
	require.Equal(t, phaseAsking, s.phase)
	return s
}

// answer types text and submits it, delivering the commit result.
func answer(t *testing.T, s *QuizScreen, text string) {
	t.Helper()
	s.input.SetValue(text)
	_, cmd := s.Update(key("enter"))
	require.NotNil(t, cmd, "submit should return a command")
	require.Equal(t, phaseSubmitting, s.phase)
	s.Update(cmd())
}

func replacedWith(t *testing.T, cmd tea.Cmd) *summary.SummaryScreen {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok, "expected a ReplaceScreenMsg")
	sum, ok := msg.Screen.(*summary.SummaryScreen)
	require.True(t, ok, "expected the summary screen")
	return sum
}

func TestQuizScreen_FullRun(t *testing.T) {
	tr, repo := newTestTester(t, 3, 0)
	s := started(t, tr, 2, 0)
	assert.Equal(t, "1/2", s.Status())

	first := s.questions[0]
	assert.Contains(t, s.View(80, 24), first.Prompt)

	answer(t, s, first.Expected)
	require.Equal(t, phaseFeedback, s.phase)
	require.NotNil(t, s.last)
	assert.True(t, s.last.Accepted)
	assert.Contains(t, s.View(80, 24), "100.00%")

	e, err := repo.Get(context.Background(), first.EntryID)
	require.NoError(t, err)
	assert.Equal(t, 1, e.TestCount)

	_, cmd := s.Update(key("x"))
	assert.Nil(t, cmd)
	assert.Equal(t, phaseAsking, s.phase)
	assert.Empty(t, s.input.Value(), "input is cleared between questions")
	assert.Equal(t, "2/2", s.Status())

	answer(t, s, "nothing like it")
	require.Equal(t, phaseFeedback, s.phase)
	assert.False(t, s.last.Accepted)
	assert.Contains(t, s.View(80, 24), "Expected: "+s.questions[1].Expected)

	_, cmd = s.Update(key("x"))
	replacedWith(t, cmd)
	assert.Empty(t, tr.Pending())
	assert.Len(t, s.outcomes, 2)
}

func TestQuizScreen_BlankAnswerIgnored(t *testing.T) {
	tr, _ := newTestTester(t, 2, 0)
	s := started(t, tr, 1, 0)

	_, cmd := s.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Equal(t, phaseAsking, s.phase)
	assert.Len(t, tr.Pending(), 1)
}

func TestQuizScreen_TypingReachesInput(t *testing.T) {
	tr, _ := newTestTester(t, 2, 0)
	s := started(t, tr, 1, 0)

	for _, k := range []string{"w", "o", "r", "d"} {
		s.Update(key(k))
	}
	assert.Equal(t, "word", s.input.Value())
}

func TestQuizScreen_QuitConfirm(t *testing.T) {
	tr, repo := newTestTester(t, 3, 0)
	s := started(t, tr, 3, 0)

	answer(t, s, s.questions[0].Expected)
	s.Update(key("x"))

	s.Update(key("esc"))
	require.True(t, s.confirmQuit)
	assert.Contains(t, s.View(80, 24), "End quiz early?")

	s.Update(key("n"))
	assert.False(t, s.confirmQuit)
	assert.Len(t, tr.Pending(), 2)

	s.Update(key("esc"))
	_, cmd := s.Update(key("y"))
	sum := replacedWith(t, cmd)
	assert.NotNil(t, sum)
	assert.Empty(t, tr.Pending(), "abandoning clears the open questions")

	for _, q := range s.questions[1:] {
		e, err := repo.Get(context.Background(), q.EntryID)
		require.NoError(t, err)
		assert.Zero(t, e.TestCount, "unanswered questions are not recorded")
	}
}

func TestQuizScreen_DeletedEntryIsSkipped(t *testing.T) {
	tr, repo := newTestTester(t, 2, 0)
	s := started(t, tr, 2, 0)

	require.NoError(t, repo.Delete(context.Background(), s.questions[0].EntryID))
	answer(t, s, "anything")
	assert.Equal(t, 1, s.skipped)
	assert.Equal(t, phaseAsking, s.phase)
	assert.Equal(t, 1, s.current)
	assert.NotEmpty(t, s.notice)

	answer(t, s, s.questions[1].Expected)
	_, cmd := s.Update(key("x"))
	replacedWith(t, cmd)
	assert.Empty(t, tr.Pending(), "the skipped question is dropped at the end")
}

func TestQuizScreen_PracticeBadge(t *testing.T) {
	tr, _ := newTestTester(t, 3, 1)
	s := started(t, tr, 2, 1)

	require.Equal(t, store.PoolPractice, s.questions[0].Pool)
	assert.Contains(t, s.View(80, 24), "PRACTICE")
}

func TestQuizScreen_StartErrors(t *testing.T) {
	tests := []struct {
		name    string
		entries int
		total   int
		want    string
	}{
		{"empty vocabulary", 0, 1, "vocabulary is empty"},
		{"too many questions", 2, 5, "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newTestTester(t, tt.entries, 0)
			s := New(tr, tt.total, 0, quiz.QuotaCount)
			s.Update(s.startSession()())
			require.Contains(t, s.errMsg, tt.want)
			assert.Contains(t, s.View(80, 24), "Press any key to exit")

			_, cmd := s.Update(key("x"))
			assert.NotNil(t, cmd, "any key exits")
		})
	}
}

func TestQuizScreen_KeyHints(t *testing.T) {
	tr, _ := newTestTester(t, 2, 0)
	s := New(tr, 1, 0, quiz.QuotaCount)
	assert.Empty(t, s.KeyHints(), "no hints while loading")

	s.Update(s.startSession()())
	assert.Len(t, s.KeyHints(), 2)

	s.Update(key("esc"))
	hints := s.KeyHints()
	require.Len(t, hints, 2)
	assert.Equal(t, "Y", hints[0].Key)
}
