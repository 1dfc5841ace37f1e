package quiz

import "github.com/abhisek/lexiq/internal/quiz"

// sessionStartedMsg carries the questions drawn for the session.
type sessionStartedMsg struct {
	Questions []quiz.Question
	Err       error
}

// submittedMsg reports the result of committing one answer.
type submittedMsg struct {
	ID      quiz.QuestionID
	Outcome quiz.Outcome
	Err     error
}
