package quiz

import "errors"

var (
	// ErrSessionAlreadyOpen is returned when questions are requested while
	// the previous batch is still pending.
	ErrSessionAlreadyOpen = errors.New("cannot start a session while questions are pending")

	// ErrQuotaTooLarge is returned when the requested question count exceeds
	// the buffer ceiling or the number of entries in the store.
	ErrQuotaTooLarge = errors.New("requested question count too large")

	// ErrInsufficientEntries is returned when a pool has fewer entries than
	// the number of questions requested from it.
	ErrInsufficientEntries = errors.New("not enough entries in pool")

	// ErrInvalidQuota is returned for negative counts or percentages over 100.
	ErrInvalidQuota = errors.New("invalid question quota")

	// ErrEmptyStore is returned when the vocabulary has no entries.
	ErrEmptyStore = errors.New("vocabulary is empty")

	// ErrQuestionNotFound is returned for a handle that is not in the
	// active session.
	ErrQuestionNotFound = errors.New("question not found in session")

	// ErrAlreadySubmitted is returned when a question is answered or
	// submitted after it was already submitted.
	ErrAlreadySubmitted = errors.New("question already submitted")

	// ErrEntryGone is returned when the entry behind a question was deleted
	// before the answer was submitted.
	ErrEntryGone = errors.New("entry behind question no longer exists")
)
