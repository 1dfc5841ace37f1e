package quiz

// DefaultMaxBufferSize is the most questions a single session may hold.
const DefaultMaxBufferSize = 1000

// DefaultAcceptThreshold is the match ratio at which an answer counts as correct.
const DefaultAcceptThreshold = 0.8

// Config holds scheduler settings.
type Config struct {
	// MaxBufferSize caps the number of questions in one session.
	MaxBufferSize int

	// AcceptThreshold is the minimum match ratio for an accepted answer.
	AcceptThreshold float64

	// ReserveWholeBatch flags every untested entry of a pool as drawn when
	// a batch is fetched, not only the entries that become questions.
	// Off by default: with it on, drawing fewer questions than remain in a
	// cycle skips the unused entries until the next cycle.
	ReserveWholeBatch bool
}

// DefaultConfig returns sensible defaults for the scheduler.
func DefaultConfig() Config {
	return Config{
		MaxBufferSize:   DefaultMaxBufferSize,
		AcceptThreshold: DefaultAcceptThreshold,
	}
}
