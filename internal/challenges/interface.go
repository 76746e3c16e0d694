package challenges

import "errors"

var (
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrSequenceNotFound  = errors.New("sequence not found")
)

// Store is the read/write surface for challenge and sequence definitions.
// The scoring engine only reads; the seeder and editor endpoints write.
type Store interface {
	GetChallenge(id string) (*Challenge, error)
	ListChallenges() ([]*Challenge, error)
	UpsertChallenge(c *Challenge) error
	GetSequence(id string) (*Sequence, error)
	ListSequences() ([]*Sequence, error)
	UpsertSequence(s *Sequence) error
}
