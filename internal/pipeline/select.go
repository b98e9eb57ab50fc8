package pipeline

import (
	"errors"
	"math/rand"

	"github.com/welezhka/goodsky/internal/models"
)

// ErrNoCandidates is returned when Pick is called on an empty set. The
// orchestrator is expected to short-circuit before selection, so hitting
// this is a caller bug.
var ErrNoCandidates = errors.New("pick from empty candidate set")

// Pick returns one candidate chosen uniformly at random.
func Pick(candidates []models.Candidate, rng *rand.Rand) (models.Candidate, error) {
	if len(candidates) == 0 {
		return models.Candidate{}, ErrNoCandidates
	}
	return candidates[rng.Intn(len(candidates))], nil
}
