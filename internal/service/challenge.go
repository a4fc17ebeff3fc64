package service

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// challengeTTL is how long an issued challenge stays answerable.
const challengeTTL = 5 * time.Minute

// Challenge is the arithmetic human-verification puzzle gating signup. The
// expected answer is num1*num2 and is only kept server-side.
type Challenge struct {
	ID   string `json:"challengeId"`
	Num1 int    `json:"num1"`
	Num2 int    `json:"num2"`
}

// ChallengeService issues and verifies signup challenges. Challenges expire
// after five minutes and are consumed by their first verification attempt,
// successful or not: a failed answer requires a freshly issued challenge.
type ChallengeService struct {
	active *gocache.Cache
}

func NewChallengeService() *ChallengeService {
	return &ChallengeService{
		active: gocache.New(challengeTTL, 2*challengeTTL),
	}
}

// Generate issues a new challenge with num1 in [5,14] and num2 in [2,11].
func (s *ChallengeService) Generate() Challenge {
	challenge := Challenge{
		ID:   uuid.New().String(),
		Num1: rand.IntN(10) + 5,
		Num2: rand.IntN(10) + 2,
	}

	s.active.Set(challenge.ID, challenge.Num1*challenge.Num2, gocache.DefaultExpiration)

	return challenge
}

// Verify consumes the challenge and reports whether answer matches. Unknown
// or expired ids fail.
func (s *ChallengeService) Verify(id string, answer int) bool {
	expected, found := s.active.Get(id)

	if !found {
		return false
	}

	s.active.Delete(id)

	return expected.(int) == answer
}
