package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/tyler-smith/go-bip39/wordlists"
)

// wordlist is the BIP39 English wordlist (2048 words).
var wordlist = wordlists.English

// GuestNameService generates human-readable display names for posters who
// leave the username field empty. Names follow the pattern "word-word-number"
// (e.g., "apple-river-42").
type GuestNameService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGuestNameService creates a GuestNameService with its own random source.
func NewGuestNameService() *GuestNameService {
	return &GuestNameService{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate returns a fresh guest name. Names are not guaranteed unique;
// 2048 × 2048 × 100 combinations make collisions rare enough for display use.
func (s *GuestNameService) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	word1 := wordlist[s.rng.Intn(len(wordlist))]
	word2 := wordlist[s.rng.Intn(len(wordlist))]
	num := s.rng.Intn(100)
	return fmt.Sprintf("%s-%s-%d", word1, word2, num)
}
