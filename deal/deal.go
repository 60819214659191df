package deal

import (
	"math/rand"
	"sync"
	"time"

	"gostop-server/card"
	"gostop-server/game"
)

// Shuffler deals from a freshly shuffled catalog. It is safe for concurrent use
// by many rooms.
type Shuffler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Shuffler seeded with seed; zero seeds from the clock.
func New(seed int64) *Shuffler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Shuffler{rng: rand.New(rand.NewSource(seed))}
}

// Deal shuffles the full deck and splits it into hands, field and deck using
// the sizes for the table.
func (s *Shuffler) Deal(players int) game.Deal {
	cards := card.All()
	s.mu.Lock()
	s.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	s.mu.Unlock()
	return Split(cards, players)
}

// Split deals hands first, then the field, leaving the rest as the deck.
func Split(cards []card.Card, players int) game.Deal {
	hand, field := game.DealSizes(players)
	d := game.Deal{Hands: make([][]card.Card, players)}
	i := 0
	for p := 0; p < players; p++ {
		d.Hands[p] = append([]card.Card(nil), cards[i:i+hand]...)
		i += hand
	}
	d.Field = append([]card.Card(nil), cards[i:i+field]...)
	d.Deck = append([]card.Card(nil), cards[i+field:]...)
	return d
}
