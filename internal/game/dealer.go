package game

import "math/rand"

const (
	dieFaces   = 6
	deckCopies = 4 // copies of each face in a deck
	handSize   = 5
)

// dealer builds shuffled decks and partitions them into hands. Each room
// owns one dealer; its rng is guarded by the room mutex.
type dealer struct {
	rng *rand.Rand
}

func newDealer(seed int64) *dealer {
	return &dealer{rng: rand.New(rand.NewSource(seed))}
}

// newDeck returns the full 24-die deck, four of each face 1-6, freshly
// shuffled with an in-place Fisher-Yates walk.
func (d *dealer) newDeck() []int {
	deck := make([]int, 0, dieFaces*deckCopies)
	for face := 1; face <= dieFaces; face++ {
		for i := 0; i < deckCopies; i++ {
			deck = append(deck, face)
		}
	}
	for i := len(deck) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// deal builds a fresh deck and assigns the next handSize dice to each
// player in order. Dice beyond handSize*len(order) stay undealt for the
// round.
func (d *dealer) deal(order []string) map[string][]int {
	deck := d.newDeck()
	hands := make(map[string][]int, len(order))
	for i, id := range order {
		hand := make([]int, handSize)
		copy(hand, deck[i*handSize:(i+1)*handSize])
		hands[id] = hand
	}
	return hands
}
