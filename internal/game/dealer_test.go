package game

import (
	"slices"
	"testing"
)

// TestNewDeckComposition ensures every deck is the full 24-die multiset.
func TestNewDeckComposition(t *testing.T) {
	deck := newDealer(42).newDeck()
	if len(deck) != dieFaces*deckCopies {
		t.Fatalf("deck size = %d, want %d", len(deck), dieFaces*deckCopies)
	}
	counts := make(map[int]int)
	for _, die := range deck {
		counts[die]++
	}
	for face := 1; face <= dieFaces; face++ {
		if counts[face] != deckCopies {
			t.Fatalf("face %d appears %d times, want %d", face, counts[face], deckCopies)
		}
	}
}

// TestNewDeckDeterministicForSeed ensures the shuffle is seed-driven.
func TestNewDeckDeterministicForSeed(t *testing.T) {
	first := newDealer(7).newDeck()
	second := newDealer(7).newDeck()
	if !slices.Equal(first, second) {
		t.Fatalf("same seed produced different decks: %v vs %v", first, second)
	}
}

// TestDealFollowsDeckOrder ensures hands are consecutive 5-die slices of
// the shuffled deck, assigned in member order.
func TestDealFollowsDeckOrder(t *testing.T) {
	order := []string{"a", "b", "c", "d"}
	deck := newDealer(3).newDeck()
	hands := newDealer(3).deal(order)

	if len(hands) != len(order) {
		t.Fatalf("dealt %d hands, want %d", len(hands), len(order))
	}
	for i, id := range order {
		want := deck[i*handSize : (i+1)*handSize]
		if !slices.Equal(hands[id], want) {
			t.Fatalf("hand for %s = %v, want %v", id, hands[id], want)
		}
	}
}

// TestDealHandsDisjoint ensures hands never share dice beyond the deck's
// supply and surplus dice stay undealt.
func TestDealHandsDisjoint(t *testing.T) {
	order := []string{"a", "b", "c"}
	hands := newDealer(11).deal(order)

	dealt := 0
	counts := make(map[int]int)
	for _, id := range order {
		if len(hands[id]) != handSize {
			t.Fatalf("hand for %s has %d dice, want %d", id, len(hands[id]), handSize)
		}
		dealt += len(hands[id])
		for _, die := range hands[id] {
			counts[die]++
		}
	}
	if dealt != handSize*len(order) {
		t.Fatalf("dealt %d dice, want %d", dealt, handSize*len(order))
	}
	for face, count := range counts {
		if face < 1 || face > dieFaces {
			t.Fatalf("dealt impossible face %d", face)
		}
		if count > deckCopies {
			t.Fatalf("face %d dealt %d times, deck only holds %d", face, count, deckCopies)
		}
	}
}
