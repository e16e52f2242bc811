package game

import "slices"

// challengeUpdate reports a resolved challenge: the judged call, the full
// reveal, the fresh deal, and the new turn.
type challengeUpdate struct {
	call        declaredCall
	actualCount int
	wasLying    bool
	loserID     string
	order       []string         // members at challenge time, join order
	revealed    map[string][]int // hands at challenge time
	newHands    map[string][]int
	nextTurn    string
}

// resolveChallenge judges the outstanding call against every hand held in
// the room. The declarer loses if fewer dice than declared show the called
// face, otherwise the challenger loses. All hands are revealed (the one
// designed exception to hand confidentiality), a fresh round is dealt, and
// the loser takes the next turn. Returns nil when the game has not started
// or no call is outstanding.
func (r *Room) resolveChallenge(challengerID string) *challengeUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameStarted || r.lastCall == nil {
		return nil
	}
	call := *r.lastCall

	actual := 0
	for _, hand := range r.hands {
		for _, die := range hand {
			if die == call.value {
				actual++
			}
		}
	}
	wasLying := actual < call.quantity

	// The outstanding call is voided when its declarer leaves, so the
	// loser is always a current member.
	loser := challengerID
	if wasLying {
		loser = call.playerID
	}

	up := &challengeUpdate{
		call:        call,
		actualCount: actual,
		wasLying:    wasLying,
		loserID:     loser,
		order:       slices.Clone(r.members),
		revealed:    cloneHands(r.hands),
	}

	r.hands = r.dealer.deal(r.members)
	r.lastCall = nil
	r.currentTurn = loser
	up.newHands = cloneHands(r.hands)
	up.nextTurn = r.currentTurn
	return up
}
