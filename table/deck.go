package table

import "time"

// Deck is an ordered queue of card names drawn from the front.
type Deck struct {
	Cards []string
}

// DeckInfo describes a deck for listing. It sits at the same index in the
// info list as its Deck does in the deck list.
type DeckInfo struct {
	DeckName      string    `json:"deckName"`
	DeckListIndex int       `json:"deckListIndex"`
	CreatedAt     time.Time `json:"date"`
}

// DeckSummary is a DeckInfo together with the deck's remaining card count.
type DeckSummary struct {
	DeckInfo
	CardCount int `json:"cardCount"`
}

// Selection is the per-connection deck choice used by "play top card".
type Selection struct {
	deckIndex int
	set       bool
}

// DeckIndex returns the selected deck index and whether one is set.
func (s *Selection) DeckIndex() (int, bool) {
	return s.deckIndex, s.set
}
