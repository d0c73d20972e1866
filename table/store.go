package table

import (
	"time"

	"github.com/samber/lo"
)

const DefaultCardLimit = 50

// Store holds the authoritative table state: the card list, the deck list
// and the deck info list. It is not safe for concurrent use; the room loop
// is its only caller.
type Store struct {
	cards     []Card
	decks     []Deck
	deckInfos []DeckInfo
	cardLimit int
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp new decks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns an empty table that holds at most cardLimit cards.
func NewStore(cardLimit int, opts ...Option) *Store {
	if cardLimit <= 0 {
		cardLimit = DefaultCardLimit
	}
	s := &Store{
		cards:     []Card{},
		cardLimit: cardLimit,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidIndex reports whether index addresses an element of a list of the
// given length. Card and deck indexes are both checked with it.
func ValidIndex(index, length int) bool {
	return index >= 0 && index < length
}

// CardLimit returns the configured maximum number of cards.
func (s *Store) CardLimit() int {
	return s.cardLimit
}

// Cards returns a copy of the card list.
func (s *Store) Cards() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s *Store) CardCount() int {
	return len(s.cards)
}

func (s *Store) DeckCount() int {
	return len(s.decks)
}

// AppendCard adds card to the end of the card list and returns its index.
// When the list would grow past the card limit the whole list is cleared
// instead, and reset is true.
func (s *Store) AppendCard(card Card) (index int, reset bool) {
	s.cards = append(s.cards, card)
	if len(s.cards) > s.cardLimit {
		s.ClearCards()
		return -1, true
	}
	return len(s.cards) - 1, false
}

// ClearCards empties the card list.
func (s *Store) ClearCards() {
	s.cards = []Card{}
}

// ToggleTap flips the tapped state of the card at index.
func (s *Store) ToggleTap(index int) error {
	if !ValidIndex(index, len(s.cards)) {
		return ErrOutOfRange
	}
	s.cards[index].Tapped = !s.cards[index].Tapped
	return nil
}

// MoveCard sets the position of the card at index.
func (s *Store) MoveCard(index int, x, y float64) error {
	if !ValidIndex(index, len(s.cards)) {
		return ErrOutOfRange
	}
	s.cards[index].X = x
	s.cards[index].Y = y
	return nil
}

// CreateDeck parses rawList and stores it as a new deck named name.
func (s *Store) CreateDeck(name, rawList string) int {
	index := len(s.decks)
	s.decks = append(s.decks, Deck{Cards: ParseDeckList(rawList)})
	s.deckInfos = append(s.deckInfos, DeckInfo{
		DeckName:      name,
		DeckListIndex: index,
		CreatedAt:     s.now(),
	})
	return index
}

// remaining returns a copy of the card names left in the deck at index.
func (s *Store) remaining(index int) ([]string, error) {
	if !ValidIndex(index, len(s.decks)) {
		return nil, ErrOutOfRange
	}
	out := make([]string, len(s.decks[index].Cards))
	copy(out, s.decks[index].Cards)
	return out, nil
}

// ListDecks returns a snapshot of every deck with its current card count.
func (s *Store) ListDecks() []DeckSummary {
	return lo.Map(s.deckInfos, func(info DeckInfo, i int) DeckSummary {
		return DeckSummary{
			DeckInfo:  info,
			CardCount: len(s.decks[i].Cards),
		}
	})
}

// PlayTop removes and returns the first card name of the deck at index.
func (s *Store) PlayTop(index int) (string, error) {
	if !ValidIndex(index, len(s.decks)) {
		return "", ErrOutOfRange
	}
	deck := &s.decks[index]
	if len(deck.Cards) == 0 {
		return "", ErrEmptyDeck
	}
	name := deck.Cards[0]
	deck.Cards = deck.Cards[1:]
	return name, nil
}

// SelectDeck records index as sel's active deck.
func (s *Store) SelectDeck(sel *Selection, index int) error {
	if !ValidIndex(index, len(s.decks)) {
		return ErrOutOfRange
	}
	sel.deckIndex = index
	sel.set = true
	return nil
}
