package ws

import "encoding/json"

// Inbound event types.
const (
	EventNewCard            = "newCard"
	EventNewDeck            = "newDeck"
	EventGetDecks           = "getDecks"
	EventPlayTopCardOfDeck  = "playTopCardOfDeck"
	EventSelectDeck         = "selectDeck"
	EventTap                = "tap"
	EventCardPositionChange = "cardPositionChange"
	EventClear              = "clear"
)

// Outbound event types.
const (
	EventCards        = "cards"
	EventDecks        = "decks"
	EventError        = "error"
	EventWarning      = "warning"
	EventDeckSelected = "deckSelected"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type newCardRequest struct {
	Name string `json:"name,omitempty"`
}

type newDeckRequest struct {
	DeckName string `json:"deckName"`
	DeckList string `json:"deckList"`
}

type indexRequest struct {
	Index *int `json:"index"`
}

type positionRequest struct {
	Index *int    `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// indexOr returns *p, or -1 so that a missing index fails validation.
func indexOr(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func encode(eventType string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: eventType, Data: raw})
}

// decode unmarshals the message payload into v. An absent payload leaves v
// at its zero value.
func (m Message) decode(v any) error {
	if len(m.Data) == 0 || string(m.Data) == "null" {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}
