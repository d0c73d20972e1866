package ws

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/chuck21619/cardtable/ratelimit"
	"github.com/chuck21619/cardtable/table"
)

const (
	errFetchCard        = "Error fetching card"
	errInvalidDeckIndex = "Invalid deck index"
	errInvalidCardIndex = "Invalid card index"
	errNoDeckSelected   = "No deck selected"
	errDeckEmpty        = "Deck is empty"
	errBadRequest       = "Malformed request"
	warnTableReset      = "Card limit reached, the table was cleared"
)

// journalReset is recorded when an appended card overflows the table.
const journalReset = "reset"

func (r *Room) dispatch(ctx context.Context, c *Client, msg Message) {
	log := r.log.With(zap.String("conn", c.ID), zap.String("type", msg.Type))

	switch msg.Type {
	case EventNewCard:
		var req newCardRequest
		if err := msg.decode(&req); err != nil {
			r.badRequest(c, log, err)
			return
		}
		r.newCard(ctx, c, log, req.Name)

	case EventNewDeck:
		var req newDeckRequest
		if err := msg.decode(&req); err != nil {
			r.badRequest(c, log, err)
			return
		}
		index := r.store.CreateDeck(req.DeckName, req.DeckList)
		log.Info("deck created", zap.String("deck", req.DeckName), zap.Int("index", index))
		r.record(ctx, EventNewDeck, c, req.DeckName)

	case EventGetDecks:
		r.emit(c, EventDecks, r.store.ListDecks())

	case EventPlayTopCardOfDeck:
		r.playTopCardOfDeck(ctx, c, log)

	case EventSelectDeck:
		var req indexRequest
		if err := msg.decode(&req); err != nil {
			log.Warn("malformed request", zap.Error(err))
			r.sendError(c, errInvalidDeckIndex)
			return
		}
		index := indexOr(req.Index)
		if err := r.store.SelectDeck(&c.selection, index); err != nil {
			log.Warn("select deck failed", zap.Int("index", index), zap.Error(err))
			r.sendError(c, errInvalidDeckIndex)
			return
		}
		r.emit(c, EventDeckSelected, index)

	case EventTap:
		var req indexRequest
		if err := msg.decode(&req); err != nil {
			r.badRequest(c, log, err)
			return
		}
		index := indexOr(req.Index)
		if err := r.store.ToggleTap(index); err != nil {
			r.silent(c, log, errInvalidCardIndex, "tap failed", zap.Int("index", index), zap.Error(err))
			return
		}
		r.broadcastCards()

	case EventCardPositionChange:
		var req positionRequest
		if err := msg.decode(&req); err != nil {
			r.badRequest(c, log, err)
			return
		}
		index := indexOr(req.Index)
		if err := r.store.MoveCard(index, req.X, req.Y); err != nil {
			r.silent(c, log, errInvalidCardIndex, "move failed", zap.Int("index", index), zap.Error(err))
			return
		}
		r.broadcastCards()

	case EventClear:
		r.store.ClearCards()
		log.Info("table cleared")
		r.record(ctx, EventClear, c, "")
		r.broadcastCards()

	default:
		log.Warn("unknown message type")
	}
}

func (r *Room) newCard(ctx context.Context, c *Client, log *zap.Logger, name string) {
	if !r.limiter.TryRequest(c.ID) {
		r.silent(c, log, ratelimit.ErrRateLimited.Error(), "new card rate limited")
		return
	}
	r.lookup(ctx, c, name)
}

// playTopCardOfDeck draws from the client's selected deck and looks the
// card up without consulting the rate limiter.
func (r *Room) playTopCardOfDeck(ctx context.Context, c *Client, log *zap.Logger) {
	index, ok := c.selection.DeckIndex()
	if !ok {
		r.silent(c, log, errNoDeckSelected, "play top card with no deck selected")
		return
	}

	name, err := r.store.PlayTop(index)
	if err != nil {
		text := errInvalidDeckIndex
		if errors.Is(err, table.ErrEmptyDeck) {
			text = errDeckEmpty
		}
		r.silent(c, log, text, "play top card failed", zap.Int("deck", index), zap.Error(err))
		return
	}

	log.Info("drew card from deck", zap.Int("deck", index), zap.String("card", name))
	r.lookup(ctx, c, name)
}

// lookup resolves name on the pool. The result comes back through the
// resolved channel, so cards are appended in the order lookups finish.
func (r *Room) lookup(ctx context.Context, c *Client, name string) {
	r.pool.Post(func() {
		card, err := r.provider.Resolve(ctx, name)
		select {
		case r.resolved <- resolution{client: c, name: name, card: card, err: err}:
		case <-r.done:
		}
	})
}

func (r *Room) handleResolution(res resolution) {
	log := r.log.With(zap.String("conn", res.client.ID), zap.String("name", res.name))

	if res.err != nil {
		log.Warn("card lookup failed", zap.Error(res.err))
		r.sendError(res.client, errFetchCard)
		return
	}

	index, reset := r.store.AppendCard(res.card)
	if reset {
		log.Warn("card limit exceeded, table reset", zap.Int("limit", r.store.CardLimit()))
		r.emit(res.client, EventWarning, warnTableReset)
		r.record(context.Background(), journalReset, res.client, "card limit exceeded", res.card.Name)
	} else {
		log.Info("card added", zap.String("card", res.card.Name), zap.Int("index", index))
		r.record(context.Background(), EventNewCard, res.client, "", res.card.Name)
	}
	r.broadcastCards()
}

// silent logs a rejected request and reports it to the client only when
// silent errors are configured to be surfaced.
func (r *Room) silent(c *Client, log *zap.Logger, text, msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
	if r.surfaceErrors {
		r.sendError(c, text)
	}
}

func (r *Room) badRequest(c *Client, log *zap.Logger, err error) {
	r.silent(c, log, errBadRequest, "malformed request", zap.Error(err))
}
