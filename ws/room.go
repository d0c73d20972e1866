package ws

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chuck21619/cardtable/journal"
	"github.com/chuck21619/cardtable/ratelimit"
	"github.com/chuck21619/cardtable/scryfall"
	"github.com/chuck21619/cardtable/table"
)

// CardProvider turns a card name, or "" for a random card, into a card.
type CardProvider interface {
	Resolve(ctx context.Context, name string) (table.Card, error)
}

var _ CardProvider = (*scryfall.Client)(nil)

// Options configures a Room.
type Options struct {
	CardLimit  int
	RateLimit  int
	RateWindow time.Duration

	// SurfaceSilentErrors reports rate limiting, invalid tap/move indexes
	// and failed draws to the requester instead of only logging them.
	SurfaceSilentErrors bool
}

// Stats is a point-in-time view of the room.
type Stats struct {
	Connections int `json:"connections"`
	Cards       int `json:"cards"`
	CardLimit   int `json:"cardLimit"`
	Decks       int `json:"decks"`
	Lookups     int `json:"lookups"`

	// RateLimited is the number of connections the newCard limiter tracks.
	RateLimited int `json:"rateLimited"`
}

type inbound struct {
	client *Client
	msg    Message
}

type resolution struct {
	client *Client
	name   string
	card   table.Card
	err    error
}

// Room is the single shared table. Run owns all table state and processes
// connection events one at a time.
type Room struct {
	store    *table.Store
	limiter  *ratelimit.Limiter
	provider CardProvider
	journal  journal.Recorder
	pool     *Pool
	log      *zap.Logger

	surfaceErrors bool

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	resolved   chan resolution
	stats      chan chan Stats
	done       chan struct{}
}

func NewRoom(opts Options, provider CardProvider, rec journal.Recorder, pool *Pool, log *zap.Logger) *Room {
	if rec == nil {
		rec = journal.Nop{}
	}
	if pool == nil {
		pool = NewPool(0, log)
	}
	return &Room{
		store:         table.NewStore(opts.CardLimit),
		limiter:       ratelimit.New(opts.RateLimit, opts.RateWindow),
		provider:      provider,
		journal:       rec,
		pool:          pool,
		log:           log,
		surfaceErrors: opts.SurfaceSilentErrors,
		clients:       make(map[*Client]bool),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		inbound:       make(chan inbound),
		resolved:      make(chan resolution),
		stats:         make(chan chan Stats),
		done:          make(chan struct{}),
	}
}

// Run processes events until ctx is canceled, then closes every client.
func (r *Room) Run(ctx context.Context) error {
	defer func() {
		close(r.done)
		for client := range r.clients {
			r.drop(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-r.register:
			r.clients[client] = true
			r.log.Info("client connected", zap.String("conn", client.ID), zap.Int("clients", len(r.clients)))
			r.sendCards(client)

		case client := <-r.unregister:
			if _, ok := r.clients[client]; ok {
				r.drop(client)
				r.log.Info("client disconnected", zap.String("conn", client.ID), zap.Int("clients", len(r.clients)))
			}

		case in := <-r.inbound:
			if _, ok := r.clients[in.client]; ok {
				r.dispatch(ctx, in.client, in.msg)
			}

		case res := <-r.resolved:
			r.handleResolution(res)

		case reply := <-r.stats:
			reply <- Stats{
				Connections: len(r.clients),
				Cards:       r.store.CardCount(),
				CardLimit:   r.store.CardLimit(),
				Decks:       r.store.DeckCount(),
				Lookups:     r.pool.Running(),
				RateLimited: r.limiter.Len(),
			}
		}
	}
}

// Stats asks the loop for a snapshot.
func (r *Room) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case r.stats <- reply:
	case <-r.done:
		return Stats{}, context.Canceled
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

func (r *Room) join(c *Client) bool {
	select {
	case r.register <- c:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) leave(c *Client) {
	select {
	case r.unregister <- c:
	case <-r.done:
	}
}

func (r *Room) submit(c *Client, msg Message) bool {
	select {
	case r.inbound <- inbound{client: c, msg: msg}:
		return true
	case <-r.done:
		return false
	}
}

func (r *Room) drop(c *Client) {
	delete(r.clients, c)
	r.limiter.Forget(c.ID)
	c.close()
}

// sendTo queues data for c. A client whose buffer is full is dropped.
func (r *Room) sendTo(c *Client, data []byte) {
	if _, ok := r.clients[c]; !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
		r.log.Warn("dropping unresponsive client", zap.String("conn", c.ID))
		r.drop(c)
	}
}

func (r *Room) broadcast(data []byte) {
	r.log.Debug("broadcasting", zap.Int("clients", len(r.clients)))
	for client := range r.clients {
		r.sendTo(client, data)
	}
}

func (r *Room) emit(c *Client, eventType string, data any) {
	msg, err := encode(eventType, data)
	if err != nil {
		r.log.Error("encode failed", zap.String("type", eventType), zap.Error(err))
		return
	}
	r.sendTo(c, msg)
}

func (r *Room) sendError(c *Client, text string) {
	r.emit(c, EventError, text)
}

func (r *Room) sendCards(c *Client) {
	r.emit(c, EventCards, r.store.Cards())
}

func (r *Room) broadcastCards() {
	msg, err := encode(EventCards, r.store.Cards())
	if err != nil {
		r.log.Error("encode failed", zap.String("type", EventCards), zap.Error(err))
		return
	}
	r.broadcast(msg)
}

// record writes a journal entry off the loop.
func (r *Room) record(ctx context.Context, event string, c *Client, detail string, names ...string) {
	if _, ok := r.journal.(journal.Nop); ok {
		return
	}
	entry := journal.Entry{
		Event:     event,
		ConnID:    c.ID,
		CardNames: names,
		Detail:    detail,
		At:        time.Now(),
	}
	r.pool.Post(func() {
		if err := r.journal.Record(ctx, entry); err != nil {
			r.log.Warn("journal write failed", zap.String("event", event), zap.Error(err))
		}
	})
}
