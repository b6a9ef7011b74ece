// Package bridge exposes a table to web browsers. The Server implements
// the push-only render.Renderer on one side and feeds browser action
// submissions back through a channel on the other, so the table loop
// never learns that a network exists.
package bridge

import (
	"embed"
	"encoding/json"
	"io"
	"io/fs"
	"net/http"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/mitchellh/hashstructure/v2"

	"github.com/feltline/cardroom/internal/deck"
	"github.com/feltline/cardroom/internal/engine"
	"github.com/feltline/cardroom/internal/render"
)

//go:embed web
var webFS embed.FS

// SeatView is one player's slice of the table as a browser sees it.
// Face-down seats carry only the flag and no card codes, so a client
// can draw card backs without ever holding a live hand.
type SeatView struct {
	Seat     int      `json:"seat"`
	Name     string   `json:"name"`
	Chips    int      `json:"chips"`
	Cards    []string `json:"cards"`
	FaceDown bool     `json:"faceDown"`
}

// TurnView is present only while the table waits on the browser's seat.
type TurnView struct {
	ToCall   int `json:"toCall"`
	MinRaise int `json:"minRaise"`
}

// TableView is the full state frame pushed to every connected browser.
type TableView struct {
	Seats  []SeatView `json:"seats"`
	Board  []string   `json:"board"`
	Pot    int        `json:"pot"`
	Phase  string     `json:"phase"`
	Status string     `json:"status"`
	Turn   *TurnView  `json:"turn"`
}

// Action is a move submitted from a browser.
type Action struct {
	Action engine.Action
	Amount int
}

// Server fans table state out to browsers and collects their moves.
type Server struct {
	log      *log.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	view     TableView
	lastHash uint64
	clients  map[*client]struct{}

	actions chan Action
}

var _ render.Renderer = (*Server)(nil)

// NewServer creates a server with no connected clients.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Server{
		log: logger.WithPrefix("bridge"),
		upgrader: websocket.Upgrader{
			// The bridge serves a local game, not the open internet.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		view:    TableView{Seats: []SeatView{}, Board: []string{}},
		clients: make(map[*client]struct{}),
		actions: make(chan Action, 16),
	}
}

// Actions returns the stream of moves submitted by browsers.
func (s *Server) Actions() <-chan Action {
	return s.actions
}

// Router serves the embedded page, the state snapshot and the socket.
func (s *Server) Router() http.Handler {
	sub, _ := fs.Sub(webFS, "web")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/ws", s.handleWS)
	r.Get("/api/state", s.handleState)
	r.Handle("/*", http.FileServer(http.FS(sub)))
	return r
}

// RenderCards updates one seat's cards, or the board for render.Board().
func (s *Server) RenderCards(target render.Target, cards []deck.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target.Seat == render.BoardSeat {
		s.view.Board = codes(cards)
		s.broadcastLocked()
		return
	}

	sv := s.seatLocked(target.Seat)
	if target.Name != "" {
		sv.Name = target.Name
	}
	sv.Cards = codes(cards)
	sv.FaceDown = target.FaceDown
	s.broadcastLocked()
}

// UpdateStatus replaces the status line shown above the table.
func (s *Server) UpdateStatus(text string, phase engine.Phase, pot int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Status = text
	s.view.Phase = phase.String()
	s.view.Pot = pot
	s.broadcastLocked()
}

// UpdateChips sets one player's stack.
func (s *Server) UpdateChips(playerID, chips int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seatLocked(playerID).Chips = chips
	s.broadcastLocked()
}

// Prompt enables the action buttons on connected browsers.
func (s *Server) Prompt(toCall, minRaise int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Turn = &TurnView{ToCall: toCall, MinRaise: minRaise}
	s.broadcastLocked()
}

// ClearPrompt disables the action buttons again.
func (s *Server) ClearPrompt() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Turn = nil
	s.broadcastLocked()
}

// Close drops every connected client.
func (s *Server) Close() {
	s.mu.Lock()
	cs := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		cs = append(cs, c)
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	for _, c := range cs {
		c.close()
	}
}

// seatLocked finds or creates the view for a seat, keeping the slice
// ordered by seat number so frames hash stably. Callers hold s.mu.
func (s *Server) seatLocked(seat int) *SeatView {
	i := sort.Search(len(s.view.Seats), func(i int) bool {
		return s.view.Seats[i].Seat >= seat
	})
	if i < len(s.view.Seats) && s.view.Seats[i].Seat == seat {
		return &s.view.Seats[i]
	}

	s.view.Seats = append(s.view.Seats, SeatView{})
	copy(s.view.Seats[i+1:], s.view.Seats[i:])
	s.view.Seats[i] = SeatView{Seat: seat, Cards: []string{}}
	return &s.view.Seats[i]
}

// broadcastLocked pushes the current view to every client, skipping the
// send entirely when nothing observable changed since the last frame.
// Callers hold s.mu.
func (s *Server) broadcastLocked() {
	sum, err := hashstructure.Hash(s.view, hashstructure.FormatV2, nil)
	if err == nil {
		if sum == s.lastHash {
			return
		}
		s.lastHash = sum
	}

	frame, err := json.Marshal(s.view)
	if err != nil {
		s.log.Error("Failed to encode state frame", "error", err)
		return
	}

	for c := range s.clients {
		c.enqueue(frame)
	}
}

// offer hands a parsed browser move to the table loop. A full queue
// drops the move; the prompt stays up and the player can press again.
func (s *Server) offer(a Action) {
	select {
	case s.actions <- a:
	default:
		s.log.Warn("Action queue full, dropping move", "action", a.Action)
	}
}

// handleWS upgrades the connection and starts its pumps. The client
// gets a full state frame immediately so a mid-hand page load catches
// up without waiting for the next table event.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Failed to upgrade connection", "error", err)
		return
	}

	c := newClient(s, conn)

	s.mu.Lock()
	s.clients[c] = struct{}{}
	if frame, err := json.Marshal(s.view); err == nil {
		c.enqueue(frame)
	}
	total := len(s.clients)
	s.mu.Unlock()

	s.log.Info("Browser connected", "total", total)
	c.start()
}

// removeClient drops a client from the broadcast set. Called by the
// pumps on their way out, never while s.mu is held.
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	total := len(s.clients)
	s.mu.Unlock()

	if ok {
		s.log.Info("Browser disconnected", "total", total)
	}
}

// handleState serves the current view as one JSON document.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	frame, err := json.Marshal(s.view)
	s.mu.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(frame)
}

// codes renders cards in their compact two-character form for the wire.
func codes(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Code()
	}
	return out
}
