// Package apitest provides an in-memory board server for tests.
// It keeps one board per X-User, resequences positions after every change
// and clamps insert positions the way the real backend does.
package apitest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"kanbanstudio/internal/api"
	"kanbanstudio/internal/kanban/models"

	"github.com/gorilla/mux"
)

const (
	DefaultUser     = "user"
	DefaultPassword = "password"
	SessionCookie   = "kanban_session"
)

// ChatFunc scripts the assistant. It returns the reply text and the
// actions to apply when the request asks for updates.
type ChatFunc func(req api.ChatRequest) (string, []api.ChatAction)

type column struct {
	id    int
	title string
	cards []int
}

type card struct {
	id      int
	title   string
	details string
}

type board struct {
	id      int
	title   string
	columns []*column
	cards   map[int]*card
}

// Server is a running fake board API
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	boards   map[string]*board
	nextID   int
	users    []string
	failWith int
	private  bool
	chat     ChatFunc
	model    string
	sessions map[string]string
	requests []string
}

// NewServer starts a fake server
func NewServer() *Server {
	s := &Server{
		boards:   map[string]*board{},
		nextID:   100,
		sessions: map[string]string{},
		model:    "fake-model",
		chat: func(req api.ChatRequest) (string, []api.ChatAction) {
			return "You said: " + req.Message, nil
		},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record, s.guard)

	r.HandleFunc("/api/board", s.handleGetBoard).Methods(http.MethodGet)
	r.HandleFunc("/api/columns/{id:[0-9]+}", s.handleUpdateColumn).Methods(http.MethodPatch)
	r.HandleFunc("/api/cards", s.handleCreateCard).Methods(http.MethodPost)
	r.HandleFunc("/api/cards/{id:[0-9]+}", s.handleUpdateCard).Methods(http.MethodPatch)
	r.HandleFunc("/api/cards/{id:[0-9]+}", s.handleDeleteCard).Methods(http.MethodDelete)
	r.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost)

	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/status", s.handleStatus).Methods(http.MethodGet)
	return r
}

// record captures the request line and X-User, and injects failures
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, r.Method+" "+r.URL.Path)
		s.users = append(s.users, r.Header.Get("X-User"))
		fail := s.failWith
		s.mu.Unlock()

		if fail != 0 && r.Method != http.MethodGet && !strings.HasPrefix(r.URL.Path, "/api/auth/") {
			http.Error(w, "injected failure", fail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// guard rejects board requests without a session cookie once RequireSession is on
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/auth/") {
			next.ServeHTTP(w, r)
			return
		}
		s.mu.Lock()
		private := s.private
		s.mu.Unlock()
		if private && s.sessionUser(r) == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSession makes board routes answer 401 unless the request carries
// a cookie from a successful login.
func (s *Server) RequireSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.private = true
}

func (s *Server) sessionUser(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[c.Value]
}

// FailWrites makes every non-GET board request answer with status.
// Zero turns failures off.
func (s *Server) FailWrites(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// SetChat replaces the scripted assistant
func (s *Server) SetChat(fn ChatFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chat = fn
}

// Requests returns "METHOD /path" for every request seen so far
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Users returns the X-User header of every request seen so far
func (s *Server) Users() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.users...)
}

// Snapshot returns the current board for username in wire form
func (s *Server) Snapshot(username string) api.BoardResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boardFor(username).wire()
}

func (s *Server) boardFor(username string) *board {
	if username == "" {
		username = DefaultUser
	}
	if b, ok := s.boards[username]; ok {
		return b
	}
	b := seedBoard(len(s.boards) + 1)
	s.boards[username] = b
	return b
}

// seedBoard mirrors models.InitialBoard with numeric ids
func seedBoard(id int) *board {
	initial := models.InitialBoard()
	b := &board{id: id, title: initial.Title, cards: map[int]*card{}}
	for i, col := range initial.Columns {
		c := &column{id: i + 1, title: col.Title}
		for _, cardID := range col.CardIDs {
			n, _ := models.CardNumber(cardID)
			src := initial.Cards[cardID]
			b.cards[n] = &card{id: n, title: src.Title, details: src.Details}
			c.cards = append(c.cards, n)
		}
		b.columns = append(b.columns, c)
	}
	return b
}

func (b *board) wire() api.BoardResponse {
	resp := api.BoardResponse{
		Board:   api.BoardInfo{ID: api.IDFromInt(b.id), Title: b.title},
		Columns: make([]api.ColumnWire, 0, len(b.columns)),
		Cards:   map[string]api.CardWire{},
	}
	for pos, col := range b.columns {
		ids := make([]api.ID, 0, len(col.cards))
		for _, cardID := range col.cards {
			c := b.cards[cardID]
			ids = append(ids, api.IDFromInt(cardID))
			resp.Cards[strconv.Itoa(cardID)] = api.CardWire{ID: api.IDFromInt(cardID), Title: c.title, Details: c.details}
		}
		resp.Columns = append(resp.Columns, api.ColumnWire{
			ID:       api.IDFromInt(col.id),
			Title:    col.title,
			Position: api.Int(pos),
			CardIDs:  ids,
		})
	}
	return resp
}

func (b *board) column(id int) *column {
	for _, c := range b.columns {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (b *board) columnOf(cardID int) *column {
	for _, c := range b.columns {
		for _, id := range c.cards {
			if id == cardID {
				return c
			}
		}
	}
	return nil
}

// place inserts cardID into col at position, clamped to the column bounds.
// A nil position appends.
func place(col *column, cardID int, position *int) {
	at := len(col.cards)
	if position != nil && *position < at {
		at = max(*position, 0)
	}
	col.cards = append(col.cards, 0)
	copy(col.cards[at+1:], col.cards[at:])
	col.cards[at] = cardID
}

func remove(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.boardFor(r.Header.Get("X-User")).wire()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var payload api.ColumnUpdate
	if !decode(w, r, &payload) {
		return
	}
	if payload.Title != nil && (len(*payload.Title) == 0 || len(*payload.Title) > 200) {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid column title")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.boardFor(r.Header.Get("X-User"))
	col := b.column(id)
	if col == nil {
		writeDetail(w, http.StatusNotFound, "Column not found")
		return
	}
	if payload.Title != nil {
		col.title = *payload.Title
	}
	if payload.Position != nil {
		rest := make([]*column, 0, len(b.columns))
		for _, c := range b.columns {
			if c != col {
				rest = append(rest, c)
			}
		}
		at := min(max(*payload.Position, 0), len(rest))
		b.columns = append(rest[:at], append([]*column{col}, rest[at:]...)...)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var payload api.CardCreate
	if !decode(w, r, &payload) {
		return
	}
	if !validCard(payload.Title, payload.Details) {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid card")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.boardFor(r.Header.Get("X-User"))
	col := b.column(payload.ColumnID)
	if col == nil {
		writeDetail(w, http.StatusNotFound, "Column not found")
		return
	}
	id := s.newCard(b, payload.Title, payload.Details)
	place(col, id, payload.Position)
	writeJSON(w, http.StatusOK, map[string]string{"id": strconv.Itoa(id)})
}

func (s *Server) newCard(b *board, title, details string) int {
	s.nextID++
	b.cards[s.nextID] = &card{id: s.nextID, title: title, details: details}
	return s.nextID
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var payload api.CardUpdate
	if !decode(w, r, &payload) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.boardFor(r.Header.Get("X-User"))
	if status, msg := updateCard(b, id, payload); status != http.StatusOK {
		writeDetail(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func updateCard(b *board, id int, payload api.CardUpdate) (int, string) {
	c, ok := b.cards[id]
	source := b.columnOf(id)
	if !ok || source == nil {
		return http.StatusNotFound, "Card not found"
	}
	if payload.Title != nil && (len(*payload.Title) == 0 || len(*payload.Title) > 500) {
		return http.StatusUnprocessableEntity, "Invalid card title"
	}
	if payload.Details != nil && len(*payload.Details) > 5000 {
		return http.StatusUnprocessableEntity, "Invalid card details"
	}

	target := source
	if payload.ColumnID != nil {
		target = b.column(*payload.ColumnID)
		if target == nil {
			return http.StatusNotFound, "Column not found"
		}
	}

	if payload.Title != nil {
		c.title = *payload.Title
	}
	if payload.Details != nil {
		c.details = *payload.Details
	}
	if payload.Position != nil || target != source {
		source.cards = remove(source.cards, id)
		place(target, id, payload.Position)
	}
	return http.StatusOK, ""
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.boardFor(r.Header.Get("X-User"))
	if !deleteCard(b, id) {
		writeDetail(w, http.StatusNotFound, "Card not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func deleteCard(b *board, id int) bool {
	col := b.columnOf(id)
	if col == nil {
		return false
	}
	col.cards = remove(col.cards, id)
	delete(b.cards, id)
	return true
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload api.ChatRequest
	if !decode(w, r, &payload) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.boardFor(r.Header.Get("X-User"))
	reply, actions := s.chat(payload)
	if payload.ApplyUpdates {
		for _, a := range actions {
			s.apply(b, a)
		}
	}
	if actions == nil {
		actions = []api.ChatAction{}
	}
	snapshot := b.wire()
	writeJSON(w, http.StatusOK, api.ChatResponse{
		Response: reply,
		Actions:  actions,
		Board:    &snapshot,
		Model:    api.String(s.model),
	})
}

// apply runs one assistant action, skipping any that reference unknown ids
func (s *Server) apply(b *board, a api.ChatAction) {
	cardID, _ := strconv.Atoi(models.FromCardID(string(a.CardID)))
	columnID, _ := strconv.Atoi(models.FromColumnID(string(a.ColumnID)))

	switch a.Type {
	case api.ActionCreateCard:
		col := b.column(columnID)
		if col == nil || a.Title == nil {
			return
		}
		details := ""
		if a.Details != nil {
			details = *a.Details
		}
		place(col, s.newCard(b, *a.Title, details), a.Position)
	case api.ActionUpdateCard:
		updateCard(b, cardID, api.CardUpdate{Title: a.Title, Details: a.Details})
	case api.ActionMoveCard:
		updateCard(b, cardID, api.CardUpdate{ColumnID: &columnID, Position: a.Position})
	case api.ActionDeleteCard:
		deleteCard(b, cardID)
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &creds) {
		return
	}
	if creds.Username != DefaultUser || creds.Password != DefaultPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials"})
		return
	}

	token := newToken()
	s.mu.Lock()
	s.sessions[token] = creds.Username
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "username": creds.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, c.Value)
		s.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if user := s.sessionUser(r); user != "" {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "username": user})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
}

func validCard(title, details string) bool {
	return len(title) > 0 && len(title) <= 500 && len(details) <= 5000
}

func newToken() string {
	var b [16]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return false
	}
	return true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
