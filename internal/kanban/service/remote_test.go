package service

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"kanbanstudio/internal/api"
	"kanbanstudio/internal/api/apitest"
	"kanbanstudio/internal/kanban/models"
)

func newRemote(t *testing.T) (*Remote, *apitest.Server) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	r := NewRemote(api.NewClient(srv.URL, api.WithUsername("user")))
	return r, srv
}

func columnIDs(board models.Board, columnID string) []string {
	col := board.GetColumn(columnID)
	if col == nil {
		return nil
	}
	return col.CardIDs
}

func TestRemote_RefreshTagsIDs(t *testing.T) {
	r, _ := newRemote(t)
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	board := r.Board()
	if board.Columns[0].ID != "col-1" || board.Columns[4].ID != "col-5" {
		t.Errorf("unexpected column ids %q..%q", board.Columns[0].ID, board.Columns[4].ID)
	}
	if !reflect.DeepEqual(board.Columns[0].CardIDs, []string{"card-1", "card-2"}) {
		t.Errorf("unexpected backlog %v", board.Columns[0].CardIDs)
	}
	if err := board.Validate(); err != nil {
		t.Errorf("expected valid board: %v", err)
	}
}

func TestRemote_RefreshFailure(t *testing.T) {
	r := NewRemote(api.NewClient("http://127.0.0.1:1"))
	err := r.Refresh(context.Background())
	if Message(err) != MsgLoadFailed {
		t.Errorf("expected %q, got %v", MsgLoadFailed, err)
	}
}

func TestRemote_MoveCard(t *testing.T) {
	r, srv := newRemote(t)
	ctx := context.Background()
	r.Refresh(ctx)

	if err := r.MoveCard(ctx, "card-1", "card-4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	board := r.Board()
	if !reflect.DeepEqual(columnIDs(board, "col-3"), []string{"card-1", "card-4", "card-5"}) {
		t.Errorf("unexpected in progress column %v", columnIDs(board, "col-3"))
	}
	snap := srv.Snapshot("user")
	if !reflect.DeepEqual(snap.Columns[2].CardIDs, []api.ID{"1", "4", "5"}) {
		t.Errorf("server did not receive the move: %v", snap.Columns[2].CardIDs)
	}
}

func TestRemote_MoveCardNoOpSkipsNetwork(t *testing.T) {
	r, srv := newRemote(t)
	ctx := context.Background()
	r.Refresh(ctx)
	before := len(srv.Requests())

	if err := r.MoveCard(ctx, "card-1", "card-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.MoveCard(ctx, "card-404", "col-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after := len(srv.Requests()); after != before {
		t.Errorf("expected no requests, got %v", srv.Requests()[before:])
	}
}

func TestRemote_MoveFailureResyncs(t *testing.T) {
	r, srv := newRemote(t)
	ctx := context.Background()
	r.Refresh(ctx)
	srv.FailWrites(http.StatusInternalServerError)

	err := r.MoveCard(ctx, "card-1", "col-5")
	if Message(err) != MsgMoveFailed {
		t.Fatalf("expected %q, got %v", MsgMoveFailed, err)
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected wrapped APIError, got %v", err)
	}

	// the optimistic move is discarded by the refresh
	if !reflect.DeepEqual(columnIDs(r.Board(), "col-1"), []string{"card-1", "card-2"}) {
		t.Errorf("expected server state, got %v", columnIDs(r.Board(), "col-1"))
	}
}

func TestRemote_MalformedIDAbandons(t *testing.T) {
	r, srv := newRemote(t)
	ctx := context.Background()

	// the seed board uses non-numeric ids
	err := r.AddCard(ctx, "col-backlog", "Offline card", "")
	if !errors.Is(err, models.ErrMalformedID) {
		t.Fatalf("expected ErrMalformedID, got %v", err)
	}
	if Message(err) != MsgAddFailed {
		t.Errorf("expected %q, got %q", MsgAddFailed, Message(err))
	}

	if reqs := srv.Requests(); !reflect.DeepEqual(reqs, []string{"GET /api/board"}) {
		t.Errorf("expected only a refresh, got %v", reqs)
	}
	if r.Board().Columns[0].ID != "col-1" {
		t.Errorf("expected board replaced by server board, got %q", r.Board().Columns[0].ID)
	}
}

func TestRemote_AbandonLogsFailedResync(t *testing.T) {
	r := NewRemote(api.NewClient("http://127.0.0.1:1"))
	r.set(models.InitialBoard())
	buf := captureLogs(t)

	err := r.AddCard(context.Background(), "col-backlog", "Offline card", "")
	if !errors.Is(err, models.ErrMalformedID) {
		t.Fatalf("expected ErrMalformedID, got %v", err)
	}
	if !strings.Contains(buf.String(), MsgAddFailed+": resync failed") {
		t.Errorf("expected resync failure in log:\n%s", buf.String())
	}
}

func TestRemote_AddRenameDelete(t *testing.T) {
	r, srv := newRemote(t)
	ctx := context.Background()
	r.Refresh(ctx)

	if err := r.AddCard(ctx, "col-2", "Write tests", ""); err != nil {
		t.Fatalf("add error: %v", err)
	}
	discovery := columnIDs(r.Board(), "col-2")
	if len(discovery) != 2 {
		t.Fatalf("expected 2 cards in discovery, got %v", discovery)
	}
	added := r.Board().Cards[discovery[1]]
	if added.Title != "Write tests" || added.Details != models.DefaultDetails {
		t.Errorf("unexpected card %+v", added)
	}

	if err := r.RenameColumn(ctx, "col-2", "  Research "); err != nil {
		t.Fatalf("rename error: %v", err)
	}
	if got := r.Board().Columns[1].Title; got != "Research" {
		t.Errorf("expected Research, got %q", got)
	}

	if err := r.DeleteCard(ctx, added.ID); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if got := columnIDs(r.Board(), "col-2"); !reflect.DeepEqual(got, []string{"card-3"}) {
		t.Errorf("expected card removed, got %v", got)
	}

	for _, u := range srv.Users() {
		if u != "user" {
			t.Errorf("expected X-User on every request, got %q", u)
		}
	}
}

func TestRemote_ValidationIsLocal(t *testing.T) {
	r, srv := newRemote(t)
	ctx := context.Background()
	r.Refresh(ctx)
	before := len(srv.Requests())

	if err := r.RenameColumn(ctx, "col-1", "   "); err == nil {
		t.Error("expected validation error")
	}
	if err := r.AddCard(ctx, "col-1", "", "details"); err == nil {
		t.Error("expected validation error")
	}
	if len(srv.Requests()) != before {
		t.Errorf("expected no requests, got %v", srv.Requests()[before:])
	}
}

func TestRemote_UpdateCard(t *testing.T) {
	r, srv := newRemote(t)
	ctx := context.Background()
	r.Refresh(ctx)

	if err := r.UpdateCard(ctx, "card-6", "QA pass", "All states checked."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := srv.Snapshot("user").Cards["6"]; got.Title != "QA pass" || got.Details != "All states checked." {
		t.Errorf("server not updated: %+v", got)
	}
}

func TestRemote_Chat(t *testing.T) {
	r, srv := newRemote(t)
	ctx := context.Background()
	r.Refresh(ctx)
	srv.SetChat(func(req api.ChatRequest) (string, []api.ChatAction) {
		return "Done.", []api.ChatAction{{Type: api.ActionDeleteCard, CardID: "8"}}
	})

	reply, err := r.Chat(ctx, "remove the onboarding card")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Message != "Done." || len(reply.Actions) != 1 || reply.Actions[0] != "Deleted card 8" {
		t.Errorf("unexpected reply %+v", reply)
	}
	if _, ok := r.Board().Cards["card-8"]; ok {
		t.Error("expected board replaced from chat response")
	}

	history := r.History()
	expected := []api.ChatMessage{
		{Role: api.RoleUser, Content: "remove the onboarding card"},
		{Role: api.RoleAssistant, Content: "Done."},
	}
	if !reflect.DeepEqual(history, expected) {
		t.Errorf("expected %+v, got %+v", expected, history)
	}
}

func TestRemote_ChatFailure(t *testing.T) {
	r, srv := newRemote(t)
	srv.FailWrites(http.StatusBadGateway)

	_, err := r.Chat(context.Background(), "hello")
	if Message(err) != MsgChatFailed {
		t.Fatalf("expected %q, got %v", MsgChatFailed, err)
	}
	history := r.History()
	if len(history) != 2 || history[1].Content != ChatFallback || history[1].Role != api.RoleAssistant {
		t.Errorf("expected fallback message, got %+v", history)
	}
}
