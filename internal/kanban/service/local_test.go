package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/store"
	"kanbanstudio/internal/logs"
)

type failingStore struct {
	store.Store
	fail     bool
	failLoad bool
}

func (f *failingStore) Load(ctx context.Context) (models.Board, error) {
	if f.failLoad {
		return models.Board{}, errors.New("unreadable board")
	}
	return f.Store.Load(ctx)
}

// captureLogs sends the debug logger to a buffer for the rest of the test
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logs.Logger.SetOutput(&buf)
	t.Cleanup(func() { logs.Logger.SetOutput(io.Discard) })
	return &buf
}

func (f *failingStore) Save(ctx context.Context, b models.Board) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, b)
}

func TestLocal_PersistsChanges(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	l, err := NewLocal(ctx, store.NewDiskStore(dir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := l.MoveCard(ctx, "card-1", "col-done"); err != nil {
		t.Fatalf("move error: %v", err)
	}
	if err := l.AddCard(ctx, "col-review", "Check contrast", "WCAG AA"); err != nil {
		t.Fatalf("add error: %v", err)
	}
	if err := l.DeleteCard(ctx, "card-2"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if err := l.RenameColumn(ctx, "col-backlog", "Ideas"); err != nil {
		t.Fatalf("rename error: %v", err)
	}

	reopened, err := NewLocal(ctx, store.NewDiskStore(dir))
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	board := reopened.Board()

	if !reflect.DeepEqual(board.Columns, l.Board().Columns) {
		t.Errorf("columns differ after reload:\nexpected %+v\ngot      %+v", l.Board().Columns, board.Columns)
	}
	if board.Columns[0].Title != "Ideas" || len(board.Columns[0].CardIDs) != 0 {
		t.Errorf("unexpected backlog %+v", board.Columns[0])
	}
	if got := board.Columns[4].CardIDs; !reflect.DeepEqual(got, []string{"card-7", "card-8", "card-1"}) {
		t.Errorf("unexpected done column %v", got)
	}
	if err := board.Validate(); err != nil {
		t.Errorf("expected valid board: %v", err)
	}
}

func TestLocal_SaveFailureReloads(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Store: store.NewDiskStore(t.TempDir())}
	l, err := NewLocal(ctx, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fs.fail = true
	err = l.MoveCard(ctx, "card-1", "col-done")
	if Message(err) != MsgMoveFailed {
		t.Fatalf("expected %q, got %v", MsgMoveFailed, err)
	}
	if got := l.Board().Columns[0].CardIDs; !reflect.DeepEqual(got, []string{"card-1", "card-2"}) {
		t.Errorf("expected stored state, got %v", got)
	}
}

func TestLocal_SaveAndReloadFailureLogged(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Store: store.NewDiskStore(t.TempDir())}
	l, err := NewLocal(ctx, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := captureLogs(t)

	fs.fail, fs.failLoad = true, true
	if err := l.MoveCard(ctx, "card-1", "col-done"); Message(err) != MsgMoveFailed {
		t.Fatalf("expected %q, got %v", MsgMoveFailed, err)
	}
	for _, want := range []string{"disk full", "reload failed", "unreadable board"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in log:\n%s", want, buf.String())
		}
	}
}

func TestLocal_ChatOffline(t *testing.T) {
	l, err := NewLocal(context.Background(), store.NewDiskStore(t.TempDir()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := l.Chat(context.Background(), "hi"); Message(err) != MsgChatOffline {
		t.Errorf("expected offline message, got %v", err)
	}
}

func TestUserError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&UserError{Message: MsgAddFailed, Err: cause})

	if !errors.Is(err, cause) {
		t.Error("expected cause to unwrap")
	}
	if Message(err) != MsgAddFailed {
		t.Errorf("unexpected message %q", Message(err))
	}
	if Message(errors.New("plain")) != "plain" {
		t.Error("expected plain errors to pass through")
	}
}
