package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/service"
)

func runAdd(ctx context.Context, args []string, svc service.BoardService) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	details := fs.String("d", "", "Card details")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fmt.Fprintln(stderr, "Error: column id and title required")
		fmt.Fprintln(stderr, "Usage: kanban card add [-d details] <column-id> <title>")
		return 1
	}

	columnID := rest[0]
	title := strings.Join(rest[1:], " ")
	if err := svc.AddCard(ctx, columnID, title, *details); err != nil {
		fmt.Fprintf(stderr, "Error adding card: %s\n", service.Message(err))
		return 1
	}

	board := svc.Board()
	fmt.Fprintf(stdout, "Added %q to %s\n", title, columnTitle(board, columnID))
	return 0
}

func runEdit(ctx context.Context, args []string, svc service.BoardService) int {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	title := fs.String("t", "", "New title")
	details := fs.String("d", "", "New details")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: card id required")
		fmt.Fprintln(stderr, "Usage: kanban card edit [-t title] [-d details] <card-id>")
		return 1
	}

	cardID := fs.Arg(0)
	card, ok := svc.Board().Cards[cardID]
	if !ok {
		fmt.Fprintf(stderr, "Error: card not found: %s\n", cardID)
		return 1
	}

	newTitle, newDetails := card.Title, card.Details
	if *title != "" {
		newTitle = *title
	}
	if *details != "" {
		newDetails = *details
	}

	if err := svc.UpdateCard(ctx, cardID, newTitle, newDetails); err != nil {
		fmt.Fprintf(stderr, "Error updating card: %s\n", service.Message(err))
		return 1
	}
	fmt.Fprintf(stdout, "Updated: %s\n", cardID)
	return 0
}

func runMove(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, "Error: card id and target required")
		fmt.Fprintln(stderr, "Usage: kanban card move <card-id> <card-id|column-id>")
		return 1
	}

	cardID, overID := args[0], args[1]
	if _, ok := svc.Board().Cards[cardID]; !ok {
		fmt.Fprintf(stderr, "Error: card not found: %s\n", cardID)
		return 1
	}

	if err := svc.MoveCard(ctx, cardID, overID); err != nil {
		fmt.Fprintf(stderr, "Error moving card: %s\n", service.Message(err))
		return 1
	}

	board := svc.Board()
	loc, ok := models.FindCardLocation(board.Columns, cardID)
	if !ok {
		fmt.Fprintf(stdout, "Moved: %s\n", cardID)
		return 0
	}
	fmt.Fprintf(stdout, "Moved %s to %s, position %d\n", cardID, columnTitle(board, loc.ColumnID), loc.Index+1)
	return 0
}

func runDelete(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Error: card id required")
		fmt.Fprintln(stderr, "Usage: kanban card delete <card-id>")
		return 1
	}

	cardID := args[0]
	if _, ok := svc.Board().Cards[cardID]; !ok {
		fmt.Fprintf(stderr, "Error: card not found: %s\n", cardID)
		return 1
	}

	if err := svc.DeleteCard(ctx, cardID); err != nil {
		fmt.Fprintf(stderr, "Error deleting card: %s\n", service.Message(err))
		return 1
	}

	fmt.Fprintf(stdout, "Deleted: %s\n", cardID)
	return 0
}

func runRename(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) < 2 {
		fmt.Fprintln(stderr, "Error: column id and title required")
		fmt.Fprintln(stderr, "Usage: kanban column rename <column-id> <title>")
		return 1
	}

	columnID := args[0]
	if err := svc.RenameColumn(ctx, columnID, strings.Join(args[1:], " ")); err != nil {
		fmt.Fprintf(stderr, "Error renaming column: %s\n", service.Message(err))
		return 1
	}

	fmt.Fprintf(stdout, "Renamed %s to %q\n", columnID, columnTitle(svc.Board(), columnID))
	return 0
}

func columnTitle(board models.Board, columnID string) string {
	if col := board.GetColumn(columnID); col != nil {
		return col.Title
	}
	return columnID
}
