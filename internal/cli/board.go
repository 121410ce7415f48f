package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"kanbanstudio/internal/kanban/models"
	"kanbanstudio/internal/kanban/operations"
	"kanbanstudio/internal/kanban/service"
	"kanbanstudio/internal/kanban/store"
)

func runShow(args []string, svc service.BoardService) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	details := fs.Bool("details", false, "Show card details")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	board := svc.Board()
	if board.Title != "" {
		fmt.Fprintf(stdout, "# %s\n", board.Title)
	}
	for _, col := range board.Columns {
		fmt.Fprintf(stdout, "\n## %s (%s) [%d]\n", col.Title, col.ID, len(col.CardIDs))
		for _, card := range board.ColumnCards(col.ID) {
			printCard(card, *details)
		}
	}
	return 0
}

func runFind(args []string, svc service.BoardService) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Error: search query required")
		return 1
	}

	matches := operations.SearchCards(svc.Board(), strings.Join(args, " "))
	if len(matches) == 0 {
		fmt.Fprintln(stdout, "No cards found.")
		return 0
	}
	for _, m := range matches {
		fmt.Fprintf(stdout, "%-12s %-14s %s\n", m.ColumnID, m.Card.ID, m.Card.Title)
	}
	fmt.Fprintf(stdout, "\n%d card(s)\n", len(matches))
	return 0
}

func runChat(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Error: message required")
		fmt.Fprintln(stderr, `Usage: kanban chat "move the QA card to done"`)
		return 1
	}

	reply, err := svc.Chat(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", service.Message(err))
		return 1
	}

	fmt.Fprintln(stdout, reply.Message)
	for _, a := range reply.Actions {
		fmt.Fprintf(stdout, "  - %s\n", a)
	}
	return 0
}

func runExport(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Error: target directory required")
		fmt.Fprintln(stderr, "Usage: kanban export <dir>")
		return 1
	}

	board := svc.Board()
	if err := store.NewDiskStore(args[0]).Save(ctx, board); err != nil {
		fmt.Fprintf(stderr, "Error exporting board: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Exported %d card(s) to %s\n", board.CardCount(), args[0])
	return 0
}

func printCard(card models.Card, details bool) {
	fmt.Fprintf(stdout, "  %-14s %s\n", card.ID, card.Title)
	if details && card.Details != "" {
		for _, line := range strings.Split(card.Details, "\n") {
			fmt.Fprintf(stdout, "  %-14s   %s\n", "", line)
		}
	}
}
