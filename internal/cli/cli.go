package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"kanbanstudio/internal/kanban/service"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the CLI with the given arguments.
// The first argument is the namespace ("board", "card", "column", "chat" or "export").
func Run(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	namespace := args[0]
	subArgs := args[1:]

	if namespace == "help" || namespace == "-h" || namespace == "--help" {
		printUsage()
		return 0
	}

	if err := svc.Refresh(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", service.Message(err))
		return 1
	}

	switch namespace {
	case "board":
		return runBoardCommand(ctx, subArgs, svc)
	case "card":
		return runCardCommand(ctx, subArgs, svc)
	case "column", "col":
		return runColumnCommand(ctx, subArgs, svc)
	case "chat":
		return runChat(ctx, subArgs, svc)
	case "export":
		return runExport(ctx, subArgs, svc)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", namespace)
		printUsage()
		return 1
	}
}

func runBoardCommand(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) == 0 {
		return runShow(args, svc)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "show", "s":
		return runShow(cmdArgs, svc)
	case "find", "f":
		return runFind(cmdArgs, svc)
	case "help", "-h", "--help":
		printBoardUsage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown board command: %s\n", command)
		printBoardUsage()
		return 1
	}
}

func runCardCommand(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) == 0 {
		printCardUsage()
		return 1
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "add", "a":
		return runAdd(ctx, cmdArgs, svc)
	case "edit", "e":
		return runEdit(ctx, cmdArgs, svc)
	case "move", "mv":
		return runMove(ctx, cmdArgs, svc)
	case "delete", "rm", "del":
		return runDelete(ctx, cmdArgs, svc)
	case "help", "-h", "--help":
		printCardUsage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown card command: %s\n", command)
		printCardUsage()
		return 1
	}
}

func runColumnCommand(ctx context.Context, args []string, svc service.BoardService) int {
	if len(args) == 0 {
		printColumnUsage()
		return 1
	}

	switch args[0] {
	case "rename", "mv":
		return runRename(ctx, args[1:], svc)
	case "help", "-h", "--help":
		printColumnUsage()
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown column command: %s\n", args[0])
		printColumnUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprintln(stdout, `kanban - Single board kanban client

Usage: kanban [flags] [command] [arguments]

Commands:
  board       Show or search the board
  card        Add, edit, move and delete cards
  column      Rename columns
  chat        Ask the assistant to change the board
  export      Write the board as markdown to a directory

Flags:
      --api <url>        Board server base URL
  -u, --user <name>      User name sent with every request
      --mode <mode>      remote, local or s3
      --dir <path>       Data directory for local mode and logs

Running kanban without arguments launches the interactive TUI.
Use "kanban card help" for card subcommands.`)
}

func printBoardUsage() {
	fmt.Fprintln(stdout, `kanban board - Board commands

Usage: kanban board <command> [arguments]

Commands:
  show, s     Print every column and card
              kanban board show
              kanban board show --details

  find, f     Fuzzy search card titles and details
              kanban board find "roadmap"

  help        Show this help message`)
}

func printCardUsage() {
	fmt.Fprintln(stdout, `kanban card - Card commands

Usage: kanban card <command> [arguments]

Commands:
  add, a      Add a card to the end of a column
              kanban card add [-d details] <column-id> <title>

  edit, e     Change a card's title or details
              kanban card edit [-t title] [-d details] <card-id>

  move, mv    Move a card onto another card or a column
              kanban card move <card-id> <card-id|column-id>

  delete, rm  Delete a card
              kanban card delete <card-id>

  help        Show this help message`)
}

func printColumnUsage() {
	fmt.Fprintln(stdout, `kanban column - Column commands

Usage: kanban column <command> [arguments]

Commands:
  rename      Rename a column
              kanban column rename <column-id> <title>

  help        Show this help message`)
}
