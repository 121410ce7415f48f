package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"kanbanstudio/internal/api"
	"kanbanstudio/internal/auth"
	"kanbanstudio/internal/cli"
	"kanbanstudio/internal/config"
	"kanbanstudio/internal/kanban/service"
	"kanbanstudio/internal/kanban/store"
	"kanbanstudio/internal/logs"
	"kanbanstudio/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	apiFlag := flag.String("api", "", "Board API base URL")
	userFlag := flag.String("user", "", "User name sent to the board API")
	flag.StringVar(userFlag, "u", "", "User name (shorthand)")
	modeFlag := flag.String("mode", "", "Board backend: remote, local, s3")
	dirFlag := flag.String("dir", "", "Data directory for logs and the local board")
	flag.Parse()

	cfg, err := config.Load(config.CLIFlags{
		APIBase:  *apiFlag,
		Username: *userFlag,
		Mode:     *modeFlag,
		Dir:      *dirFlag,
	})
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	if err := logs.Initialize(cfg.Dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not initialize logger: %v\n", err)
	}
	defer logs.Close()

	gate, httpClient, err := newGate(cfg)
	if err != nil {
		log.Fatalf("Failed to set up auth: %v", err)
	}

	args := flag.Args()
	if len(args) > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		username := cfg.Username
		if username == "" {
			username = auth.DemoUsername
		}
		session, err := auth.SignIn(ctx, gate, username, cfg.Password)
		if err != nil {
			stop()
			fmt.Fprintf(os.Stderr, "Error: %s\n", auth.Message(err))
			os.Exit(1)
		}
		if cfg.Username == "" && session.Username != "" {
			username = session.Username
		}
		svc, err := openService(ctx, cfg, httpClient, username)
		if err != nil {
			stop()
			fmt.Fprintf(os.Stderr, "Error: %s\n", service.Message(err))
			os.Exit(1)
		}
		exitCode := cli.Run(ctx, args, svc)
		stop()
		logs.Close()
		os.Exit(exitCode)
	}

	logs.Logger.Printf("Starting app in TUI mode (%s backend)", cfg.Mode)
	appModel := tui.NewAppModel(gate, func(ctx context.Context, session auth.Session) (service.BoardService, error) {
		username := cfg.Username
		if username == "" {
			username = session.Username
		}
		return openService(ctx, cfg, httpClient, username)
	})
	p := tea.NewProgram(appModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}

// newGate picks the auth gate. A session gate shares its cookie jar with the
// board client, so the returned HTTP client is nil for the demo gate.
func newGate(cfg *config.Config) (auth.Gate, *http.Client, error) {
	if cfg.Auth != config.AuthSession {
		return auth.NewDemoGate(), nil, nil
	}
	gate, err := auth.NewSessionGate(cfg.APIBase, cfg.Timeout())
	if err != nil {
		return nil, nil, err
	}
	return gate, gate.HTTPClient(), nil
}

// openService builds the board service for the configured backend
func openService(ctx context.Context, cfg *config.Config, hc *http.Client, username string) (service.BoardService, error) {
	switch cfg.Mode {
	case config.ModeLocal:
		return service.NewLocal(ctx, store.NewDiskStore(cfg.BoardDir()))

	case config.ModeS3:
		s3Store, err := store.NewS3Store(ctx, store.S3Config(cfg.S3))
		if err != nil {
			return nil, err
		}
		return service.NewLocal(ctx, s3Store)
	}

	client := api.NewClient(cfg.APIBase,
		api.WithUsername(username),
		api.WithTimeout(cfg.Timeout()),
		api.WithHTTPClient(hc),
	)
	return service.NewRemote(client), nil
}
