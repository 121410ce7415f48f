// Package auth gates access to the board. The rest of the program only
// needs to know whether a user is signed in and under which name.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"kanbanstudio/internal/logs"
)

// LoginFailedMessage is shown to the user when sign-in is rejected
const LoginFailedMessage = "Incorrect username or password."

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordRequired   = errors.New("not signed in and no password configured")
)

// Session is the signed-in state
type Session struct {
	Authenticated bool
	Username      string
}

// Gate signs users in and out
type Gate interface {
	Status(ctx context.Context) (Session, error)
	Login(ctx context.Context, username, password string) (Session, error)
	Logout(ctx context.Context) error
}

// SignIn keeps an existing session, otherwise logs in with the given credentials
func SignIn(ctx context.Context, gate Gate, username, password string) (Session, error) {
	session, err := gate.Status(ctx)
	if err != nil {
		return Session{}, err
	}
	if session.Authenticated {
		return session, nil
	}
	if password == "" {
		return Session{}, ErrPasswordRequired
	}
	return gate.Login(ctx, username, password)
}

// Message turns a sign-in error into text for the user
func Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return LoginFailedMessage
	case errors.Is(err, ErrPasswordRequired):
		return "Sign in required. Set KANBAN_PASSWORD or \"password\" in the config file."
	}
	return err.Error()
}

const (
	DemoUsername = "user"
	DemoPassword = "password"
)

// DemoGate accepts a single fixed credential pair and keeps the session in memory
type DemoGate struct {
	mu       sync.Mutex
	username string
	password string
	session  Session
}

func NewDemoGate() *DemoGate {
	return &DemoGate{username: DemoUsername, password: DemoPassword}
}

func (g *DemoGate) Status(ctx context.Context) (Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, nil
}

// Login trims both fields before comparing
func (g *DemoGate) Login(ctx context.Context, username, password string) (Session, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	g.mu.Lock()
	defer g.mu.Unlock()

	if username != g.username || password != g.password {
		logs.Logger.Printf("Rejected login for %q", username)
		return Session{}, ErrInvalidCredentials
	}
	g.session = Session{Authenticated: true, Username: username}
	return g.session, nil
}

func (g *DemoGate) Logout(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = Session{}
	return nil
}
