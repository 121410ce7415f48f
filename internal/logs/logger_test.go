package logs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestInitialize_WritesToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	if err := Initialize(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Logger.Printf("hello from test")
	if err := Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !strings.Contains(string(data), "[kanban] ") || !strings.Contains(string(data), "hello from test") {
		t.Errorf("unexpected log contents %q", string(data))
	}
}

func TestInitialize_EmptyDirIsNoop(t *testing.T) {
	if err := Initialize(""); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("expected nil close, got %v", err)
	}
}

func TestClose_WhileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := Logger

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					Logger.Printf("busy")
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		if err := Initialize(dir); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := Close(); err != nil {
			t.Fatalf("close error: %v", err)
		}
	}
	close(stop)
	wg.Wait()

	if Logger != logger {
		t.Error("expected the same logger across Initialize and Close")
	}
}
