//go:build integration
// +build integration

package test

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const (
	defaultMAC  = "90:a2:da:0d:9b:33"
	dummyLink   = "oaptest0"
	testMAC     = "02:00:00:0a:0b:0c"
	startupWait = 10 * time.Second
)

// buildBinary compiles the CLI into a temporary directory.
func buildBinary(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to resolve module root: %v", err)
	}
	bin := filepath.Join(t.TempDir(), "oap-netconfig")

	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = root
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}
	return bin
}

func run(t *testing.T, bin string, args ...string) string {
	t.Helper()
	out, err := exec.Command(bin, args...).Output()
	if err != nil {
		t.Fatalf("%s %v failed: %v", filepath.Base(bin), args, err)
	}
	return string(out)
}

// TestShowAndExport runs the CLI end to end without touching the network.
func TestShowAndExport(t *testing.T) {
	bin := buildBinary(t)

	out := run(t, bin, "show")
	if !strings.Contains(out, "www.oneassetplace.com:80") || !strings.Contains(out, defaultMAC) {
		t.Fatalf("Unexpected show output:\n%s", out)
	}

	header := filepath.Join(t.TempDir(), "Credentials.h")
	run(t, bin, "export", "--format", "header", "--out", header)

	data, err := os.ReadFile(header)
	if err != nil {
		t.Fatalf("Failed to read exported header: %v", err)
	}
	for _, want := range []string{
		`const char serverName[] = "www.oneassetplace.com";`,
		"const int serverPort = 80;",
		"byte mac[] = { 0x90, 0xA2, 0xDA, 0x0D, 0x9B, 0x33 };",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Header missing %q", want)
		}
	}
}

// TestWatchPicksUpEdits starts the watcher and rewrites its config file.
func TestWatchPicksUpEdits(t *testing.T) {
	bin := buildBinary(t)
	cfg := filepath.Join(t.TempDir(), "oap.yml")
	if err := os.WriteFile(cfg, []byte("server:\n  name: www.oneassetplace.com\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, "watch", "--config", cfg)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		t.Fatalf("Failed to open stdout: %v", err)
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	defer func() {
		_ = cmd.Process.Signal(os.Interrupt)
		_ = cmd.Wait()
	}()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	waitFor(t, lines, "www.oneassetplace.com:80")

	if err := os.WriteFile(cfg, []byte("server:\n  name: 192.168.0.103\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}
	waitFor(t, lines, "192.168.0.103:80")
}

// TestApplyOnDummyLink assigns a MAC to a dummy interface. Requires root.
func TestApplyOnDummyLink(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("Requires root to create a dummy link")
	}
	if err := exec.Command("ip", "link", "add", dummyLink, "type", "dummy").Run(); err != nil {
		t.Skipf("Cannot create dummy link: %v", err)
	}
	defer exec.Command("ip", "link", "del", dummyLink).Run()

	bin := buildBinary(t)
	cmd := exec.Command(bin, "apply", "--interface", dummyLink)
	cmd.Env = append(os.Environ(), "OAP_MAC="+testMAC)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("apply failed: %v\n%s", err, out)
	}

	out, err := exec.Command("ip", "link", "show", dummyLink).Output()
	if err != nil {
		t.Fatalf("Failed to inspect link: %v", err)
	}
	if !strings.Contains(string(out), testMAC) {
		t.Errorf("Expected %s on %s, got:\n%s", testMAC, dummyLink, out)
	}
}

func waitFor(t *testing.T, lines <-chan string, want string) {
	t.Helper()
	deadline := time.After(startupWait)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("Watcher exited before printing %q", want)
			}
			if strings.Contains(line, want) {
				return
			}
		case <-deadline:
			t.Fatalf("Timed out waiting for %q", want)
		}
	}
}
