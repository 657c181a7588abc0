package diagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/docnav/internal/config"
)

// MermaidCLI renders diagrams by running mermaid-cli (mmdc).
type MermaidCLI struct {
	command string
	args    []string
	timeout time.Duration

	mu     sync.Mutex
	config []byte
}

// NewMermaidCLI creates an engine running command with extra args before the
// generated ones. A zero timeout means no limit beyond ctx.
func NewMermaidCLI(command string, args []string, timeout time.Duration) *MermaidCLI {
	if command == "" {
		command = "mmdc"
	}
	return &MermaidCLI{command: command, args: args, timeout: timeout}
}

// NewMermaidCLIFromConfig creates an engine from the diagram section of the configuration.
func NewMermaidCLIFromConfig(cfg config.DiagramConfig) *MermaidCLI {
	return NewMermaidCLI(cfg.Command, cfg.Args, cfg.Timeout)
}

// Initialize stores cfg as the mermaid configuration file of later renders.
func (m *MermaidCLI) Initialize(_ context.Context, cfg Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode mermaid config: %w", err)
	}
	m.mu.Lock()
	m.config = data
	m.mu.Unlock()
	return nil
}

// Render runs mmdc on source and returns the SVG it writes.
func (m *MermaidCLI) Render(ctx context.Context, id, source string) (string, error) {
	dir, err := os.MkdirTemp("", "docnav-mmdc-*")
	if err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	in := filepath.Join(dir, "input.mmd")
	out := filepath.Join(dir, "output.svg")
	if err := os.WriteFile(in, []byte(source), 0o600); err != nil {
		return "", fmt.Errorf("write diagram source: %w", err)
	}

	args := append([]string{}, m.args...)
	args = append(args, "-i", in, "-o", out, "--quiet")
	if id != "" {
		args = append(args, "--svgId", id)
	}

	m.mu.Lock()
	cfg := m.config
	m.mu.Unlock()
	if len(cfg) > 0 {
		cfgPath := filepath.Join(dir, "config.json")
		if err := os.WriteFile(cfgPath, cfg, 0o600); err != nil {
			return "", fmt.Errorf("write mermaid config: %w", err)
		}
		args = append(args, "-c", cfgPath)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	// #nosec G204 -- command comes from the operator's configuration.
	cmd := exec.CommandContext(ctx, m.command, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", m.command, err, msg)
		}
		return "", fmt.Errorf("%s: %w", m.command, err)
	}

	svg, err := os.ReadFile(out)
	if err != nil {
		return "", fmt.Errorf("read rendered svg: %w", err)
	}
	return string(svg), nil
}
