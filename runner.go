package itinera

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// ContentRenderer transforms a message before it is written, allowing TUI
// rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Runner is the terminal execution loop over an Engine. IO is injected so
// tests and alternative frontends can drive it.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Renderer ContentRenderer

	// Headless suppresses the prompt, for scripted input.
	Headless bool
}

// NewRunner creates a Runner. Callers set Input and Output explicitly
// (typically os.Stdin and os.Stdout).
func NewRunner() *Runner {
	return &Runner{}
}

// Run drives the engine until the final summary, EOF or an explicit quit.
func (r *Runner) Run(ctx context.Context, engine *Engine) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lineReader := bufio.NewReader(r.Input)

	if err := engine.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	lastSeq := r.flush(engine, 0)
	for {
		if engine.Done() {
			lastSeq = r.drain(engine, lastSeq)
			return nil
		}

		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, err := lineReader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)
		if input == "exit" || input == "quit" {
			fmt.Fprintln(r.Output, "Safe travels!")
			return nil
		}
		if input == "" {
			continue
		}

		if err := engine.Input(ctx, input); err != nil {
			return fmt.Errorf("dispatch error: %w", err)
		}
		lastSeq = r.drain(engine, lastSeq)
	}
}

// drain waits for the typing scheduler to deliver everything staged so far,
// then flushes the log. With direct delivery it flushes immediately.
func (r *Runner) drain(engine *Engine, lastSeq int) int {
	for engine.Pending() > 0 {
		lastSeq = r.flush(engine, lastSeq)
		time.Sleep(50 * time.Millisecond)
	}
	return r.flush(engine, lastSeq)
}

// flush writes every log entry newer than lastSeq and returns the new
// high-water mark.
func (r *Runner) flush(engine *Engine, lastSeq int) int {
	for _, msg := range engine.Messages().Messages() {
		if msg.Seq <= lastSeq {
			continue
		}
		out := msg.Text
		if r.Renderer != nil {
			if rendered, err := r.Renderer(msg.Text); err == nil {
				out = rendered
			}
		}
		fmt.Fprintln(r.Output, strings.TrimSpace(out))
		lastSeq = msg.Seq
	}
	return lastSeq
}
