package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/voyago/itinera"
	"github.com/voyago/itinera/internal/presentation/tui"
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/flow"
)

// RunOptions carries the configuration for the run command.
type RunOptions struct {
	SessionID  string
	Fresh      bool
	Debug      bool
	Headless   bool
	NoTyping   bool
	CatalogDir string
	RedisAddr  string
	RedisDB    int
}

// RunSession executes one interactive planning session.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	if !opts.Headless {
		tui.PrintBanner()
	}

	store := NewStore(opts.RedisAddr, opts.RedisDB)
	sessions := NewSessionManager(store, logger)
	source := NewCatalog(opts.CatalogDir, logger)

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("cli-%d", time.Now().UnixNano())
	}
	if opts.Fresh {
		if err := sessions.Delete(sigCtx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			logger.Warn("session reset failed", "session", sessionID, "err", err)
		}
	}

	snap, err := sessions.LoadOrStart(sigCtx, sessionID, flow.StepWelcome)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}
	resumed := snap.Trip != nil && snap.Trip.TotalDays > 0
	if resumed && !opts.Headless {
		printSystemMessage("Resuming session '%s' at the %s step.", sessionID, snap.Step)
	}

	engineOpts := []itinera.Option{
		itinera.WithLogger(logger),
		itinera.WithSnapshot(snap),
	}
	if opts.Debug {
		engineOpts = append(engineOpts, itinera.WithLifecycleHooks(createDebugHooks(logger)))
	}
	if opts.NoTyping || opts.Headless {
		engineOpts = append(engineOpts, itinera.WithDirectDelivery())
	} else {
		engineOpts = append(engineOpts, itinera.WithTypingDelay(300*time.Millisecond, 1200*time.Millisecond))
	}

	engine, err := itinera.New(sessionID, source, engineOpts...)
	if err != nil {
		return fmt.Errorf("error initializing engine: %w", err)
	}
	defer engine.Close()

	runner := itinera.NewRunner()
	runner.Input = NewInterruptibleReader(os.Stdin, sigCtx.Done())
	runner.Output = os.Stdout
	runner.Headless = opts.Headless
	if !opts.Headless {
		runner.Renderer = tui.NewRenderer()
	}

	runErr := runner.Run(sigCtx, engine)

	if err := sessions.Save(context.Background(), sessionID, engine.Snapshot()); err != nil {
		logger.Warn("session save failed", "session", sessionID, "err", err)
	}

	if !opts.Headless {
		if sigCtx.Signal() != nil {
			fmt.Println()
			printSystemMessage("Interrupted at the %s step. Your progress is saved.", engine.Current())
		} else if engine.Done() {
			printSystemMessage("Itinerary complete. See you at the airport!")
		}
	}
	return handleExecutionError(runErr)
}
