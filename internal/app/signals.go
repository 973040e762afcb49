package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"pulse/internal/logging"
)

// ForcedShutdownTimeout is how long the program may take to exit after a
// termination signal before the process exits on its own.
const ForcedShutdownTimeout = 5 * time.Second

// setupSignalHandler cancels the app context on SIGINT, SIGTERM or SIGHUP,
// which stops the TUI. An in-flight request is abandoned; its result is
// never applied. Returns a cleanup function that should be called when the
// app exits.
func (a *App) setupSignalHandler() func() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			logging.Info("received signal", "signal", sig.String())

			forceExit := time.AfterFunc(ForcedShutdownTimeout, func() {
				logging.Warn("forced shutdown due to timeout")
				logging.Close()
				os.Exit(1)
			})
			a.cancel()
			<-done
			forceExit.Stop()

		case <-done:
		case <-a.ctx.Done():
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}
