package builder

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/starlenz/patent-assistant/internal/telegram"
	"go.uber.org/zap"
)

// App represents the HTTP API application with all its components
type App struct {
	server *http.Server
	close  func()
	logger *zap.Logger
}

// Run starts the application and blocks until a shutdown signal or a server error
func (a *App) Run() error {
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		a.close()
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")
	defer a.close()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		return err
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}

// BotApp runs the Telegram bot until a shutdown signal
type BotApp struct {
	bot    telegram.Bot
	close  func()
	logger *zap.Logger
}

func (a *BotApp) Logger() *zap.Logger {
	return a.logger
}

// Run starts polling and blocks until SIGINT or SIGTERM, then stops the bot
// and waits for running analyses
func (a *BotApp) Run() error {
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	a.logger.Info("starting telegram bot...")
	if err := a.bot.Start(ctx); err != nil {
		a.logger.Error("telegram bot error", zap.Error(err))
		return err
	}

	sig := <-sigChan
	a.logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	if err := a.bot.Stop(); err != nil {
		a.logger.Error("error stopping bot", zap.Error(err))
		return err
	}

	a.logger.Info("telegram bot stopped gracefully")
	return nil
}
