package main

import (
	"log"
	"os"

	"github.com/starlenz/patent-assistant/internal/builder"
	"go.uber.org/zap"
)

func main() {
	app, err := builder.BuildTelegramBot()
	if err != nil {
		log.Fatal("Failed to build telegram bot:", err)
	}

	if err := app.Run(); err != nil {
		app.Logger().Error("telegram bot exited with error", zap.Error(err))
		_ = app.Logger().Sync()
		os.Exit(1)
	}
}
