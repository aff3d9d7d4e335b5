package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shelfcast/shelfcast-backend/internal/app"
	"github.com/shelfcast/shelfcast-backend/internal/observability"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	shutdownTracing := observability.InitTracing(context.Background(), application.Log, "shelfcast-backend")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			application.Log.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	application.Start()

	application.Log.Info("Listening", "port", application.Cfg.Port)
	if err := application.Run(); err != nil {
		application.Log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
