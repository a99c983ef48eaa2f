package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"proplens/app/client/imagestore"
	"proplens/app/client/llm"
	"proplens/app/client/vision"
	"proplens/app/config"
	"proplens/app/server"
	"proplens/app/service/analysis"
	"proplens/app/service/conversation"
	"proplens/app/service/knowledge"
	"proplens/app/service/store"
	"proplens/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, vision.New)
	do.Provide(di, llm.New)
	do.Provide(di, imagestore.New)
	do.Provide(di, store.New)
	do.Provide(di, analysis.New)
	do.Provide(di, knowledge.New)
	do.Provide(di, conversation.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*server.Server](di).Run(appCtx)

	<-appCtx.Done()
}
