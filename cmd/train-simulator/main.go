package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/railsight/train-stream/pkg/simulator"
)

var cli struct {
	Port    int           `help:"Port to listen on." default:"8080"`
	Trains  int           `help:"Number of simulated trains." default:"5"`
	Tick    time.Duration `help:"Interval between position broadcasts." default:"1s"`
	DataDir string        `help:"Directory for the position database; empty disables persistence." type:"path"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("train-simulator"),
		kong.Description("WebSocket feed of fake trains wandering around India."),
	)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var posdb *simulator.PosDB
	if cli.DataDir != "" {
		var err error
		posdb, err = simulator.OpenPosDB(cli.DataDir)
		kctx.FatalIfErrorf(err)
		defer func() {
			if err := posdb.Close(); err != nil {
				log.Printf("Error closing position db: %v", err)
			}
		}()
	}

	hub := simulator.NewHub(cli.Trains, simulator.IndiaBounds, cli.Tick, posdb, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/", hub)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cli.Port),
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("WS listening on ws://localhost:%d", cli.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
