package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinuxrulz/flying-shooter/network"
	"github.com/clinuxrulz/flying-shooter/parameter"
)

var (
	addrFlag    = flag.String("addr", ":3536", "Listen address")
	maxRoomFlag = flag.Int("max-room", parameter.MaxPlayers, "Largest room size a client may request")
)

func main() {
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg := network.DefaultConfig()
	cfg.MaxRoomSize = *maxRoomFlag
	relay := network.NewRelay(cfg)

	srv := &http.Server{
		Addr:              *addrFlag,
		Handler:           relay,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Printf("relay: shutting down")
		relay.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("relay: listening on %s (rooms up to %d players)", *addrFlag, cfg.MaxRoomSize)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("relay: %v", err)
	}
}
