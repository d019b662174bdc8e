package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/peykchat/peyk/internal/relay"
	"github.com/peykchat/peyk/pkg/config"
)

func main() {
	cfg := config.Load()

	if len(os.Args) > 1 {
		if err := runCommand(cfg, os.Args[1:]); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	if err := runRelay(cfg); err != nil {
		log.Fatalf("Failed to start relay: %v", err)
	}
}

func runCommand(cfg *config.Config, args []string) error {
	command := args[0]

	switch command {
	case "relay":
		return runRelay(cfg)
	case "status":
		return runStatus(cfg, os.Stdout, args[1:])
	case "-h", "--help", "help":
		printUsage(os.Stdout)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(out *os.File) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  peyk            Start the message relay")
	fmt.Fprintln(out, "  peyk relay      Start the message relay")
	fmt.Fprintln(out, "  peyk status     Show message store statistics")
	fmt.Fprintln(out, "  peyk status --json")
}

func runRelay(cfg *config.Config) error {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := relay.NewHub()
	go hub.Run()

	router := relay.NewRouter(hub)

	addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
	log.Printf("Starting relay on %s", addr)

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigint
		log.Println("\nShutting down gracefully...")
		os.Exit(0)
	}()

	return router.Run(addr)
}
