// Command c4server runs the Connect-4 REST API server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/yourusername/c4engine/internal/neuralnet"
	"github.com/yourusername/c4engine/pkg/api"
	"github.com/yourusername/c4engine/pkg/engine"
)

const version = "0.1.0"

func main() {
	host := flag.String("host", "localhost", "Host to bind to (use 0.0.0.0 for all interfaces)")
	port := flag.Int("port", 8080, "Port to listen on")
	weightsFile := flag.String("weights", "", "Path to policy network weights (empty = minimax only)")
	depth := flag.Int("depth", engine.DefaultSearchDepth, "Default minimax search depth")
	recordDir := flag.String("records", "game_records", "Directory for completed game records")
	readTimeout := flag.Duration("read-timeout", 30*time.Second, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	maxSlow := flag.Int("max-searches", 4, "Max concurrent AI searches")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Printf("c4server v%s\n", version)
		os.Exit(0)
	}

	log.Printf("c4server v%s", version)

	store, err := engine.NewStore(*recordDir)
	if err != nil {
		log.Fatalf("Failed to create record store: %v", err)
	}

	hcfg := api.HandlersConfig{
		Store:        store,
		Version:      version,
		DefaultDepth: *depth,
	}

	// A missing or unreadable model degrades to minimax rather than
	// refusing to start.
	if *weightsFile != "" {
		net, err := neuralnet.LoadFile(*weightsFile)
		switch {
		case err != nil:
			log.Printf("Warning: could not load weights from %s: %v", *weightsFile, err)
			log.Printf("Falling back to minimax search at depth %d", *depth)
		case net.Channels() != 2 && net.Channels() != 3:
			log.Printf("Warning: weights in %s have an unsupported input size %d", *weightsFile, net.CInput)
			log.Printf("Falling back to minimax search at depth %d", *depth)
		default:
			hcfg.Model = net
			hcfg.Channels = net.Channels()
			log.Printf("Policy network loaded from %s (%d input channels)", *weightsFile, net.Channels())
		}
	}

	config := api.ServerConfig{
		Host:           *host,
		Port:           *port,
		ReadTimeout:    *readTimeout,
		WriteTimeout:   *writeTimeout,
		IdleTimeout:    60 * time.Second,
		MaxSlowWorkers: *maxSlow,
	}

	server := api.NewServer(config, hcfg)

	if err := server.ListenAndServeWithGracefulShutdown(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
