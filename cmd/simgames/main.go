package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/spoilerfree/gei/internal/simgames"
	"github.com/spoilerfree/gei/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumGames   = 200
	defaultTopN       = 25
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultSimTimeout = 10 * time.Minute
	defaultSeed       = 1
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numGames = flag.Int("games", defaultNumGames, "Number of games to generate and submit")
		topN     = flag.Int("top", defaultTopN, "Number of ranking rows to fetch")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		seed     = flag.Int64("seed", defaultSeed, "Seed for the shape generator")
		verbose  = flag.Bool("verbose", false, "Print the full ranking instead of the top rows")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultSimTimeout)
	defer cancel()

	config := &simgames.Config{
		BaseURL:  *baseURL,
		NumGames: *numGames,
		TopN:     *topN,
		Workers:  *workers,
		Timeout:  *timeout,
		Seed:     *seed,
		Verbose:  *verbose,
	}

	if err := simgames.Run(ctx, config); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
