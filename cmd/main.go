// Package main is the entry point of the shuffleplay simulator.
//
// shuffleplay simulates a shuffle-play mode that avoids both immediate and
// excessively delayed repeats: each played song is reinserted at a random rank
// inside a trailing "recycle bin" of the playlist.
//
// Build:
//
//	go build -o build/shuffleplay ./cmd
//
// Run:
//
//	./build/shuffleplay run --songs 10 --plays 30 --verbose
//	./build/shuffleplay batch --songs 50 --runs 1000 --seed 42 --metrics-file metrics.prom
//	./build/shuffleplay window --max-songs 100
package main

import (
	"os"

	"github.com/tejashwikalptaru/shuffleplay/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
