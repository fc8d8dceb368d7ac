// Package ports define interfaces for dependency inversion.
// These interfaces keep the simulation core independent of concrete generators and adapters.
package ports

// RandomSource is the random-number collaborator of the simulator.
// The core consumes exactly two capabilities from it.
//
// Implementations are not required to be thread-safe. A source shared by several
// simulations must be wrapped so calls are serialized (see random.Locked).
type RandomSource interface {
	// Shuffle permutes n elements uniformly at random by calling swap.
	// Every permutation must be equally likely.
	Shuffle(n int, swap func(i, j int))

	// Uniform returns a continuous uniform value in the closed interval [lo, hi].
	Uniform(lo, hi float64) float64
}

// SourceFactory creates an independent random stream for the given stream index.
// Streams created for distinct indices must not be correlated.
type SourceFactory func(stream uint64) RandomSource
