// Command simulate runs a broadcast cluster in memory and reports whether it
// converged and how many gossip messages it took.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/ryandielhenn/dist-sys/internal/telemetry"
	"github.com/ryandielhenn/dist-sys/pkg/cluster"
	"github.com/ryandielhenn/dist-sys/pkg/gossip"
	"github.com/ryandielhenn/dist-sys/pkg/message"
)

func main() {
	nodes := flag.Int("nodes", 25, "cluster size")
	topology := flag.String("topology", "grid", "line|ring|grid|total|tree2|tree3|tree4")
	values := flag.Int("values", 100, "values to broadcast")
	seed := flag.Int64("seed", 1, "seed for broadcast targets and delivery order")
	shuffle := flag.Bool("shuffle", true, "deliver in random order instead of FIFO")
	entry := flag.String("entry", "random", "random|hash: how each value picks the node it is broadcast to")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := telemetry.NewLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	ids := cluster.IDs(*nodes)
	adjacency, ok := cluster.Named(*topology, ids)
	if !ok {
		logger.Fatal("unknown topology", zap.String("topology", *topology))
	}

	var opts []cluster.Option
	opts = append(opts, cluster.WithLogger(logger))
	if *shuffle {
		opts = append(opts, cluster.WithShuffle(*seed))
	}
	net := cluster.New(opts...)
	for _, id := range ids {
		net.Add(id, gossip.New(gossip.WithLogger(logger)))
	}
	if err := net.Init(); err != nil {
		logger.Fatal("init", zap.Error(err))
	}
	if err := net.Topology(adjacency); err != nil {
		logger.Fatal("topology", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(*seed))
	pick := func(int64) string { return ids[rng.Intn(len(ids))] }
	switch *entry {
	case "random":
	case "hash":
		pick = cluster.NewPlacement(ids, 0).Entry
	default:
		logger.Fatal("unknown entry mode", zap.String("entry", *entry))
	}
	want := make([]int64, 0, *values)
	start := time.Now()
	for v := 0; v < *values; v++ {
		net.Broadcast("c1", pick(int64(v)), int64(v))
		want = append(want, int64(v))
	}
	if err := net.Drain(); err != nil {
		logger.Fatal("drain", zap.Error(err))
	}
	dur := time.Since(start)

	reads, err := net.Read("c2")
	if err != nil {
		logger.Fatal("read", zap.Error(err))
	}
	converged := 0
	for _, got := range reads {
		if slices.Equal(got, want) {
			converged++
		}
	}

	gossips := net.Delivered(message.TypeGossip)
	fmt.Printf("%d nodes, %s topology, %d values in %s\n", *nodes, *topology, *values, dur)
	fmt.Printf("gossip messages: %d (%.2f per value per node)\n",
		gossips, float64(gossips)/float64(*values)/float64(*nodes))
	fmt.Printf("converged: %d/%d\n", converged, *nodes)
	if converged != *nodes {
		os.Exit(1)
	}
}
