// Command broadcast runs a gossip broadcast node over stdin and stdout.
package main

import (
	"go.uber.org/zap"

	"github.com/ryandielhenn/dist-sys/internal/app"
	"github.com/ryandielhenn/dist-sys/pkg/gossip"
	"github.com/ryandielhenn/dist-sys/pkg/node"
)

func main() {
	app.Main(func(logger *zap.Logger) node.Node {
		return gossip.New(gossip.WithLogger(logger))
	})
}
