// Command unique-ids runs a unique id generation node over stdin and stdout.
package main

import (
	"go.uber.org/zap"

	"github.com/ryandielhenn/dist-sys/internal/app"
	"github.com/ryandielhenn/dist-sys/pkg/node"
	"github.com/ryandielhenn/dist-sys/pkg/uniqueid"
)

func main() {
	app.Main(func(*zap.Logger) node.Node { return uniqueid.New() })
}
