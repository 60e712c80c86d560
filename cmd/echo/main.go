// Command echo runs an echo node over stdin and stdout.
package main

import (
	"go.uber.org/zap"

	"github.com/ryandielhenn/dist-sys/internal/app"
	"github.com/ryandielhenn/dist-sys/pkg/echo"
	"github.com/ryandielhenn/dist-sys/pkg/node"
)

func main() {
	app.Main(func(*zap.Logger) node.Node { return echo.New() })
}
