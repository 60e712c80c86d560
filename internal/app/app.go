// Package app boots a node process: configuration, logging, metrics, etcd
// registration and the stdin/stdout dispatch loop.
package app

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ryandielhenn/dist-sys/internal/config"
	"github.com/ryandielhenn/dist-sys/internal/registry"
	"github.com/ryandielhenn/dist-sys/internal/telemetry"
	"github.com/ryandielhenn/dist-sys/pkg/node"
)

// Main runs the node built by build over stdin and stdout and exits the
// process when input ends or dispatch fails.
func Main(build func(*zap.Logger) node.Node) {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}
	logger, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer logger.Sync()

	if err := Run(context.Background(), cfg, logger, build(logger), os.Stdin, os.Stdout); err != nil {
		logger.Fatal("node stopped", zap.Error(err))
	}
}

// Run wires n to in and out and blocks until in is exhausted. The metrics
// server and etcd registration, when configured, live only as long as the
// dispatch loop.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger, n node.Node, in io.Reader, out io.Writer) error {
	telemetry.SetBuildInfo(cfg.Version, cfg.GitSHA)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	var opts []node.Option
	opts = append(opts, node.WithLogger(logger))

	if len(cfg.EtcdEndpoints) > 0 {
		logger.Info("creating etcd client", zap.Strings("endpoints", cfg.EtcdEndpoints))
		cli, err := registry.NewClient(cfg.EtcdEndpoints)
		if err != nil {
			return errors.Wrap(err, "etcd client")
		}
		defer cli.Close()
		opts = append(opts, node.WithInitHook(func(c node.Cluster) {
			g.Go(func() error { return announce(ctx, cli, cfg, logger, c) })
		}))
	}

	if cfg.MetricsAddr != "" {
		srv := telemetry.NewServer(cfg.MetricsAddr)
		logger.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
		g.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	rt := node.New(n, node.NewEncoder(out), opts...)
	g.Go(func() error {
		defer cancel()
		return rt.Run(in)
	})
	return g.Wait()
}

// announce registers the node in etcd and holds the lease until ctx ends.
// Failures are logged, not fatal: the registry is advisory.
func announce(ctx context.Context, cli *clientv3.Client, cfg config.Config, logger *zap.Logger, c node.Cluster) error {
	entry := registry.Entry{NodeID: c.NodeID, NodeIDs: c.NodeIDs}
	leaseID, stop, err := registry.Register(ctx, cli, cfg.EtcdPrefix, entry, cfg.RegistryTTL)
	if err != nil {
		logger.Warn("etcd registration failed", zap.Error(err))
		return nil
	}
	defer stop()
	logger.Info("registered in etcd",
		zap.String("key", registry.Key(cfg.EtcdPrefix, c.NodeID)),
		zap.Int64("lease", int64(leaseID)),
	)
	if peers, err := registry.Peers(ctx, cli, cfg.EtcdPrefix); err == nil {
		logger.Debug("registered peers", zap.Strings("peers", peers))
	}

	<-ctx.Done()
	revokeCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	_, _ = cli.Revoke(revokeCtx, leaseID)
	return nil
}
