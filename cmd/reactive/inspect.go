package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/reactive/internal/demo"
	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/inspect"
	"github.com/vango-dev/reactive/pkg/metrics"
	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/tracing"
)

func inspectCmd(g *globals) *cobra.Command {
	var (
		addr string
		tick time.Duration
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve a live graph over HTTP",
		Long: `Build the counter graph, increment its counter on every tick and
serve the graph until interrupted.

Routes:
  /healthz   liveness
  /graph     JSON snapshot of the graph
  /events    websocket stream of engine events
  /metrics   Prometheus metrics (when metrics are enabled)

Examples:
  reactive inspect
  reactive inspect --addr=127.0.0.1:9000 --tick=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				g.cfg.Inspect.Addr = addr
			}
			interval, err := g.cfg.TickInterval()
			if err != nil {
				return errors.New(errors.CodeConfigInvalid).Wrap(err)
			}
			if tick > 0 {
				interval = tick
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runInspect(ctx, g, interval, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().DurationVarP(&tick, "tick", "t", 0, "Interval between counter writes (default from config)")

	return cmd
}

func runInspect(ctx context.Context, g *globals, interval time.Duration, w io.Writer) error {
	cfg, logger := g.cfg, g.logger

	srvOpts := []inspect.Option{
		inspect.WithLogger(logger),
		inspect.WithEventBuffer(cfg.Inspect.EventBuffer),
	}
	rtOpts := []reactive.RuntimeOption{
		reactive.WithName(cfg.Name),
		reactive.WithLogger(logger),
		reactive.WithMaxEffectRuns(cfg.Runtime.MaxEffectRuns),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		rtOpts = append(rtOpts, reactive.WithProbe(metrics.New(
			metrics.WithRegistry(reg),
			metrics.WithNamespace(cfg.Metrics.Namespace),
		)))
		srvOpts = append(srvOpts, inspect.WithGatherer(reg))
	}

	if cfg.Tracing.Enabled {
		tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(tracing.NewLogProcessor(logger)))
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn("tracer shutdown", "error", err)
			}
		}()
		rtOpts = append(rtOpts, reactive.WithProbe(tracing.New(
			tracing.WithTracerProvider(tp),
			tracing.WithTracerName(cfg.Tracing.TracerName),
			tracing.WithContext(ctx),
		)))
	}

	srv := inspect.New(srvOpts...)
	rt := reactive.NewRuntime(append(rtOpts, reactive.WithProbe(srv))...)
	srv.Attach(rt)

	var graph *demo.Graph
	_ = srv.Do(func(rt *reactive.Runtime) { graph = demo.NewGraph(rt, logger) })
	defer func() { _ = srv.Do(func(*reactive.Runtime) { graph.Close() }) }()

	success(w, "Inspecting %q on %s", cfg.Name, cfg.Inspect.Addr)
	info(w, "Writing the counter every %s", interval)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := srv.ListenAndServe(egCtx, cfg.Inspect.Addr); err != nil {
			return errors.New(errors.CodeServe).WithCause(cfg.Inspect.Addr).Wrap(err)
		}
		return nil
	})
	eg.Go(func() error {
		drive(egCtx, srv, graph, interval, logger)
		return nil
	})
	return eg.Wait()
}

// drive increments the counter every interval until ctx is done. Failures
// raised by the cascade are logged and the loop goes on.
func drive(ctx context.Context, srv *inspect.Server, graph *demo.Graph, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = srv.Do(func(*reactive.Runtime) {
				if err := graph.Counter.TrySet(graph.Counter.Peek() + 1); err != nil {
					logger.Warn("tick failed", "error", errors.FromError(err).FormatCompact())
				}
			})
		}
	}
}
