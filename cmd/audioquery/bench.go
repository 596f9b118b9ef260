package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/born-ml/audioquery/internal/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

type benchOptions struct {
	iterations  int
	warmup      int
	concurrency int
	metricsAddr string
}

func newBenchCmd(opts *options) *cobra.Command {
	bopts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure forward pass latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if bopts.metricsAddr != "" {
				srv := serveMetrics(bopts.metricsAddr)
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
			}

			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			for i := 0; i < bopts.warmup; i++ {
				if _, _, err := s.Forward(); err != nil {
					return err
				}
			}

			latencies, wall, err := runBench(ctx, s, bopts)
			if err != nil {
				return err
			}
			report(cmd, s, opts.batch, latencies, wall)
			return nil
		},
	}

	addModelFlags(cmd, opts)
	flags := cmd.Flags()
	flags.IntVar(&bopts.iterations, "iterations", 50, "Timed forward passes")
	flags.IntVar(&bopts.warmup, "warmup", 5, "Untimed warmup passes")
	flags.IntVar(&bopts.concurrency, "concurrency", 1, "Forward passes in flight")
	flags.StringVar(&bopts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run")
	return cmd
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Log.Info("metrics serving", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("metrics server error", "err", err)
		}
	}()
	return srv
}

// runBench times bopts.iterations forward passes and returns their latencies
// in seconds together with the wall-clock time of the whole run. Fewer
// latencies are returned if ctx is cancelled.
func runBench(ctx context.Context, s session, bopts *benchOptions) ([]float64, time.Duration, error) {
	if bopts.iterations < 1 {
		return nil, 0, fmt.Errorf("invalid iterations: %d (must be positive)", bopts.iterations)
	}
	latencies := make([]float64, bopts.iterations)
	done := make([]bool, bopts.iterations)

	began := time.Now()
	var g errgroup.Group
	g.SetLimit(max(bopts.concurrency, 1))
	for i := range bopts.iterations {
		if ctx.Err() != nil {
			logger.Log.Warn("benchmark interrupted", "completed", i)
			break
		}
		g.Go(func() error {
			start := time.Now()
			if _, _, err := s.Forward(); err != nil {
				return err
			}
			latencies[i] = time.Since(start).Seconds()
			done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	wall := time.Since(began)

	out := latencies[:0]
	for i, ok := range done {
		if ok {
			out = append(out, latencies[i])
		}
	}
	return out, wall, nil
}

// throughput returns samples per second over the wall-clock time of a run.
// With several passes in flight this exceeds batch / mean latency.
func throughput(batch, passes int, wall time.Duration) float64 {
	if wall <= 0 {
		return 0
	}
	return float64(batch*passes) / wall.Seconds()
}

func report(cmd *cobra.Command, s session, batch int, latencies []float64, wall time.Duration) {
	out := cmd.OutOrStdout()
	if len(latencies) == 0 {
		fmt.Fprintln(out, "no iterations completed")
		return
	}
	slices.Sort(latencies)
	mean, std := stat.MeanStdDev(latencies, nil)
	p50 := stat.Quantile(0.5, stat.Empirical, latencies, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, latencies, nil)

	fmt.Fprintf(out, "backend:     %s\n", s.BackendName())
	fmt.Fprintf(out, "iterations:  %d\n", len(latencies))
	fmt.Fprintf(out, "batch:       %d\n", batch)
	fmt.Fprintf(out, "mean:        %.3f ms (std %.3f ms)\n", mean*1e3, std*1e3)
	fmt.Fprintf(out, "p50 / p95:   %.3f / %.3f ms\n", p50*1e3, p95*1e3)
	fmt.Fprintf(out, "throughput:  %.1f samples/s\n", throughput(batch, len(latencies), wall))
}
