// Command reactorctl exercises the reactive runtime's canonical
// scenarios from the command line, optionally recording a trace and
// serving Prometheus metrics, grounded on the teacher's
// examples/prometheus_monitoring demo and the pack's cmd/nornicdb
// Cobra layout.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dshills/reactive-go/reactive"
	"github.com/dshills/reactive-go/reactive/config"
	"github.com/dshills/reactive-go/reactive/emit"
	"github.com/dshills/reactive-go/reactive/metrics"
	"github.com/dshills/reactive-go/reactive/trace"
)

var (
	version    = "0.1.0"
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reactorctl",
		Short: "Drive the reactive runtime's canonical scenarios",
		Long: `reactorctl runs the reactive engine's worked scenarios —
plain dependency chains, shared expressions, value-equality gating,
laziness, isolated reads, and the self-mutating cycles — printing each
node's execution count so the engine's behavior can be inspected
without writing Go.`,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a reactorctl.yaml config file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reactorctl v%s\n", version)
		},
	})
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		Run: func(cmd *cobra.Command, args []string) {
			for _, s := range scenarios {
				fmt.Println(s.name)
			}
		},
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario|all]",
		Short: "Run one scenario, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRun,
	}
	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	target := "all"
	if len(args) == 1 {
		target = args[0]
	}

	var toRun []scenario
	if target == "all" {
		toRun = scenarios
	} else {
		s, err := findScenario(target)
		if err != nil {
			return err
		}
		toRun = []scenario{s}
	}

	var collector *metrics.PrometheusCollector
	var stopMetrics func()
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		collector = metrics.NewPrometheusCollector(registry)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{Addr: cfg.MetricsAddress, Handler: mux}
		go func() {
			log.Printf("metrics listening on %s", cfg.MetricsAddress)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server error: %v", err)
			}
		}()
		stopMetrics = func() { _ = server.Close() }
		defer stopMetrics()
	}

	recorder, closeRecorder, err := buildRecorder(cfg)
	if err != nil {
		return err
	}
	if closeRecorder != nil {
		defer closeRecorder()
	}

	for _, s := range toRun {
		runID := uuid.NewString()
		opts := []reactive.Option{}
		if emitter := buildEmitter(cfg, recorder, runID); emitter != nil {
			opts = append(opts, reactive.WithEmitter(emitter))
		}
		if collector != nil {
			opts = append(opts, reactive.WithMetrics(collector))
		}
		if cfg.MaxFlushIterations > 0 {
			opts = append(opts, reactive.WithMaxFlushIterations(cfg.MaxFlushIterations))
		}

		rt := reactive.New(opts...)
		start := time.Now()
		counts, err := s.run(rt)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", s.name, err)
		}

		fmt.Printf("%s (run=%s, %s):\n", s.name, runID, time.Since(start))
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("  %s = %d\n", k, counts[k])
		}
	}

	return nil
}

// buildEmitter wires cfg.Emitter to a concrete reactive.Emitter. A
// "buffered" or "log" emitter observes; "none" leaves the engine
// unobserved. A trace recorder, if configured, gets its own emitter
// regardless, since recording and human-readable logging are separate
// concerns that may both be on at once.
func buildEmitter(cfg *config.Config, recorder trace.Recorder, runID string) reactive.Emitter {
	var emitters []reactive.Emitter

	switch cfg.Emitter {
	case "log":
		emitters = append(emitters, emit.NewLogEmitter(os.Stdout, cfg.LogJSON))
	case "buffered":
		emitters = append(emitters, emit.NewBufferedEmitter())
	}

	if recorder != nil {
		emitters = append(emitters, trace.NewRecordingEmitter(recorder, runID))
	}

	switch len(emitters) {
	case 0:
		return nil
	case 1:
		return emitters[0]
	default:
		return fanoutEmitter(emitters)
	}
}

// fanoutEmitter lets more than one Emitter observe the same run (e.g. a
// log emitter for the terminal and a trace recorder for later replay).
type fanoutEmitter []reactive.Emitter

func (f fanoutEmitter) Emit(ev reactive.Event) {
	for _, e := range f {
		e.Emit(ev)
	}
}

func buildRecorder(cfg *config.Config) (trace.Recorder, func(), error) {
	switch cfg.TraceRecorder {
	case "memory":
		rec := trace.NewMemoryRecorder()
		return rec, func() { _ = rec.Close() }, nil
	case "sqlite":
		path := cfg.TraceDSN
		if path == "" {
			path = "reactorctl-trace.db"
		}
		rec, err := trace.NewSQLiteRecorder(path)
		if err != nil {
			return nil, nil, err
		}
		return rec, func() { _ = rec.Close() }, nil
	case "mysql":
		rec, err := trace.NewMySQLRecorder(cfg.TraceDSN)
		if err != nil {
			return nil, nil, err
		}
		return rec, func() { _ = rec.Close() }, nil
	default:
		return nil, nil, nil
	}
}
