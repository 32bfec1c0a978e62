// Command mash-regs reads and writes device registers described by a YAML
// register map.
//
// Register access goes through a scatter/gather registry: reads of nearby
// registers are merged into a single block transaction; writes are issued
// one per register. The device is either a raw image file or a remote
// mash-regs serve instance.
//
// Usage:
//
//	mash-regs <command> [flags] [args]
//
// Commands:
//
//	read     Read registers (all readable registers when none are named)
//	write    Write registers given as name=value
//	plan     Show the merge windows for a full read without device access
//	shell    Interactive register console
//	serve    Expose a device image over TCP
//	log      Inspect transaction logs (view, stats, export)
//
// Examples:
//
//	# Read every register of an image
//	mash-regs read -map sensor.yaml -image sensor.bin
//
//	# Poll two registers each second, exporting metrics
//	mash-regs read -map sensor.yaml -remote localhost:9502 -interval 1s -metrics-addr :9090 temperature energy
//
//	# Write a setpoint and record the transactions
//	mash-regs write -map sensor.yaml -image sensor.bin -protocol-log tx.rlog setpoint=42
//
//	# Show statistics about a transaction log
//	mash-regs log stats tx.rlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mash-protocol/mash-regs/cmd/mash-regs/commands"
	mashlog "github.com/mash-protocol/mash-regs/pkg/log"
	"github.com/mash-protocol/mash-regs/pkg/metrics"
	"github.com/mash-protocol/mash-regs/pkg/regmap"
)

const usage = `mash-regs - Scatter/Gather Register Access Tool

Usage:
  mash-regs <command> [flags] [args]

Commands:
  read     Read registers (all readable registers when none are named)
  write    Write registers given as name=value
  plan     Show the merge windows for a full read
  shell    Interactive register console
  serve    Expose a device image over TCP
  log      Inspect transaction logs (view, stats, export)

Use "mash-regs <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch cmd {
	case "read":
		runRead(ctx, args)
	case "write":
		runWrite(ctx, args)
	case "plan":
		runPlan(args)
	case "shell":
		runShell(ctx, args)
	case "serve":
		runServe(ctx, args)
	case "log":
		runLog(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// deviceFlags are the flags shared by commands that access a device.
type deviceFlags struct {
	mapPath     string
	imagePath   string
	imageSize   int
	remote      string
	gap         int
	protocolLog string
	logLevel    string
	metricsAddr string
}

func (d *deviceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&d.mapPath, "map", "", "Register map file (YAML, required)")
	fs.StringVar(&d.imagePath, "image", "", "Device image file")
	fs.IntVar(&d.imageSize, "size", commands.DefaultImageSize, "Size of a newly created image in bytes")
	fs.StringVar(&d.remote, "remote", "", "Address of a mash-regs serve instance (overrides -image)")
	fs.IntVar(&d.gap, "gap", -1, "Merge gap threshold in bytes (default: from map, else 10)")
	fs.StringVar(&d.protocolLog, "protocol-log", "", "File path for transaction logging (CBOR format)")
	fs.StringVar(&d.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&d.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
}

// open sets up logging and metrics and opens the session. The returned
// cleanup function must be called before exit.
func (d *deviceFlags) open(ctx context.Context) (*commands.Session, func()) {
	setupLogging(d.logLevel)

	opts := commands.SessionOptions{
		MapPath:      d.mapPath,
		ImagePath:    d.imagePath,
		ImageSize:    d.imageSize,
		Remote:       d.remote,
		GapThreshold: d.gap,
		ProtocolLog:  d.protocolLog,
	}
	if d.logLevel == "debug" {
		opts.Trace = os.Stderr
	}

	stopMetrics := func() {}
	if d.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		opts.Loggers = []mashlog.Logger{metrics.NewCollector(reg)}
		stopMetrics = startMetricsServer(d.metricsAddr, reg)
	}

	s, err := commands.OpenSession(ctx, opts)
	if err != nil {
		stopMetrics()
		fatal(err)
	}
	if d.protocolLog != "" {
		log.Printf("Protocol logging to: %s", d.protocolLog)
	}

	return s, func() {
		if err := s.Close(); err != nil {
			log.Printf("Error closing session: %v", err)
		}
		stopMetrics()
	}
}

func startMetricsServer(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server failed: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func runRead(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mash-regs read - Read registers

Usage:
  mash-regs read [flags] [name...]

Flags:
`)
		fs.PrintDefaults()
	}

	var dev deviceFlags
	dev.register(fs)
	save := fs.String("save", "", "Save the values as a JSON snapshot")
	interval := fs.Duration("interval", 0, "Repeat the read at this interval until interrupted")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, cleanup := dev.open(ctx)
	defer cleanup()

	opts := commands.ReadOptions{
		Names:        fs.Args(),
		SnapshotPath: *save,
		Interval:     *interval,
	}
	if err := commands.RunRead(ctx, s, opts, os.Stdout); err != nil {
		cleanup()
		fatal(err)
	}
}

func runWrite(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mash-regs write - Write registers

Usage:
  mash-regs write [flags] name=value...

Flags:
`)
		fs.PrintDefaults()
	}

	var dev deviceFlags
	dev.register(fs)
	restore := fs.String("restore", "", "Write every writable register found in a snapshot")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	assignments, err := commands.ParseAssignments(fs.Args())
	if err != nil {
		fatal(err)
	}

	s, cleanup := dev.open(ctx)
	defer cleanup()

	opts := commands.WriteOptions{
		Assignments: assignments,
		RestorePath: *restore,
	}
	if err := commands.RunWrite(ctx, s, opts, os.Stdout); err != nil {
		cleanup()
		fatal(err)
	}
}

func runPlan(args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mash-regs plan - Show merge windows for a full read

Usage:
  mash-regs plan -map <file.yaml> [-gap n]

Flags:
`)
		fs.PrintDefaults()
	}

	mapPath := fs.String("map", "", "Register map file (YAML, required)")
	gap := fs.Int("gap", -1, "Merge gap threshold in bytes (default: from map, else 10)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *mapPath == "" {
		fmt.Fprintln(os.Stderr, "Error: register map (-map) required")
		fs.Usage()
		os.Exit(1)
	}

	m, err := regmap.Load(*mapPath)
	if err != nil {
		fatal(err)
	}
	if err := commands.RunPlan(m, *gap, os.Stdout); err != nil {
		fatal(err)
	}
}

func runShell(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	var dev deviceFlags
	dev.register(fs)

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	s, cleanup := dev.open(ctx)
	defer cleanup()

	if err := commands.NewShell(s, os.Stdout).Run(ctx); err != nil {
		cleanup()
		fatal(err)
	}
}

func runServe(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mash-regs serve - Expose a device image over TCP

Usage:
  mash-regs serve -image <file.bin> [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	listen := fs.String("listen", ":9502", "Listen address")
	image := fs.String("image", "", "Device image file (required)")
	size := fs.Int("size", commands.DefaultImageSize, "Size of a newly created image in bytes")
	save := fs.Bool("save", true, "Save the image on shutdown")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	setupLogging(*logLevel)

	opts := commands.ServeOptions{
		Address:   *listen,
		ImagePath: *image,
		ImageSize: *size,
		Save:      *save,
	}
	if err := commands.RunServe(ctx, opts, log.Writer()); err != nil {
		fatal(err)
	}
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
