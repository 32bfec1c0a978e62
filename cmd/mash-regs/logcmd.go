package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mash-protocol/mash-regs/cmd/mash-regs/commands"
	mashlog "github.com/mash-protocol/mash-regs/pkg/log"
)

const logUsage = `mash-regs log - Inspect transaction logs

Usage:
  mash-regs log <command> [flags] <file.rlog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file
  export   Export log file to JSONL or CSV format
`

func runLog(args []string) {
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, logUsage)
		os.Exit(1)
	}

	switch args[0] {
	case "view":
		runLogView(args[1:])
	case "stats":
		runLogStats(args[1:])
	case "export":
		runLogExport(args[1:])
	case "-h", "-help", "--help", "help":
		fmt.Print(logUsage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown log command: %s\n", args[0])
		fmt.Fprint(os.Stderr, logUsage)
		os.Exit(1)
	}
}

func runLogView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mash-regs log view - View log file in human-readable format

Usage:
  mash-regs log view [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}

	direction := fs.String("direction", "", "Filter by direction (read, write)")
	category := fs.String("category", "", "Filter by category (block, pass, error)")
	session := fs.String("session", "", "Filter by session ID")
	device := fs.String("device", "", "Filter by device label")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	addrMin := fs.Int("addr-min", -1, "Only events touching addresses >= this")
	addrMax := fs.Int("addr-max", -1, "Only events touching addresses <= this")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter := mashlog.Filter{
		SessionID: *session,
		Device:    *device,
	}

	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fatal(err)
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fatal(err)
		}
		filter.Category = &c
	}
	if *timeStart != "" {
		t, err := time.Parse(time.RFC3339, *timeStart)
		if err != nil {
			fatal(fmt.Errorf("invalid time-start: %w", err))
		}
		filter.TimeStart = &t
	}
	if *timeEnd != "" {
		t, err := time.Parse(time.RFC3339, *timeEnd)
		if err != nil {
			fatal(fmt.Errorf("invalid time-end: %w", err))
		}
		filter.TimeEnd = &t
	}
	if *addrMin >= 0 {
		filter.AddressMin = addrMin
	}
	if *addrMax >= 0 {
		filter.AddressMax = addrMax
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runLogStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mash-regs log stats - Show statistics about the log file

Usage:
  mash-regs log stats <file.rlog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fatal(err)
	}
}

func runLogExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `mash-regs log export - Export log file to JSONL or CSV format

Usage:
  mash-regs log export [flags] <file.rlog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunExport(fs.Arg(0), *format, *output); err != nil {
		fatal(err)
	}
}
