package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
)

// Version is set at build time via -ldflags.
var Version = ""

var (
	projectRoot = flag.String("project", ".", "project root directory")
	configPath  = flag.String("config", "", "path to config file (default <project>/.roadmap.json)")
	roadmapFile = flag.String("file", "", "roadmap file, overrides roadmap.path from config")
	dryRun      = flag.Bool("dry-run", false, "print a diff of the update instead of writing it")
	check       = flag.Bool("check", false, "exit non-zero if the roadmap counts are stale")
	watchMode   = flag.Bool("watch", false, "keep running and update on every change")
	reportFmt   = flag.String("report", "", "print a progress report after updating: text, json, markdown")
	viewMode    = flag.Bool("view", false, "open a read-only progress dashboard")
	copyBlock   = flag.Bool("copy", false, "copy the generated summary block to the clipboard")
	recordHist  = flag.Bool("history", false, "record a progress snapshot in the history database")
	listHist    = flag.Int("history-list", 0, "print the N most recent history snapshots and exit")
	initConfig  = flag.Bool("init-config", false, "write the effective configuration file and exit")
	debugLog    = flag.Bool("debug", false, "enable debug logging")
	showVersion = flag.Bool("version", false, "show version")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("roadmap-update " + effectiveVersion(Version))
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *debugLog {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		ProjectRoot: *projectRoot,
		ConfigPath:  *configPath,
		File:        *roadmapFile,
		DryRun:      *dryRun,
		Check:       *check,
		Watch:       *watchMode,
		Report:      *reportFmt,
		View:        *viewMode,
		Copy:        *copyBlock,
		History:     *recordHist,
		HistoryList: *listHist,
		InitConfig:  *initConfig,
	}

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		if !errors.Is(err, errStale) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// effectiveVersion returns the build-time version, falling back to the
// module version recorded in the binary.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return "devel+" + s.Value[:7]
		}
	}
	return "devel"
}
