package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/nickpending/catchup/internal/config"
	"github.com/nickpending/catchup/internal/library"
	"github.com/nickpending/catchup/internal/logging"
	"github.com/nickpending/catchup/internal/stream"
	"github.com/nickpending/catchup/internal/syncer"
)

func main() {
	os.Exit(run())
}

func run() int {
	libraryPath := flag.String("library", "", "Library root (overrides config and the XDG default)")
	category := flag.String("category", "", "Sync only this category")
	dryRun := flag.Bool("dry-run", false, "List pending entries without writing anything")
	verbose := flag.Bool("verbose", false, "Log at debug level")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "catchup-sync:", err)
		return 1
	}
	if *libraryPath != "" {
		cfg.Library.Path = *libraryPath
	}

	root, err := cfg.LibraryRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, "catchup-sync:", err)
		return 1
	}

	logger, err := logging.Console(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "catchup-sync:", err)
		return 1
	}
	defer logger.Sync()

	lib, err := library.Open(root, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "catchup-sync:", err)
		return 1
	}

	categories, err := lib.Categories()
	if err != nil {
		fmt.Fprintln(os.Stderr, "catchup-sync:", err)
		return 1
	}

	var streams []*stream.Stream
	found := false
	for _, cat := range categories {
		if *category != "" && cat.Name != *category {
			continue
		}
		found = true
		streams = append(streams, cat.Streams...)
	}
	if *category != "" && !found {
		fmt.Fprintf(os.Stderr, "catchup-sync: category %q not found under %s\n", *category, root)
		return 1
	}

	engine := syncer.New(syncer.Options{
		ItemLimit: cfg.Sync.ItemLimit,
		ASCIIOnly: cfg.Sync.ASCIINames,
		Timeout:   cfg.Timeout(),
	}, logger)

	if *dryRun {
		return listPending(engine, streams)
	}

	results, err := engine.SyncAll(streams, func(line string) {
		logger.Debug(line)
	})

	printSummary(results)

	if err != nil {
		return 1
	}
	return 0
}

// listPending reports what a real run would fetch, one row per entry.
func listPending(engine *syncer.Syncer, streams []*stream.Stream) int {
	table := uitable.New()
	table.MaxColWidth = 70
	table.AddRow("STREAM", "DATE", "PENDING ENTRY")

	failed := 0
	total := 0
	for _, st := range streams {
		if !st.Kind.Remote() {
			continue
		}
		items, err := engine.Pending(st)
		if err != nil {
			fmt.Fprintf(os.Stderr, "catchup-sync: %s/%s: %v\n", st.Category, st.Name, err)
			failed++
			continue
		}
		for _, item := range items {
			table.AddRow(st.Category+"/"+st.Name, item.Date, item.Name)
			total++
		}
	}

	if total == 0 && failed == 0 {
		fmt.Println("Everything is up to date.")
		return 0
	}
	if total > 0 {
		fmt.Println(table)
		fmt.Printf("\nPending: %d\n", total)
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// printSummary renders the per-stream outcome table.
func printSummary(results []syncer.Result) {
	if len(results) == 0 {
		fmt.Println("No streams to sync.")
		return
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("CATEGORY", "STREAM", "NEW", "STATUS")

	added := 0
	for _, r := range results {
		status := color.GreenString("ok")
		if r.Err != nil {
			status = color.RedString(r.Err.Error())
		} else if !r.Stream.Kind.Remote() {
			status = color.New(color.Faint).Sprint("manual, skipped")
		}
		table.AddRow(r.Stream.Category, r.Stream.Name, fmt.Sprintf("%d", r.Added), status)
		added += r.Added
	}

	fmt.Println(table)
	fmt.Printf("\n%d new item(s).\n", added)
}
