package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"khobor"
	"khobor/history"
	"khobor/sites"
)

func handleShow(args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	limit := fs.Int("limit", 5, "Maximum stories to print (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: archive path is required\n")
		fmt.Fprintf(os.Stderr, "Usage: khobor show <archive.json> [-limit N]\n")
		os.Exit(1)
	}

	archive, err := khobor.LoadArchive(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Source:  %s\n", archive.Source)
	fmt.Printf("Scraped: %s\n", archive.ScrapedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Stories: %d\n\n", archive.StoryCount)
	printStories(archive.Stories, *limit)
}

func handleRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum runs to list (0 = all)")
	configPath := fs.String("config", defaultConfigPath, "Path to config file")
	fs.Parse(args)

	cfg := mustLoadConfig(*configPath)

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.Recent(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	fmt.Printf("%-36s  %-28s  %-19s  %7s  %s\n", "RUN", "SOURCE", "FINISHED", "STORIES", "ARCHIVE")
	for _, run := range runs {
		status := run.ArchivePath
		if run.Error != "" {
			status = "error: " + truncate(run.Error, 48)
		}
		fmt.Printf("%-36s  %s  %-19s  %7d  %s\n",
			run.RunID,
			pad(truncate(run.Source, 28), 28),
			run.FinishedAt.Format("2006-01-02 15:04:05"),
			run.StoryCount,
			status)
	}
}

func handleSources(args []string) {
	fs := flag.NewFlagSet("sources", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to config file")
	fs.Parse(args)

	cfg := mustLoadConfig(*configPath)
	registerFeeds(cfg)

	fmt.Println("Available sources:")
	for _, name := range sites.Names() {
		source, err := sites.ByName(name)
		if err != nil {
			continue
		}
		fmt.Printf("  %-16s %s\n", name, source.ListingURL())
	}
}

// printStories prints a bounded, human-readable summary of stories.
func printStories(stories []khobor.Story, limit int) {
	if len(stories) == 0 {
		fmt.Println("No stories to display.")
		return
	}

	shown := stories
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	fmt.Println(strings.Repeat("=", 78))
	for i, story := range shown {
		fmt.Printf("%d. %s\n", i+1, truncate(story.Headline, 74))
		fmt.Printf("   URL: %s\n", story.URL)
		if story.PublishedAt != "" {
			fmt.Printf("   Published: %s\n", story.PublishedAt)
		}
		if story.Description != "" {
			fmt.Printf("   Description: %d characters\n", len([]rune(story.Description)))
		}
		if len(story.ImageURLs) > 0 || len(story.LocalImages) > 0 {
			fmt.Printf("   Images: %d listed, %d cached\n", len(story.ImageURLs), len(story.LocalImages))
		}
		fmt.Println()
	}
	if len(shown) < len(stories) {
		fmt.Printf("... and %d more\n", len(stories)-len(shown))
	}
}

// truncate shortens s to at most width display columns. Headlines here are
// mostly Bengali, so cutting goes by display width rather than bytes.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// pad right-pads s with spaces to the given display width.
func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
