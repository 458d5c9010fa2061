package main

import (
	"fmt"
	"os"

	"khobor"
	"khobor/config"
	"khobor/sites"
)

// defaultConfigPath is where the optional run configuration lives,
// relative to the working directory.
const defaultConfigPath = "khobor.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scrape":
		handleScrape(os.Args[2:])
	case "sources":
		handleSources(os.Args[2:])
	case "runs":
		handleRuns(os.Args[2:])
	case "show":
		handleShow(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("khobor - news story scraper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  khobor <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scrape     Scrape one source (-source <name>) or all of them (-all)")
	fmt.Println("  sources    List the available sources")
	fmt.Println("  runs       Show recorded scrape runs")
	fmt.Println("  show       Print the stories in a saved archive")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Configuration is read from " + defaultConfigPath + " when present;")
	fmt.Println("every command accepts -config to point elsewhere.")
}

// mustLoadConfig loads the configuration at path, falling back to the
// defaults when no file exists. A file that exists but cannot be used is
// an unrecoverable configuration error.
func mustLoadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg
}

// registerFeeds adds the config file's feed-backed sources to the
// registry so they resolve by name like the built-in adapters.
func registerFeeds(cfg *config.Config) {
	for _, feed := range cfg.Feeds {
		feed := feed
		sites.Register(feed.Name, func() khobor.Source {
			return sites.NewFeedSource(feed.Name, feed.URL, feed.Subdir, feed.Selectors)
		})
	}
}
