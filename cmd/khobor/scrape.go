package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"khobor"
	"khobor/config"
	"khobor/fetch"
	"khobor/history"
	"khobor/media"
	"khobor/sites"
)

func handleScrape(args []string) {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	sourceName := fs.String("source", "", "Source to scrape (see 'khobor sources')")
	all := fs.Bool("all", false, "Scrape every registered source")
	maxStories := fs.Int("max-stories", 0, "Maximum stories to scrape per source (0 = all)")
	delay := fs.Duration("delay", time.Duration(config.DefaultDelaySeconds)*time.Second, "Pause between detail fetches")
	dataDir := fs.String("data", config.DefaultDataDir, "Directory for archives and cached media")
	configPath := fs.String("config", defaultConfigPath, "Path to config file")
	fs.Parse(args)

	cfg := mustLoadConfig(*configPath)
	registerFeeds(cfg)

	// The config file supplies defaults; flags the user actually set win.
	runDelay := cfg.Delay()
	runMax := cfg.MaxStories
	runData := cfg.DataDir
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "delay":
			runDelay = *delay
		case "max-stories":
			runMax = *maxStories
		case "data":
			runData = *dataDir
		}
	})

	var sources []khobor.Source
	if *all {
		sources = sites.All()
	} else {
		if *sourceName == "" {
			fmt.Fprintf(os.Stderr, "Error: -source or -all is required\n\n")
			fs.Usage()
			os.Exit(1)
		}
		source, err := sites.ByName(*sourceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		sources = []khobor.Source{source}
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	client := fetch.NewClientWithTimeout(cfg.Timeout())
	if cfg.UserAgent != "" {
		client.SetUserAgent(cfg.UserAgent)
	}
	cache := media.NewCache(runData, client)

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		log.Warn("run history unavailable", "path", cfg.HistoryDB, "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	for _, source := range sources {
		scrapeSource(source, client, cache, store, runData, runDelay, runMax, log)
	}
}

// scrapeSource runs one source end to end and records the outcome. A run
// that completes with zero stories is still a completed run.
func scrapeSource(source khobor.Source, client *fetch.Client, cache *media.Cache, store *history.Store, dataDir string, delay time.Duration, maxStories int, log *slog.Logger) {
	scraper := khobor.NewScraper(source, client, cache, delay, log)

	run := history.Run{Source: source.Name(), StartedAt: time.Now()}
	stories, err := scraper.Run(context.Background(), maxStories)
	run.FinishedAt = time.Now()
	run.StoryCount = len(stories)

	switch {
	case err != nil:
		run.Error = err.Error()
		log.Error("scrape failed", "source", source.Name(), "error", err)
		fmt.Printf("%s: failed (%v)\n", source.Name(), err)
	case len(stories) == 0:
		fmt.Printf("%s: no stories found\n", source.Name())
	default:
		archive := khobor.NewArchive(source.Name(), stories)
		path, saveErr := archive.Save(dataDir)
		if saveErr != nil {
			run.Error = saveErr.Error()
			log.Error("archive save failed", "source", source.Name(), "error", saveErr)
			fmt.Printf("%s: scraped %d stories but saving failed (%v)\n", source.Name(), len(stories), saveErr)
			break
		}
		run.ArchivePath = path
		verifyArchive(path, len(stories), log)
		fmt.Printf("%s: scraped %d stories -> %s\n", source.Name(), len(stories), path)
	}

	if store != nil {
		if _, err := store.Record(run); err != nil {
			log.Warn("recording run failed", "source", source.Name(), "error", err)
		}
	}
}

// verifyArchive reloads a freshly written archive to prove it parses
// back with the expected story count.
func verifyArchive(path string, want int, log *slog.Logger) {
	archive, err := khobor.LoadArchive(path)
	if err != nil {
		log.Warn("archive verification failed", "path", path, "error", err)
		return
	}
	if archive.StoryCount != want || len(archive.Stories) != want {
		log.Warn("archive story count mismatch", "path", path, "want", want, "got", archive.StoryCount)
		return
	}
	log.Info("archive verified", "path", path, "stories", archive.StoryCount)
}
