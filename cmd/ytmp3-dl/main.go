package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/download"
)

func main() {
	// Command line flags
	var (
		urlFlag         = flag.String("url", "", "YouTube URL to download (video or playlist)")
		outputFlag      = flag.String("output", "", "Output directory (overrides config)")
		configFlag      = flag.String("config", "", "Path to config file")
		tagExistingFlag = flag.String("tag-existing", "", "Tag existing MP3 files in the given directory instead of downloading")
		playlistFlag    = flag.Bool("playlist", false, "Create M3U playlist file for playlist downloads")
		concurrencyFlag = flag.Int("concurrency", 0, "Number of parallel downloads (overrides config)")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	if *playlistFlag {
		settings.CreatePlaylist = true
	}
	if *concurrencyFlag > 0 {
		settings.MaxConcurrentDownloads = *concurrencyFlag
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	if *verboseFlag {
		manager.SetTransferFunc(func(p download.TransferProgress) {
			fmt.Printf("\r   %.0f%% %s", p.Percent, p.Speed)
			if p.Percent >= 100 {
				fmt.Println()
			}
		})
	}

	fmt.Println("🎵 YouTube MP3 Downloader")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	// Retro-tagging mode
	if *tagExistingFlag != "" {
		report, err := manager.TagExisting(ctx, *tagExistingFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error tagging files: %v\n", err)
			os.Exit(1)
		}
		if !report.Success() {
			os.Exit(1)
		}
		return
	}

	url := *urlFlag
	if url == "" && flag.NArg() > 0 {
		url = flag.Arg(0)
	}
	if url == "" {
		url = promptURL()
	}
	if url == "" {
		fmt.Println("YouTube MP3 Downloader - Download YouTube audio as tagged MP3 files")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ytmp3-dl -url <URL> [options]")
		fmt.Println("  ytmp3-dl <URL> [options]")
		fmt.Println("  ytmp3-dl -tag-existing <dir> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: ytmp3-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := manager.Run(ctx, url); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	done, total, _ := manager.GetProgress()
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! Processed %d/%d videos\n", done, total)
}

// promptURL asks for a URL interactively when none was given on the
// command line.
func promptURL() string {
	fmt.Print("Enter YouTube URL (video or playlist): ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
