// Command scrape2md crawls a website breadth-first and saves each
// distinct page as a markdown file.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/taralika/scrape2md"
	"github.com/taralika/scrape2md/crawl"
	"github.com/taralika/scrape2md/fs"
	"github.com/taralika/scrape2md/goquery"
	"github.com/taralika/scrape2md/htmltomarkdown"
	scrapehttp "github.com/taralika/scrape2md/http"
	"github.com/taralika/scrape2md/rod"
	scrapeslog "github.com/taralika/scrape2md/slog"
	"github.com/taralika/scrape2md/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// NewRenderer creates the rendering collaborator. Overridable in
	// tests so they do not require a browser.
	NewRenderer func() (scrape2md.Renderer, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewRenderer: func() (scrape2md.Renderer, error) {
			return rod.NewRenderer()
		},
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scrape2md"),
		kong.Description("Crawl a website and save each distinct page as markdown."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no URL specified. Run 'scrape2md --help' for usage")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	seed, ok := scrape2md.Normalize(cli.URL, nil)
	if !ok {
		return scrape2md.Errorf(scrape2md.EINVALID, "invalid URL %q: expected an absolute http(s) URL", cli.URL)
	}
	if cli.MaxPages <= 0 {
		return scrape2md.Errorf(scrape2md.EINVALID, "max-pages must be positive, got %d", cli.MaxPages)
	}

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	renderer, err := m.NewRenderer()
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer renderer.Close()

	crawler := m.buildCrawler(cli, seed, renderer, logger)

	fmt.Fprintf(stdout, "Crawling %s (up to %d pages)\n", seed, cli.MaxPages)

	result, err := crawler.Run(ctx, seed, func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressCompleted:
			fmt.Fprintf(stdout, "  [%d/%d] %s\n", event.Completed, event.Total, crawl.TruncateURL(event.URL, 70))
		case crawl.ProgressFailed:
			fmt.Fprintf(stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 70), event.Error)
		}
	})
	if err != nil {
		return err
	}

	siteDir := filepath.Join(cli.Output, fs.SanitizeDomain(hostOf(seed)))
	var bytes int
	for _, page := range result.Pages {
		bytes += len(page.Content)
	}
	fmt.Fprintf(stdout, "Saved %d pages (%s) to %s\n", len(result.Pages), crawl.FormatBytes(bytes), siteDir)
	if result.Duplicates > 0 || result.Empty > 0 || result.Failed > 0 {
		fmt.Fprintf(stdout, "Skipped %d duplicates, %d empty, %d failed\n",
			result.Duplicates, result.Empty, result.Failed)
	}
	return nil
}

// buildCrawler wires the crawl pipeline from the parsed flags.
func (m *Main) buildCrawler(cli *CLI, seed string, renderer scrape2md.Renderer, logger *slog.Logger) *crawl.Crawler {
	var extractor scrape2md.Extractor = goquery.NewExtractor(goquery.WithFallback(trafilatura.NewExtractor()))

	var writer scrape2md.PageWriter = fs.NewWriter(cli.Output)
	var sitemaps scrape2md.SitemapService
	if cli.Sitemap {
		sitemaps = scrapehttp.NewSitemapService(nil)
	}

	var resources scrape2md.ResourceDownloader
	if cli.DownloadImages {
		siteDir := filepath.Join(cli.Output, fs.SanitizeDomain(hostOf(seed)))
		resources = scrapehttp.NewResourceStore(nil, siteDir)
	}

	if cli.Verbose {
		renderer = rod.NewLoggingRenderer(renderer, logger)
		extractor = scrapeslog.NewLoggingExtractor(extractor, logger)
		writer = scrapeslog.NewLoggingPageWriter(writer, logger)
		if sitemaps != nil {
			sitemaps = scrapeslog.NewLoggingSitemapService(sitemaps, logger)
		}
	}

	return &crawl.Crawler{
		Renderer:         renderer,
		Extractor:        extractor,
		Converter:        htmltomarkdown.NewConverter(),
		Pages:            writer,
		Limiter:          crawl.NewDomainLimiter(time.Duration(cli.Delay * float64(time.Second))),
		Sitemaps:         sitemaps,
		Resources:        resources,
		MaxPages:         cli.MaxPages,
		RenderTimeout:    time.Duration(cli.Timeout * float64(time.Second)),
		AllowCrossOrigin: cli.CrossOrigin,
		Logger:           logger,
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
