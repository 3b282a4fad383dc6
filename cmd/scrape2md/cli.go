package main

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL            string  `arg:"" help:"Seed URL of the site to crawl"`
	Output         string  `short:"o" default:"scraped_sites" help:"Directory to write markdown files to"`
	MaxPages       int     `short:"m" default:"100" help:"Maximum number of pages to save"`
	Delay          float64 `short:"d" default:"1.0" help:"Delay between requests to the same domain, in seconds"`
	Timeout        float64 `short:"t" default:"30" help:"Per-page render timeout, in seconds"`
	DownloadImages bool    `help:"Download images referenced by saved pages"`
	Sitemap        bool    `help:"Pre-seed the crawl from the site's sitemap"`
	CrossOrigin    bool    `help:"Follow links to other domains"`
	Verbose        bool    `short:"v" help:"Verbose logging"`
}
