// Package scrape2md crawls a website breadth-first, extracts the primary
// content of each reachable page (including content injected dynamically
// or embedded in iframes), discards boilerplate and duplicate material,
// and emits one clean markdown document per distinct page.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/,
// goquery/, htmltomarkdown/), with crawl orchestration in crawl/.
package scrape2md
