// Package mock provides mock implementations of scrape2md interfaces
// for testing.
package mock
