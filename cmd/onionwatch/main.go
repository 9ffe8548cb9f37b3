// Package main provides the entry point for the onionwatch CLI.
//
// onionwatch fetches a list of .onion targets through Tor, looks for
// keywords, classifies the sentiment of each page, stores the findings in a
// local database and can mail them to an analyst.
//
// Usage:
//
//	onionwatch scan --targets a.onion,b.onion --keywords leak,ransomware
//	onionwatch interactive
//	onionwatch notify analyst@example.com
//
// See --help for all available options.
package main

// main is the entry point for onionwatch.
func main() {
	Execute()
}
