// Package fetch retrieves a single target through a Tor session and turns
// the response into a Document whose main operation is extracting the
// human-visible text of the page.
//
// Each Fetch issues exactly one GET (plus an optional robots.txt lookup)
// bounded by a fixed timeout. There are no retries and links are never
// followed.
package fetch
