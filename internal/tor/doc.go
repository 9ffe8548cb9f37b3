// Package tor provides the anonymizing transport for onionwatch.
//
// A Provider acquires one Session per run. When circuit rotation is enabled
// it first authenticates against the Tor control port (through tornago) and
// sends the NEWNYM signal, then it builds an HTTP client whose connections
// all go through the local SOCKS5 proxy with remote name resolution.
//
// EmbeddedTor can start a private daemon for hosts without a system Tor,
// and the onion helpers validate v3 host names so malformed targets can be
// flagged before they are fetched.
package tor
