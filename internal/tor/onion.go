package tor

import (
	"encoding/base32"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

// OnionSuffix is the common suffix for all onion addresses.
const OnionSuffix = ".onion"

// onionV3Version is the version byte for v3 onion addresses.
const onionV3Version = 0x03

// onionV3Pattern matches v3 onion host names (56 base32 characters + .onion).
var onionV3Pattern = regexp.MustCompile(`^[a-z2-7]{56}\.onion$`)

// checksumPrefix is the constant prefix hashed into a v3 address checksum.
var checksumPrefix = []byte(".onion checksum")

// IsOnionHost reports whether host is under the .onion TLD.
func IsOnionHost(host string) bool {
	return strings.HasSuffix(strings.ToLower(host), OnionSuffix)
}

// IsValidV3Address checks format, version byte and checksum of a v3
// onion host name such as "abc...xyz.onion".
func IsValidV3Address(address string) bool {
	address = strings.ToLower(address)
	if !onionV3Pattern.MatchString(address) {
		return false
	}

	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(strings.TrimSuffix(address, OnionSuffix)))
	if err != nil || len(decoded) != 35 {
		return false
	}

	// 32 bytes ed25519 public key, 2 bytes checksum, 1 byte version
	pubkey, checksum, version := decoded[:32], decoded[32:34], decoded[34]
	if version != onionV3Version {
		return false
	}

	want := v3Checksum(pubkey, version)
	return checksum[0] == want[0] && checksum[1] == want[1]
}

// v3Checksum returns SHA3-256(".onion checksum" || pubkey || version)[:2].
func v3Checksum(pubkey []byte, version byte) []byte {
	h := sha3.New256()
	h.Write(checksumPrefix)
	h.Write(pubkey)
	h.Write([]byte{version})
	return h.Sum(nil)[:2]
}

// V3Address computes the v3 onion host name for a 32-byte ed25519 public key.
func V3Address(pubkey []byte) string {
	if len(pubkey) != 32 {
		return ""
	}
	raw := make([]byte, 0, 35)
	raw = append(raw, pubkey...)
	raw = append(raw, v3Checksum(pubkey, onionV3Version)...)
	raw = append(raw, onionV3Version)
	return strings.ToLower(base32.StdEncoding.EncodeToString(raw)) + OnionSuffix
}
