package tor

import (
	"encoding/base32"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	onionSuffix  = ".onion"
	onionVersion = 0x03
)

// ErrInvalidOnionAddress is returned for a .onion host that is not a
// well-formed v3 address.
var ErrInvalidOnionAddress = errors.New("invalid v3 onion address")

var onionV3Pattern = regexp.MustCompile(`^[a-z2-7]{56}\.onion$`)

// checksumPrefix is the salt of the v3 address checksum.
var checksumPrefix = []byte(".onion checksum")

// IsOnionURL reports whether rawURL points to a .onion host, including
// subdomains of one.
func IsOnionURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Hostname()), onionSuffix)
}

// CheckOnionURL returns ErrInvalidOnionAddress when rawURL has a .onion
// host whose address part fails v3 validation. Other URLs pass.
func CheckOnionURL(rawURL string) error {
	if !IsOnionURL(rawURL) {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ErrInvalidOnionAddress
	}
	labels := strings.Split(strings.ToLower(u.Hostname()), ".")
	if len(labels) < 2 {
		return ErrInvalidOnionAddress
	}
	// The service address is the label right before ".onion".
	if !IsValidV3Address(labels[len(labels)-2] + onionSuffix) {
		return ErrInvalidOnionAddress
	}
	return nil
}

// IsValidV3Address verifies the format, version byte and checksum of a v3
// onion address such as "<56 base32 chars>.onion".
func IsValidV3Address(address string) bool {
	address = strings.ToLower(address)
	if !onionV3Pattern.MatchString(address) {
		return false
	}

	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(strings.TrimSuffix(address, onionSuffix)))
	if err != nil || len(decoded) != 35 {
		return false
	}

	// 32 byte ed25519 key, 2 byte checksum, 1 byte version.
	pubkey, checksum, version := decoded[:32], decoded[32:34], decoded[34]
	if version != onionVersion {
		return false
	}
	want := v3Checksum(pubkey, version)
	return checksum[0] == want[0] && checksum[1] == want[1]
}

// AddressFromPublicKey builds the v3 address of an ed25519 public key.
func AddressFromPublicKey(pubkey []byte) (string, error) {
	if len(pubkey) != 32 {
		return "", ErrInvalidOnionAddress
	}
	data := make([]byte, 35)
	copy(data, pubkey)
	copy(data[32:], v3Checksum(pubkey, onionVersion))
	data[34] = onionVersion
	return strings.ToLower(base32.StdEncoding.EncodeToString(data)) + onionSuffix, nil
}

// v3Checksum is the first two bytes of SHA3-256(".onion checksum" || pubkey || version).
func v3Checksum(pubkey []byte, version byte) []byte {
	data := make([]byte, 0, len(checksumPrefix)+len(pubkey)+1)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)
	sum := sha3.Sum256(data)
	return sum[:2]
}
