// Package ipkey turns textual IP addresses into the canonical network-order
// byte keys the XDB segment index is keyed on.
package ipkey

import (
	"errors"
	"net/netip"
)

// ErrInvalidAddress is returned when the input text is neither a valid IPv4
// nor a valid IPv6 address.
var ErrInvalidAddress = errors.New("ipkey: invalid address")

// Version identifies the address family a key belongs to.
type Version uint8

const (
	V4 Version = 4
	V6 Version = 6
)

// Key is the canonical network-order byte form of a parsed address: 4 bytes
// for V4, 16 bytes for V6.
type Key struct {
	Bytes   []byte
	Version Version
}

// Parse converts text into its canonical key form. Mixed-form addresses
// (IPv4-mapped IPv6, e.g. "::ffff:1.2.3.4") and zone-suffixed addresses
// ("fe80::1%eth0") are rejected: neither form is a key this engine's two
// version descriptors were built to compare.
func Parse(text string) (Key, error) {
	addr, err := netip.ParseAddr(text)
	if err != nil {
		return Key{}, ErrInvalidAddress
	}
	if addr.Zone() != "" {
		return Key{}, ErrInvalidAddress
	}
	if addr.Is4() {
		b := addr.As4()
		return Key{Bytes: b[:], Version: V4}, nil
	}
	if addr.Is6() {
		if addr.Is4In6() {
			return Key{}, ErrInvalidAddress
		}
		b := addr.As16()
		return Key{Bytes: b[:], Version: V6}, nil
	}
	return Key{}, ErrInvalidAddress
}

// Width returns the key byte width for a version (4 or 16).
func (v Version) Width() int {
	if v == V6 {
		return 16
	}
	return 4
}
