// Package handid generates compact, time-sortable hand identifiers.
// IDs encode a 48-bit millisecond timestamp followed by 32 random bits
// as 16 characters of Crockford base32, so lexicographic order matches
// deal order across a session.
package handid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Crockford's base32 alphabet, the digit set used by TypeID
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of a generated identifier: 80 bits in 5-bit groups
const Length = 16

// RandSource supplies the random half of an identifier. Passing a
// seeded source makes generation deterministic for tests; a nil source
// falls back to crypto/rand.
type RandSource interface {
	Uint32() uint32
}

// New generates a hand identifier
func New(src RandSource) string {
	var buf [10]byte
	now := time.Now().UnixMilli()
	buf[0] = byte(now >> 40)
	buf[1] = byte(now >> 32)
	buf[2] = byte(now >> 24)
	buf[3] = byte(now >> 16)
	buf[4] = byte(now >> 8)
	buf[5] = byte(now)

	if src != nil {
		binary.BigEndian.PutUint32(buf[6:], src.Uint32())
	} else {
		if _, err := rand.Read(buf[6:]); err != nil {
			panic("handid: reading random bytes: " + err.Error())
		}
	}
	return encode(buf[:])
}

// encode packs 10 bytes into 16 base32 characters
func encode(data []byte) string {
	out := make([]byte, 0, Length)
	var acc uint
	var bits uint
	for _, b := range data {
		acc = acc<<8 | uint(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			out = append(out, alphabet[(acc>>bits)&0x1f])
		}
	}
	return string(out)
}

// Validate checks that an identifier is well formed
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand ID must be exactly %d characters, got %d", Length, len(id))
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("hand ID has invalid character %q at position %d", c, i)
		}
	}
	return nil
}
