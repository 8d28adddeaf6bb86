// Package uuid generates UUID v7 identifiers.
// The millisecond timestamp prefix keeps values sortable by creation time,
// which keeps SQLite primary-key indexes append-mostly.
package uuid

import (
	cryptorand "crypto/rand"
	"fmt"
	"time"
)

// UUID is a 16-byte UUID v7 value.
type UUID [16]byte

// NewV7 returns a new UUID v7 per RFC 9562:
// 48 bits of UNIX milliseconds, then version/variant bits over random data.
func NewV7() UUID {
	var u UUID

	ms := time.Now().UnixMilli()
	u[0] = byte(ms >> 40)
	u[1] = byte(ms >> 32)
	u[2] = byte(ms >> 24)
	u[3] = byte(ms >> 16)
	u[4] = byte(ms >> 8)
	u[5] = byte(ms)

	// Remaining 10 bytes are random; crypto/rand never fails on supported
	// platforms, and a zeroed fallback is still a valid (if weak) UUID.
	_, _ = cryptorand.Read(u[6:])

	u[6] = 0x70 | (u[6] & 0x0f) // version 7
	u[7] = 0x80 | (u[7] & 0x3f) // RFC 4122 variant 10xxxxxx

	return u
}

// String renders the canonical xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx form.
func (u UUID) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%04x-%012x",
		u[0:4],
		u[4:6],
		u[6:8],
		u[8:10],
		u[10:16],
	)
}
