// Package bookingref generates human-facing booking references.
package bookingref

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const prefix = "ZT"

// Generate returns a reference of the form ZT-<year>-<6 digits>, e.g.
// ZT-2026-483920. The reference is a label for humans, not an identity key:
// the storage layer's document id is authoritative, so the rare collision
// within a year is cosmetic rather than a data-integrity problem.
func Generate(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; fall back to a time-derived value rather than panic.
		n = big.NewInt(now.UnixNano() % 900000)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), n.Int64()+100000)
}
