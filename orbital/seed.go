// =======================
// orbital/seed.go
// =======================

package orbital

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// DeriveSeed produces a deterministic seed from an orbital configuration so
// the same request always yields the same cloud.
func DeriveSeed(s State, scale float64, resolution int) uint64 {
	buf := make([]byte, 0, 40)
	buf = binary.BigEndian.AppendUint64(buf, uint64(int64(s.N)))
	buf = binary.BigEndian.AppendUint64(buf, uint64(int64(s.L)))
	buf = binary.BigEndian.AppendUint64(buf, uint64(int64(s.M)))
	buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(scale))
	buf = binary.BigEndian.AppendUint64(buf, uint64(int64(resolution)))

	h := sha256.Sum256(buf)
	return binary.BigEndian.Uint64(h[:8])
}

// RandomSeed reads a seed from the system entropy source.
func RandomSeed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("seed generation failed: %w", err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}
