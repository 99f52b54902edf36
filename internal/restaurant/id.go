package restaurant

import (
	"crypto/md5" // nolint:gosec ids only need to be unique
	"encoding/hex"
	"time"
)

const idTimeLayout = "2006-01-02 15:04:05.000000"

// NewID derives a record id from the creation time and the restaurant name.
func NewID(ts time.Time, name string) string {
	sum := md5.Sum([]byte(ts.Format(idTimeLayout) + name)) // nolint:gosec
	return hex.EncodeToString(sum[:])
}
