package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"time"
)

// NewNodeID returns task-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding): ~40 bits of space, safe to mint from any process.
// Falls back to a timestamp id in the unlikely event crypto/rand fails.
func (s Store) NewNodeID() string {
	return newRandomID("task")
}

// NewProjectID returns a fresh project id.
func (s Store) NewProjectID() string {
	return newRandomID("proj")
}

func newRandomID(prefix string) string {
	var b [5]byte // 40 bits -> 8 base32 chars
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	return prefix + "-" + strings.ToLower(enc.EncodeToString(b[:]))
}
