package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Fingerprint identifies a run's deterministic outcome
type Fingerprint Hash

func NewFingerprint(data []byte) Fingerprint { return Fingerprint(NewHash(data)) }

func (h Fingerprint) String() string { return Hash(h).String() }

func (h Fingerprint) IsEmpty() bool { return Hash(h).IsEmpty() }

// ComputeParamsFingerprint produces a deterministic fingerprint for a
// parameter map regardless of iteration order.
func ComputeParamsFingerprint(params map[string]interface{}) Fingerprint {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString(fmt.Sprintf("%v", params[key]))
	}

	return NewFingerprint([]byte(data.String()))
}
