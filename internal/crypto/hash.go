// Package crypto provides cryptographic utilities for password hashing.
package crypto

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/scrypt"
)

// dailyHashCache caches HashDaily results keyed by "input:utcDay".
// Old entries for previous days stay in memory harmlessly (bounded by 31 days).
var dailyHashCache sync.Map

// Scrypt parameters matching the frontend implementation.
// N=16384 (2^14), r=8, p=1 are recommended for interactive logins.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
)

// HashWithScrypt hashes an input string using scrypt with the given salt.
// The salt is lowercased before use. Returns hex-encoded hash.
// Parameters match the frontend: N=16384, r=8, p=1, keyLen=32.
func HashWithScrypt(input, salt string) (string, error) {
	saltBytes := []byte(strings.ToLower(salt))
	dk, err := scrypt.Key([]byte(input), saltBytes, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("scrypt key derivation failed: %w", err)
	}
	return hex.EncodeToString(dk), nil
}

// HashDaily hashes an input for comparison with a client-provided hash, using
// the current UTC day as salt. Results are cached per input+day to avoid
// repeated scrypt computation on every verification request.
func HashDaily(input string) (string, error) {
	utcDay := strconv.Itoa(time.Now().UTC().Day())
	cacheKey := input + ":" + utcDay

	if cached, ok := dailyHashCache.Load(cacheKey); ok {
		return cached.(string), nil
	}

	hash, err := HashWithScrypt(input, utcDay)
	if err != nil {
		return "", err
	}

	dailyHashCache.Store(cacheKey, hash)
	return hash, nil
}
