package testutil

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// BaseTime is the reference modification time used by At
var BaseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// At returns BaseTime shifted by n minutes, for readable mtime ordering
func At(n int) time.Time {
	return BaseTime.Add(time.Duration(n) * time.Minute)
}

// GetTestChecksum calculates the fingerprint of test content
func GetTestChecksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return fmt.Sprintf("sha256:%x", hash)
}
