package index

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/spf13/afero"
)

// FingerprintPrefix tags the digest algorithm in fingerprints
const FingerprintPrefix = "sha256:"

// Fingerprint digests everything read from r
func Fingerprint(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return FingerprintPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// FingerprintFile digests the full content of path
func FingerprintFile(fsys afero.Fs, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	return Fingerprint(f)
}
