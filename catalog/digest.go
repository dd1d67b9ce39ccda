package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// digestSuffix names the sidecar file holding the SHA256 of
// a downloaded catalog.
const digestSuffix = ".digest"

func digestOf(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// saveDigest writes the digest of data next to path.
func saveDigest(path string, data []byte) error {
	const errCtx = "saving digest"

	if err := os.WriteFile(
		path+digestSuffix, []byte(digestOf(data)), 0o600,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// verifyDigest reports whether data matches the digest
// stored next to path. Without a sidecar the catalog was
// written by hand and is trusted.
func verifyDigest(path string, data []byte) (bool, error) {
	const errCtx = "verifying digest"

	stored, err := os.ReadFile(path + digestSuffix) //nolint:gosec // path under git-extra home
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}

	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return string(stored) == digestOf(data), nil
}

// dropDigest removes the digest stored next to path.
func dropDigest(path string) error {
	err := os.Remove(path + digestSuffix)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("dropping digest: %w", err)
	}

	return nil
}
