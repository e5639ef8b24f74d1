package storage

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Resolve maps a stored file reference to a canonical absolute path under
// root. Stored references accumulated over time in three shapes: a full URL,
// a legacy "storage/"-prefixed path, and a direct relative path (with or
// without an "uploads/" prefix). Every delete/replace call site goes through
// here instead of re-deriving prefixes.
func Resolve(root, stored string) (string, error) {
	if strings.TrimSpace(stored) == "" {
		return "", fmt.Errorf("empty file path")
	}

	p := stored
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		u, err := url.Parse(p)
		if err != nil {
			return "", fmt.Errorf("unparseable file URL %q: %w", stored, err)
		}
		p = u.Path
	}

	p = strings.TrimPrefix(p, "/")
	p = strings.TrimPrefix(p, "storage/")
	p = strings.TrimPrefix(p, "uploads/")

	abs := filepath.Join(root, filepath.FromSlash(p))

	// A resolved path escaping the root is a traversal attempt, not a legacy
	// prefix variant.
	cleanRoot := filepath.Clean(root)
	if abs != cleanRoot && !strings.HasPrefix(abs, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("file path %q escapes storage root", stored)
	}
	return abs, nil
}
