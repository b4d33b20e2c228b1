package fileutil

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tgfetch/TGFetch/internal/log"
)

const hashChunkSize = 4096

var copySuffixRe = regexp.MustCompile(`-copy\d+$`)

// HashFile computes the streaming MD5 of a file in fixed 4096-byte chunks.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("can not open file for hashing: %w", err)
	}
	defer f.Close()
	h := md5.New()
	buf := make([]byte, hashChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("can not read file for hashing: %w", err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsFile reports whether path exists and is a regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// NextAvailableName returns the first non-colliding variant of path by
// inserting a -copy{N} suffix before the extension.
func NextAvailableName(path string) string {
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	counter := 1
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-copy%d%s", stem, counter, ext))
		if !IsFile(candidate) {
			return candidate
		}
		counter++
	}
}

// Reconcile deduplicates a freshly written file against its same-stem
// siblings by content hash. On the first exact match the new file is
// removed and the pre-existing path returned; otherwise path is returned
// unchanged. Unreadable candidates are skipped, not fatal.
func Reconcile(path string) string {
	ll := getLogger("Reconcile")
	currentHash, err := HashFile(path)
	if err != nil {
		ll.WithError(err).Errorf("can not hash %s", path)
		return path
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := copySuffixRe.ReplaceAllString(strings.TrimSuffix(base, ext), "")

	entries, err := os.ReadDir(dir)
	if err != nil {
		ll.WithError(err).Errorf("can not list directory %s", dir)
		return path
	}
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == base {
			continue
		}
		if !strings.HasPrefix(entry.Name(), stem) {
			continue
		}
		candidate := filepath.Join(dir, entry.Name())
		candidateHash, err := HashFile(candidate)
		if err != nil {
			ll.WithError(err).Warnf("can not read file %s", candidate)
			continue
		}
		if candidateHash == currentHash {
			if err := os.Remove(path); err != nil {
				ll.WithError(err).Errorf("can not remove file %s", path)
				return path
			}
			ll.Infof("removed duplicate: %s", path)
			return candidate
		}
	}
	return path
}

func getLogger(fn string) *logrus.Entry {
	return log.GetLogger(log.FileModule).WithField("func", fn)
}
