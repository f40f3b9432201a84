// Package updater replaces the running gosr binary with the latest
// GitHub release build. Downloads are verified against the sha256
// checksums file published with each release.
package updater

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

const repo = "wresch/gosr"

type release struct {
	TagName string `json:"tag_name"`
}

// LatestRelease fetches the latest release tag from GitHub.
func LatestRelease() (string, error) {
	resp, err := http.Get("https://api.github.com/repos/" + repo + "/releases/latest")
	if err != nil {
		return "", fmt.Errorf("fetching latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github API returned status %d", resp.StatusCode)
	}

	var r release
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decoding release response: %w", err)
	}
	if r.TagName == "" {
		return "", fmt.Errorf("empty tag_name in release response")
	}
	return r.TagName, nil
}

// IsNewer returns true if latest is newer than current. A "dev" build
// never updates.
func IsNewer(current, latest string) bool {
	if current == "dev" {
		return false
	}
	cur := versionParts(current)
	lat := versionParts(latest)
	for i := 0; i < len(cur) || i < len(lat); i++ {
		var c, l int
		if i < len(cur) {
			c = cur[i]
		}
		if i < len(lat) {
			l = lat[i]
		}
		if l != c {
			return l > c
		}
	}
	return false
}

func versionParts(v string) []int {
	v = strings.TrimPrefix(v, "v")
	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return parts[:i]
		}
		parts[i] = n
	}
	return parts
}

// assetName is the tarball name GoReleaser produces for this platform.
func assetName() string {
	osName := runtime.GOOS
	switch osName {
	case "darwin":
		osName = "Darwin"
	case "linux":
		osName = "Linux"
	}
	archName := runtime.GOARCH
	if archName == "amd64" {
		archName = "x86_64"
	}
	return fmt.Sprintf("gosr_%s_%s.tar.gz", osName, archName)
}

func assetURL(tag, name string) string {
	return fmt.Sprintf("https://github.com/%s/releases/download/%s/%s", repo, tag, name)
}

// fetchChecksum returns the expected sha256 of the named asset from the
// release's checksums file.
func fetchChecksum(tag, name string) (string, error) {
	resp, err := http.Get(assetURL(tag, "checksums.txt"))
	if err != nil {
		return "", fmt.Errorf("fetching checksums: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("checksums download returned status %d", resp.StatusCode)
	}

	s := bufio.NewScanner(resp.Body)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) == 2 && fields[1] == name {
			return fields[0], nil
		}
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no checksum listed for %s", name)
}

// DownloadAndReplace downloads the release tarball for the given tag,
// verifies it, and replaces the current executable with the new binary.
func DownloadAndReplace(tag string) error {
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding executable path: %w", err)
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return fmt.Errorf("resolving symlinks: %w", err)
	}

	name := assetName()
	sum, err := fetchChecksum(tag, name)
	if err != nil {
		return err
	}

	resp, err := http.Get(assetURL(tag, name))
	if err != nil {
		return fmt.Errorf("downloading release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	// Hash the compressed stream while extracting from it.
	h := sha256.New()
	body := io.TeeReader(resp.Body, h)

	// Write to a temp file in the same directory, then atomically rename.
	dir := filepath.Dir(execPath)
	tmp, err := os.CreateTemp(dir, "gosr-update-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := extractBinary(body, tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	// Drain the trailing archive members so the hash covers the whole file.
	if _, err := io.Copy(io.Discard, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("reading release tarball: %w", err)
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != sum {
		_ = tmp.Close()
		return fmt.Errorf("checksum mismatch for %s: got %s, want %s", name, got, sum)
	}

	if err := tmp.Chmod(0o755); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, execPath); err != nil {
		return fmt.Errorf("replacing executable: %w", err)
	}
	return nil
}

// extractBinary streams the gosr binary out of a tar.gz archive into w.
func extractBinary(r io.Reader, w io.Writer) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return fmt.Errorf("gosr binary not found in archive")
		}
		if err != nil {
			return fmt.Errorf("reading tar: %w", err)
		}
		if header.Typeflag != tar.TypeReg || filepath.Base(header.Name) != "gosr" {
			continue
		}
		if _, err := io.Copy(w, tr); err != nil {
			return fmt.Errorf("extracting binary from tar: %w", err)
		}
		return nil
	}
}
