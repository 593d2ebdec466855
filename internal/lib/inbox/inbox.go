// Package inbox implements the report drop-folder convention: PDFs named
// after a constituency land in the inbox and are moved to the processed
// directory once handled.
package inbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/deppfellow/netanomics/internal/config"
)

const (
	unrecognizedPrefix = "UNRECOGNIZED_"
	failedPrefix       = "FAILED_"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize lowercases s and drops every character outside [a-z0-9].
func Normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// Stem is the file name up to its first dot.
func Stem(filename string) string {
	name := filepath.Base(filename)
	if i := strings.Index(name, "."); i >= 0 {
		return name[:i]
	}
	return name
}

// BaseName strips a parenthesised reservation suffix such as "(SC)".
func BaseName(constituencyName string) string {
	if i := strings.Index(constituencyName, "("); i >= 0 {
		constituencyName = constituencyName[:i]
	}
	return strings.TrimSpace(constituencyName)
}

// Match returns the index of the constituency whose base name prefixes the
// file stem, or -1. The longest base name wins so "Bangalore North" beats
// "Bangalore".
func Match(filename string, names []string) int {
	stem := Normalize(Stem(filename))
	best, bestLen := -1, 0
	for i, name := range names {
		base := Normalize(BaseName(name))
		if base == "" || !strings.HasPrefix(stem, base) {
			continue
		}
		if len(base) > bestLen {
			best, bestLen = i, len(base)
		}
	}
	return best
}

type Inbox struct {
	dir          string
	processedDir string
	now          func() time.Time
}

func New(cfg config.InboxConfig) *Inbox {
	return &Inbox{dir: cfg.InboxDir, processedDir: cfg.ProcessedDir, now: time.Now}
}

func (b *Inbox) Dir() string { return b.dir }

// Ensure creates the inbox and processed directories.
func (b *Inbox) Ensure() error {
	for _, dir := range []string{b.dir, b.processedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// List returns the PDF file names waiting in the inbox, sorted.
func (b *Inbox) List() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("reading inbox: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Path is the full path of an inbox file.
func (b *Inbox) Path(name string) string {
	return filepath.Join(b.dir, name)
}

// Archive moves a processed report to <name>_<unix>.pdf, where name is the
// file name without its extension.
func (b *Inbox) Archive(name string) (string, error) {
	return b.move(name, fmt.Sprintf("%s_%d.pdf", trimExt(name), b.now().Unix()))
}

// Reject moves a file that matched no constituency to UNRECOGNIZED_<name>.
func (b *Inbox) Reject(name string) (string, error) {
	return b.move(name, unrecognizedPrefix+name)
}

// Fail moves a report whose pipeline run failed to FAILED_<name>_<unix>.pdf.
func (b *Inbox) Fail(name string) (string, error) {
	return b.move(name, fmt.Sprintf("%s%s_%d.pdf", failedPrefix, trimExt(name), b.now().Unix()))
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func (b *Inbox) move(name, target string) (string, error) {
	dst, err := b.freePath(target)
	if err != nil {
		return "", err
	}
	if err := os.Rename(b.Path(name), dst); err != nil {
		return "", fmt.Errorf("moving %s: %w", name, err)
	}
	return dst, nil
}

// freePath never returns an existing file: taken names get _1, _2, ...
// before the extension.
func (b *Inbox) freePath(target string) (string, error) {
	ext := filepath.Ext(target)
	base := strings.TrimSuffix(target, ext)
	dst := filepath.Join(b.processedDir, target)
	for i := 1; ; i++ {
		_, err := os.Lstat(dst)
		if errors.Is(err, fs.ErrNotExist) {
			return dst, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking %s: %w", dst, err)
		}
		dst = filepath.Join(b.processedDir, fmt.Sprintf("%s_%d%s", base, i, ext))
	}
}
