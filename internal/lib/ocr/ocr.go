// Package ocr turns a report PDF into one text string per page.
//
// The embedded text layer is read first. Scanned reports have none, so
// their pages are rasterised with pdftoppm and read with tesseract.
package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/deppfellow/netanomics/internal/config"
)

// ErrNoText means neither the text layer nor OCR produced anything.
var ErrNoText = errors.New("ocr: no text extracted")

// runFunc executes an external binary and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

type Extractor struct {
	cfg    config.OCRConfig
	logger *zerolog.Logger
	run    runFunc
}

func NewExtractor(cfg config.OCRConfig, logger *zerolog.Logger) *Extractor {
	return &Extractor{cfg: cfg, logger: logger, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", filepath.Base(name), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Extract returns the text of every page of the PDF at path.
func (e *Extractor) Extract(ctx context.Context, path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("report not found: %w", err)
	}

	pages, err := e.textLayer(path)
	if err != nil {
		e.logger.Debug().Err(err).Str("path", path).Msg("text layer unreadable, falling back to OCR")
	} else if hasText(pages) {
		e.logger.Info().Str("path", path).Int("pages", len(pages)).Msg("read embedded text layer")
		return pages, nil
	}

	pages, err = e.ocrPages(ctx, path)
	if err != nil {
		return nil, err
	}
	if !hasText(pages) {
		return nil, ErrNoText
	}

	e.logger.Info().Str("path", path).Int("pages", len(pages)).Msg("OCR complete")
	return pages, nil
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}

// textLayer reads the PDF's own text. The pdf package panics on some
// malformed files, which is reported as an error.
func (e *Extractor) textLayer(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading pdf text layer: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// ocrPages rasterises every page into a temp dir and OCRs them in page order.
func (e *Extractor) ocrPages(ctx context.Context, path string) ([]string, error) {
	dir, err := os.MkdirTemp("", "netanomics-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("creating OCR work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	if _, err := e.run(ctx, e.cfg.PdftoppmPath, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix); err != nil {
		return nil, fmt.Errorf("rasterising pdf: %w", err)
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, err
	}
	sortPageImages(images)

	pages := make([]string, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := e.run(ctx, e.cfg.TesseractPath, img, "stdout", "-l", e.cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("OCR of page %d: %w", i+1, err)
		}
		pages = append(pages, string(out))
	}
	return pages, nil
}

var pageNumber = regexp.MustCompile(`-(\d+)\.png$`)

// sortPageImages orders pdftoppm output numerically; its zero padding
// width depends on the page count.
func sortPageImages(images []string) {
	num := func(s string) int {
		m := pageNumber.FindStringSubmatch(s)
		if m == nil {
			return 0
		}
		n, _ := strconv.Atoi(m[1])
		return n
	}
	sort.SliceStable(images, func(i, j int) bool {
		return num(images[i]) < num(images[j])
	})
}
