// Package corpus loads training text from local files, compressed files,
// markdown documents, Azure Blob Storage or standard input.
package corpus

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stdin is the location that reads the corpus from the loader's input.
const Stdin = "-"

// Loader resolves corpus locations to text.
type Loader struct {
	stdin             io.Reader
	newBlobDownloader func(serviceURL string) (blobDownloader, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithStdin sets the reader used for the "-" location.
func WithStdin(r io.Reader) LoaderOption {
	return func(l *Loader) {
		l.stdin = r
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		stdin:             os.Stdin,
		newBlobDownloader: newAzureBlobDownloader,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load reads the corpus at location. Blob URLs are downloaded, ".gz" and
// ".zst" files are decompressed and markdown files are reduced to their
// prose. Anything else is read as-is.
func (l *Loader) Load(ctx context.Context, location string) (string, error) {
	if location == Stdin {
		return readAll(l.stdin)
	}

	if isBlobURL(location) {
		return l.loadBlob(ctx, location)
	}

	f, err := os.Open(location)
	if err != nil {
		return "", fmt.Errorf("opening corpus: %w", err)
	}
	defer f.Close() //nolint:errcheck

	return l.decode(f, location)
}

// decode picks the reader chain from the location's extensions, e.g.
// "notes.md.gz" is decompressed and then parsed as markdown.
func (l *Loader) decode(r io.Reader, location string) (string, error) {
	name := strings.ToLower(filepath.Base(location))

	switch filepath.Ext(name) {
	case ".gz", ".zst":
		rc, err := decompress(r, filepath.Ext(name))
		if err != nil {
			return "", fmt.Errorf("decompressing %s: %w", location, err)
		}
		defer rc.Close() //nolint:errcheck
		return l.decode(rc, strings.TrimSuffix(name, filepath.Ext(name)))
	case ".md", ".mdx":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", location, err)
		}
		return MarkdownText(data), nil
	default:
		return readAll(r)
	}
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading corpus: %w", err)
	}
	return string(data), nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// Flatten turns each line break and tab into one space and drops the line
// breaks at either end. The vocabulary builder only splits on spaces, so raw
// multi-line text would otherwise produce words that contain newlines. Runs
// of spaces are kept: they become empty words in the vocabulary.
func Flatten(text string) string {
	return lineBreaks.Replace(strings.Trim(text, "\r\n"))
}
