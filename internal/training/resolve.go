package training

import (
	"fmt"
	"io"
	"os"

	"github.com/spboyer/bytepair/internal/corpus"
	"github.com/spboyer/bytepair/internal/projectconfig"
	"golang.org/x/term"
)

// LoadConfig loads the project configuration. An explicit path must exist;
// otherwise .bytepair.yaml is looked up from the working directory. The
// "section.key=value" overrides are applied last.
func LoadConfig(path string, overrides []string) (*projectconfig.ProjectConfig, error) {
	var (
		cfg *projectconfig.ProjectConfig
		err error
	)
	if path != "" {
		cfg, err = projectconfig.LoadFile(path)
	} else {
		var wd string
		wd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		cfg, err = projectconfig.Load(wd)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveCorpus picks the corpus location for a command.
// Behavior:
//   - explicit location (argument or --corpus) wins
//   - then corpus.path from the project configuration
//   - then stdin, unless stdin is an interactive terminal
func ResolveCorpus(explicit string, cfg *projectconfig.ProjectConfig, stdin io.Reader) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if loc := cfg.CorpusLocation(); loc != "" {
		return loc, nil
	}
	if IsTerminal(stdin) {
		return "", ErrNoCorpus
	}
	return corpus.Stdin, nil
}

// IsTerminal reports whether r is an interactive terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
