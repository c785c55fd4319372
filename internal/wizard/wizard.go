package wizard

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"github.com/spboyer/bytepair/internal/projectconfig"
	"golang.org/x/term"
)

// ConfigAnswers holds all fields collected during the interactive wizard.
type ConfigAnswers struct {
	CorpusPath string
	Marker     string
	Merges     int
	Format     string
}

const configHeaderTemplate = `# bytepair project configuration
#
# corpus:   {{ if .CorpusPath }}{{ .CorpusPath }}{{ else }}(stdin){{ end }}
# merges:   {{ .Merges }}
# marker:   {{ printf "%q" .Marker }}
`

// RunConfigWizard runs an interactive huh form that collects the main
// training settings. Fields are pre-populated from defaults.
func RunConfigWizard(in io.Reader, out io.Writer, defaults *projectconfig.ProjectConfig) (*ConfigAnswers, error) {
	var (
		corpusPath = defaults.Corpus.Path
		marker     = defaults.Training.Marker
		mergesRaw  = strconv.Itoa(defaults.Training.MergeCount())
		format     = defaults.Output.Format
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Corpus").
				Description("File, .gz/.zst archive, markdown document or blob URL to train on").
				Placeholder("corpus.txt").
				Value(&corpusPath),
			huh.NewInput().
				Title("Marker").
				Description("Single character that delimits merged symbols").
				Placeholder(projectconfig.DefaultMarker).
				Value(&marker).
				Validate(validateMarker),
			huh.NewInput().
				Title("Merges").
				Description("Number of merges to learn").
				Placeholder(strconv.Itoa(projectconfig.DefaultMerges)).
				Value(&mergesRaw).
				Validate(func(s string) error {
					_, err := parseMerges(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Output format").
				Options(
					huh.NewOption("table", "table"),
					huh.NewOption("json", "json"),
					huh.NewOption("yaml", "yaml"),
				).
				Value(&format),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	merges, err := parseMerges(mergesRaw)
	if err != nil {
		return nil, err
	}
	return &ConfigAnswers{
		CorpusPath: strings.TrimSpace(corpusPath),
		Marker:     marker,
		Merges:     merges,
		Format:     format,
	}, nil
}

// Apply copies the answers onto cfg.
func (a *ConfigAnswers) Apply(cfg *projectconfig.ProjectConfig) {
	cfg.Corpus.Path = a.CorpusPath
	if a.Marker != "" {
		cfg.Training.Marker = a.Marker
	}
	merges := a.Merges
	cfg.Training.Merges = &merges
	if a.Format != "" {
		cfg.Output.Format = a.Format
	}
}

// GenerateConfigYAML renders cfg as a commented .bytepair.yaml document.
func GenerateConfigYAML(cfg *projectconfig.ProjectConfig) (string, error) {
	tmpl, err := template.New("header").Parse(configHeaderTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	err = tmpl.Execute(&buf, ConfigAnswers{
		CorpusPath: cfg.Corpus.Path,
		Marker:     cfg.Training.Marker,
		Merges:     cfg.Training.MergeCount(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	body, err := cfg.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	buf.WriteString("\n")
	buf.Write(body)
	return buf.String(), nil
}

func validateMarker(s string) error {
	if len(s) != 1 || s[0] <= ' ' || s[0] > '~' {
		return fmt.Errorf("marker must be a single printable ASCII character")
	}
	return nil
}

func parseMerges(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("merges must be a non-negative integer")
	}
	return n, nil
}
