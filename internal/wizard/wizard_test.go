package wizard

import (
	"testing"

	"github.com/spboyer/bytepair/internal/projectconfig"
	"github.com/spboyer/bytepair/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfigYAML_Defaults(t *testing.T) {
	result, err := GenerateConfigYAML(projectconfig.New())
	require.NoError(t, err)

	assert.Contains(t, result, "# bytepair project configuration")
	assert.Contains(t, result, "# corpus:   (stdin)")
	assert.Contains(t, result, "# merges:   10")
	assert.Contains(t, result, "training:")
	assert.Contains(t, result, "merges: 10")
	assert.Empty(t, validation.ValidateConfigBytes([]byte(result)))
}

func TestGenerateConfigYAML_Answers(t *testing.T) {
	cfg := projectconfig.New()
	(&ConfigAnswers{CorpusPath: "data/wiki.txt.gz", Marker: "|", Merges: 300, Format: "json"}).Apply(cfg)

	result, err := GenerateConfigYAML(cfg)
	require.NoError(t, err)

	assert.Contains(t, result, "# corpus:   data/wiki.txt.gz")
	assert.Contains(t, result, `# marker:   "|"`)
	assert.Contains(t, result, "path: data/wiki.txt.gz")
	assert.Contains(t, result, "format: json")
	assert.Empty(t, validation.ValidateConfigBytes([]byte(result)))
}

func TestApply_KeepsDefaultsForBlankAnswers(t *testing.T) {
	cfg := projectconfig.New()
	(&ConfigAnswers{Merges: 3}).Apply(cfg)

	assert.Equal(t, projectconfig.DefaultMarker, cfg.Training.Marker)
	assert.Equal(t, projectconfig.DefaultFormat, cfg.Output.Format)
	assert.Equal(t, 3, cfg.Training.MergeCount())
}

func TestValidateMarker(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"_", true},
		{"|", true},
		{"", false},
		{" ", false},
		{"##", false},
		{"é", false},
		{"\t", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateMarker(tt.input)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseMerges(t *testing.T) {
	n, err := parseMerges(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = parseMerges("-1")
	assert.EqualError(t, err, "merges must be a non-negative integer")

	_, err = parseMerges("lots")
	assert.Error(t, err)
}
