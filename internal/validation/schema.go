package validation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

//go:embed config.schema.json
var configSchemaJSON string

// configSchema is the compiled JSON Schema for .bytepair.yaml files.
var configSchema *jsonschema.Schema

func init() {
	configSchema = mustCompileSchema(configSchemaJSON, "config.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateConfigFile validates a .bytepair.yaml file at the given path.
func ValidateConfigFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ValidateConfigBytes(data), nil
}

// ValidateConfigBytes validates raw YAML bytes against the config schema.
// An empty document is valid.
func ValidateConfigBytes(data []byte) []string {
	return validateYAMLBytes(configSchema, data)
}

func validateYAMLBytes(schema *jsonschema.Schema, data []byte) []string {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	if doc == nil {
		return nil
	}

	err := schema.Validate(toJSONValue(doc))
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}

	var issues []issue
	collectIssues(ve, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].location < issues[j].location
	})

	msgs := make([]string, len(issues))
	for i, is := range issues {
		msgs[i] = is.location + ": " + is.message
	}
	return msgs
}

// issue is one leaf schema violation.
type issue struct {
	location string
	message  string
}

func collectIssues(ve *jsonschema.ValidationError, out *[]issue) {
	for _, c := range ve.Causes {
		collectIssues(c, out)
	}
	if len(ve.Causes) > 0 {
		return
	}
	*out = append(*out, issue{
		location: "/" + strings.Join(ve.InstanceLocation, "/"),
		message:  ve.ErrorKind.LocalizedString(defaultPrinter),
	})
}

// toJSONValue rebuilds a YAML-decoded value with the shapes the validator
// expects: string-keyed objects and []any arrays. Non-string mapping keys
// are stringified.
func toJSONValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		obj := make(map[string]any, len(val))
		for k, item := range val {
			obj[k] = toJSONValue(item)
		}
		return obj
	case map[any]any:
		obj := make(map[string]any, len(val))
		for k, item := range val {
			obj[fmt.Sprint(k)] = toJSONValue(item)
		}
		return obj
	case []any:
		arr := make([]any, len(val))
		for i, item := range val {
			arr[i] = toJSONValue(item)
		}
		return arr
	default:
		return val
	}
}
