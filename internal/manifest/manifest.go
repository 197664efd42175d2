package manifest

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Job directions.
const (
	DirectionFlat    = "flat"
	DirectionDecadal = "decadal"
	DirectionImport  = "import"
)

// Manifest lists the files of one batch.
type Manifest struct {
	// Name identifies the batch in logs.
	Name string `yaml:"name" json:"name"`

	// DB is an optional SQLite archive path. Runs are recorded there and
	// import jobs store their series.
	DB string `yaml:"db,omitempty" json:"db,omitempty"`

	// Adjust selects the partial-decade rule for import jobs:
	// "decade-end" (default) or "count".
	Adjust string `yaml:"adjust,omitempty" json:"adjust,omitempty"`

	// Jobs run in order.
	Jobs []Job `yaml:"jobs" json:"jobs"`
}

// Job is one input file and what to do with it.
type Job struct {
	Input string `yaml:"input" json:"input"`

	// Output defaults to the input with its extension swapped (.txt for
	// flat, .rwl for decadal). Import jobs have no output.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	Direction string `yaml:"direction" json:"direction"`
}

// ManifestError reports a manifest that cannot be read or is invalid.
type ManifestError struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *ManifestError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads a manifest from a .yaml/.yml or .cue file, validates it,
// resolves job paths relative to the manifest directory and fills default
// outputs.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Message: fmt.Sprintf("failed to read manifest: %v", err)}
	}

	ctx := cuecontext.New()
	schema, err := manifestSchema(ctx)
	if err != nil {
		return nil, err
	}

	var m *Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		m, err = decodeYAML(ctx, schema, path, data)
	case ".cue":
		m, err = decodeCUE(ctx, schema, path, data)
	default:
		return nil, &ManifestError{Path: path, Message: fmt.Sprintf("unsupported manifest extension %q (want .yaml, .yml or .cue)", ext)}
	}
	if err != nil {
		return nil, err
	}

	resolve(m, filepath.Dir(path))
	return m, nil
}

// manifestSchema compiles the embedded #Manifest definition.
func manifestSchema(ctx *cue.Context) (cue.Value, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile manifest schema: %w", err)
	}
	return schema.LookupPath(cue.ParsePath("#Manifest")), nil
}

// decodeYAML parses YAML with strict field validation so typos such as
// "job:" for "jobs:" fail instead of silently doing nothing. The decoded
// value is then checked against the schema.
func decodeYAML(ctx *cue.Context, schema cue.Value, path string, data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, &ManifestError{Path: path, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}

	v := ctx.Encode(m)
	if err := v.Err(); err != nil {
		return nil, cueError(path, err)
	}
	if err := schema.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(path, err)
	}
	return &m, nil
}

// decodeCUE unifies the file with the schema before decoding. The
// definition is closed, so unknown fields are rejected here as well.
func decodeCUE(ctx *cue.Context, schema cue.Value, path string, data []byte) (*Manifest, error) {
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, cueError(path, err)
	}

	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueError(path, err)
	}

	var m Manifest
	if err := unified.Decode(&m); err != nil {
		return nil, cueError(path, err)
	}
	return &m, nil
}

// cueError keeps the first CUE error with its position.
func cueError(path string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &ManifestError{Path: path, Message: err.Error()}
	}

	first := errs[0]
	me := &ManifestError{Path: path, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 && positions[0].Filename() == path {
		me.Pos = positions[0]
	}
	return me
}

func resolve(m *Manifest, baseDir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	if m.DB != "" {
		m.DB = abs(m.DB)
	}
	for i := range m.Jobs {
		job := &m.Jobs[i]
		job.Input = abs(job.Input)
		if job.Output == "" {
			job.Output = DefaultOutput(job.Input, job.Direction)
		} else {
			job.Output = abs(job.Output)
		}
	}
}

// DefaultOutput derives an output path by swapping the input extension:
// .txt for flat output, .rwl for decadal output. Import jobs have none.
func DefaultOutput(input, direction string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	switch direction {
	case DirectionFlat:
		return base + ".txt"
	case DirectionDecadal:
		return base + ".rwl"
	default:
		return ""
	}
}
