package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	confschema "github.com/reoring/confschema"
	"github.com/reoring/confschema/format"
	js "github.com/reoring/confschema/jsonschema"
)

// checkExtensions are the files picked up from --input-directory.
var checkExtensions = []string{"yaml", "yml", "json", "toml", "xml"}

func newSchemaCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Check documents against a schema or generate one",
	}
	cmd.AddCommand(newSchemaCheckCmd(e))
	cmd.AddCommand(newSchemaGenCmd(e))
	return cmd
}

type checkOptions struct {
	schema     string
	inputDir   string
	failDir    string
	jsonSchema bool
	silent     bool
	verbose    bool
}

func newSchemaCheckCmd(e *env) *cobra.Command {
	var o checkOptions
	cmd := &cobra.Command{
		Use:   "check [INPUT...]",
		Short: "Validate documents against a schema",
		Long: `Validate documents against a schema.

Inputs are read from the listed files, from every yaml, yml, json, toml and xml
file in --input-directory, or from stdin when neither is given. Each file is
validated independently; unreadable files are skipped with a warning. Files
that fail can be moved to --fail-directory.

The exit status is 1 when any input fails validation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commandErr(ToolSchemaCheck, runSchemaCheck(cmd, e, &o, args))
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.schema, "schema", "s", "", "Schema file or schema text")
	f.StringVarP(&o.inputDir, "input-directory", "d", "", "Directory of documents to check")
	f.StringVar(&o.failDir, "fail-directory", "", "Move failing documents into this directory")
	f.BoolVar(&o.jsonSchema, "json-schema", false, "Validate through the JSON Schema engine")
	f.BoolVar(&o.silent, "silent", false, "Print nothing, only set the exit status")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Print the reason a document failed")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func runSchemaCheck(cmd *cobra.Command, e *env, o *checkOptions, args []string) error {
	doc, err := confschema.Load(o.schema, e.formatOptions())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	var onIssue func(confschema.Issue)
	if o.verbose && !o.silent {
		onIssue = func(it confschema.Issue) { printIssue(out, it) }
	}
	vopt := e.validateOpt(onIssue)
	if o.jsonSchema {
		vopt.UseJSONSchema = true
		vopt.JSONSchema = js.NewEngine()
	}

	files := args
	if len(files) == 0 && o.inputDir != "" {
		if files, err = globInputs(o.inputDir, checkExtensions); err != nil {
			return err
		}
	}
	if len(files) == 0 && o.inputDir == "" {
		return checkStdin(cmd, doc, vopt, o.silent)
	}

	e.log.Debugw("checking files", "count", len(files), "schema", o.schema)
	res, err := doc.ValidateFiles(cmd.Context(), files, confschema.BatchOptions{
		Validate:      vopt,
		QuarantineDir: o.failDir,
		Logger:        e.log,
		OnResult: func(fr confschema.FileResult) {
			if !o.silent && fr.Status != confschema.StatusSkipped {
				printResult(out, fr.File, fr.Status == confschema.StatusPassed)
			}
		},
	})
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%w: %d of %d inputs", ErrValidationFailed, len(res.Failed), len(files))
	}
	return nil
}

func checkStdin(cmd *cobra.Command, doc *confschema.Document, vopt confschema.ValidateOpt, silent bool) error {
	text, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	data, err := format.ReadString(string(text), doc.Format)
	if err != nil {
		return err
	}
	passed, err := doc.Validate(data, vopt)
	if err != nil {
		return err
	}
	if !silent {
		printResult(cmd.OutOrStdout(), "INPUT", passed)
	}
	if !passed {
		return ErrValidationFailed
	}
	return nil
}

type genOptions struct {
	outputs    []string
	outputType string
	extras     bool
	silent     bool
}

func newSchemaGenCmd(e *env) *cobra.Command {
	var o genOptions
	cmd := &cobra.Command{
		Use:   "gen [INPUT...]",
		Short: "Generate a schema from sample documents",
		Long: `Generate a schema from sample documents.

Each input gets its own schema, written to the matching --output file or to
<input>.schema.<output-type>. Without inputs the sample is read from stdin and
the schema is printed. INI and .env output are not supported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commandErr(ToolSchemaGen, runSchemaGen(cmd, e, &o, args))
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&o.outputs, "output", "o", nil, "Output files, one per input")
	f.StringVarP(&o.outputType, "output-type", "t", string(format.YAML), "Output format (yaml, json, toml, xml)")
	f.BoolVar(&o.extras, "extras", false, "Add required, nullable, description and bounds to every node")
	f.BoolVar(&o.silent, "silent", false, "Print nothing")
	return cmd
}

func runSchemaGen(cmd *cobra.Command, e *env, o *genOptions, args []string) error {
	outType, err := schemaOutputFormat(o.outputType)
	if err != nil {
		return err
	}
	fopt := e.formatOptions()
	if len(args) == 0 {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		sample, err := format.ReadString(string(text), fopt)
		if err != nil {
			return err
		}
		doc := confschema.Generate(sample, o.extras)
		doc.Format = fopt
		b, err := doc.Encode(outType)
		if err != nil {
			return err
		}
		return writeOut(cmd.OutOrStdout(), b)
	}

	outputs, err := pairOutputs(args, o.outputs, ".schema."+string(outType))
	if err != nil {
		return err
	}
	for i, in := range args {
		sample, err := format.ReadFile(in, fopt)
		if err != nil {
			return err
		}
		doc := confschema.Generate(sample, o.extras)
		doc.Format = fopt
		if err := doc.WriteFile(outputs[i]); err != nil {
			return err
		}
		e.log.Debugw("schema written", "input", in, "output", outputs[i])
		if !o.silent {
			printArrow(cmd.OutOrStdout(), in, outputs[i])
		}
	}
	return nil
}

func schemaOutputFormat(name string) (format.Format, error) {
	f, err := format.Parse(name)
	if err != nil {
		return "", err
	}
	if f == format.INI || f == format.ENV {
		return "", fmt.Errorf("%w: %s output for schema generation", format.ErrUnsupported, f)
	}
	return f, nil
}

// pairOutputs returns one output path per input, deriving
// "<base><suffix>" when no outputs are given.
func pairOutputs(inputs, outputs []string, suffix string) ([]string, error) {
	if len(outputs) > 0 {
		if len(outputs) != len(inputs) {
			return nil, fmt.Errorf("length mismatch input (%d) and output (%d)", len(inputs), len(outputs))
		}
		return outputs, nil
	}
	derived := make([]string, len(inputs))
	for i, in := range inputs {
		derived[i] = strings.TrimSuffix(in, filepath.Ext(in)) + suffix
	}
	return derived, nil
}

// globInputs lists the files in dir with one of exts, sorted by name.
func globInputs(dir string, exts []string) ([]string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", dir)
	}
	var files []string
	for _, ext := range exts {
		m, err := filepath.Glob(filepath.Join(dir, "*."+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, m...)
	}
	slices.Sort(files)
	return files, nil
}

func writeOut(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return err
	}
	if len(b) > 0 && b[len(b)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
