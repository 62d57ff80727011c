package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/confschema/format"
	"github.com/reoring/confschema/pathcodec"
	"github.com/reoring/confschema/value"
)

// convExtensions are the files picked up from --input-directory.
var convExtensions = []string{"yaml", "yml", "json", "toml", "xml", "ini", "env"}

type convOptions struct {
	outputs    []string
	outputType string
	inputType  string
	inputDir   string
	path       string
	verbose    bool
}

func newConvCmd(e *env) *cobra.Command {
	var o convOptions
	cmd := &cobra.Command{
		Use:   "conv [INPUT...]",
		Short: "Convert documents between formats",
		Long: `Convert documents between YAML, JSON, TOML, XML and INI.

Each input is written to the matching --output file or to
<input>.<output-type>. Without inputs the document is read from stdin and the
result printed; --path selects a sub-tree using the configured path syntax,
e.g. server.ports(0).

Nulls are dropped from TOML output. INI output flattens nested mappings into
sections joined by the path separator.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return commandErr(ToolConv, runConv(cmd, e, &o, args))
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&o.outputs, "output", "o", nil, "Output files, one per input")
	f.StringVarP(&o.outputType, "output-type", "t", string(format.YAML), "Output format (yaml, json, toml, xml, ini)")
	f.StringVarP(&o.inputType, "input-type", "i", "", "Input format; inferred when empty")
	f.StringVarP(&o.inputDir, "input-directory", "d", "", "Directory of documents to convert")
	f.StringVarP(&o.path, "path", "p", "", "Only output the value at this path")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Print each conversion")
	return cmd
}

func runConv(cmd *cobra.Command, e *env, o *convOptions, args []string) error {
	outType, err := format.Parse(o.outputType)
	if err != nil {
		return err
	}
	var inType format.Format
	if o.inputType != "" {
		if inType, err = format.Parse(o.inputType); err != nil {
			return err
		}
	}
	fopt := e.formatOptions()

	files := args
	if len(files) == 0 && o.inputDir != "" {
		if files, err = globInputs(o.inputDir, convExtensions); err != nil {
			return err
		}
	}
	if len(files) == 0 {
		text, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		v, err := readAs(text, inType, fopt)
		if err != nil {
			return err
		}
		if o.path != "" {
			if v, err = selectPath(v, o.path, e.cfg.Path()); err != nil {
				return err
			}
			if value.IsScalar(v) {
				return writeOut(cmd.OutOrStdout(), []byte(value.Text(v)))
			}
		}
		b, err := format.Write(v, outType, fopt)
		if err != nil {
			return err
		}
		return writeOut(cmd.OutOrStdout(), b)
	}

	outputs, err := pairOutputs(files, o.outputs, "."+string(outType))
	if err != nil {
		return err
	}
	for i, in := range files {
		if outputs[i] == in {
			return fmt.Errorf("%s: output would overwrite input", in)
		}
		v, err := format.ReadFile(in, fopt)
		if err != nil {
			return err
		}
		b, err := format.Write(v, outType, fopt)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
		if err := os.WriteFile(outputs[i], b, 0o644); err != nil {
			return err
		}
		e.log.Debugw("converted", "input", in, "output", outputs[i], "format", outType)
		if o.verbose {
			printArrow(cmd.OutOrStdout(), in, outputs[i])
		}
	}
	return nil
}

func readAs(data []byte, f format.Format, opt format.Options) (value.Value, error) {
	if f == "" {
		return format.ReadString(string(data), opt)
	}
	return format.Read(data, f, opt)
}

func selectPath(v value.Value, path string, cfg pathcodec.Config) (value.Value, error) {
	got, ok := pathcodec.Lookup(v, pathcodec.Parse(path, cfg))
	if !ok {
		return nil, fmt.Errorf("path %q not found", path)
	}
	return got, nil
}
