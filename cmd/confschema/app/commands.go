// Package app provides the entry point for the confschema command-line
// application.
package app

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	confschema "github.com/reoring/confschema"
	"github.com/reoring/confschema/config"
	"github.com/reoring/confschema/format"
	"github.com/reoring/confschema/i18n"
)

// env is the state shared by every subcommand once flags are parsed.
type env struct {
	v   *viper.Viper
	cfg config.Config
	log *zap.SugaredLogger
}

func (e *env) formatOptions() format.Options {
	return format.Options{Path: e.cfg.Path()}
}

func (e *env) validateOpt(verbose func(confschema.Issue)) confschema.ValidateOpt {
	return confschema.ValidateOpt{PathSeparator: e.cfg.ReportSep, OnIssue: verbose}
}

// NewRootCmd creates a new root command for the confschema CLI.
func NewRootCmd() *cobra.Command {
	e := &env{v: viper.New(), log: zap.NewNop().Sugar()}
	config.Bind(e.v)

	rootCmd := &cobra.Command{
		Use:               "confschema",
		DisableAutoGenTag: true,
		Short:             "Infer, check and convert configuration documents",
		Long: `confschema works with configuration documents in YAML, JSON, TOML, XML,
INI and .env form. It infers schemas from sample documents, validates
documents against a schema and converts between formats.

Path settings are read from CONFSCHEMA_* environment variables, e.g.
CONFSCHEMA_PATH_SEP, CONFSCHEMA_OPENING_BRACES and CONFSCHEMA_REPORT_SEP.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				e.log.Errorf("Error displaying help: %v", err)
			}
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return e.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = e.log.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug logging")
	flags.Bool("no-color", false, "Disable coloured output")
	flags.String("path-sep", "", "Path separator for flattened keys and INI sections")
	flags.String("opening-braces", "", "Opening bracket around sequence indices in paths")
	flags.String("closing-braces", "", "Closing bracket around sequence indices in paths")
	flags.String("report-sep", "", "Separator used in validation report paths")
	flags.String("lang", "", "Message language (en, ja)")
	for key, flag := range map[string]string{
		"debug":                 "debug",
		"no_color":              "no-color",
		config.KeyPathSep:       "path-sep",
		config.KeyOpeningBraces: "opening-braces",
		config.KeyClosingBraces: "closing-braces",
		config.KeyReportSep:     "report-sep",
		config.KeyLang:          "lang",
	} {
		if err := e.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			e.log.Errorf("Error binding %s flag: %v", flag, err)
		}
	}

	rootCmd.AddCommand(newSchemaCmd(e))
	rootCmd.AddCommand(newConvCmd(e))

	// Silence printing the usage on error; main reports errors itself
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	return rootCmd
}

func (e *env) init() error {
	log, err := newLogger(e.v.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	e.log = log
	e.cfg = config.Load(e.v)
	i18n.SetLanguage(e.cfg.Lang)
	if e.v.GetBool("no_color") {
		color.NoColor = true
	}
	e.log.Debugw("configuration loaded",
		"path_sep", e.cfg.PathSep,
		"opening_braces", e.cfg.OpeningBraces,
		"closing_braces", e.cfg.ClosingBraces,
		"report_sep", e.cfg.ReportSep,
		"lang", e.cfg.Lang)
	return nil
}

func newLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		cfg.DisableStacktrace = true
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

var (
	okText   = color.New(color.FgGreen).SprintFunc()
	failText = color.New(color.FgRed).SprintFunc()
	nameText = color.New(color.FgBlue).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
)

// printResult writes "<name> -> OK|FAIL".
func printResult(w io.Writer, name string, passed bool) {
	res := okText("OK")
	if !passed {
		res = failText("FAIL")
	}
	fmt.Fprintf(w, "%s -> %s\n", nameText(name), res)
}

func printIssue(w io.Writer, it confschema.Issue) {
	fmt.Fprintf(w, "  %s %s: %s\n", warnText(it.Code), it.Path, it.Message)
}

func printArrow(w io.Writer, from, to string) {
	fmt.Fprintf(w, "%s -> %s\n", nameText(from), nameText(to))
}
