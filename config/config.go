// Package config resolves runtime settings from flags and CONFSCHEMA_*
// environment variables through viper. Settings are read once here and passed
// explicitly to the packages that need them.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/reoring/confschema/pathcodec"
)

// EnvPrefix is prepended to every environment variable, e.g.
// CONFSCHEMA_PATH_SEP.
const EnvPrefix = "CONFSCHEMA"

// Keys understood by Load.
const (
	KeyPathSep       = "path_sep"
	KeyOpeningBraces = "opening_braces"
	KeyClosingBraces = "closing_braces"
	KeyReportSep     = "report_sep"
	KeyLang          = "lang"
)

// Config holds the resolved settings.
type Config struct {
	// PathSep joins path segments when flattening and in INI sections.
	PathSep string
	// OpeningBraces and ClosingBraces surround sequence indices.
	OpeningBraces string
	ClosingBraces string
	// ReportSep joins diagnostic paths.
	ReportSep string
	// Lang selects the message catalogue ("en" or "ja").
	Lang string
}

// Default returns the built-in settings.
func Default() Config {
	d := pathcodec.DefaultConfig()
	return Config{
		PathSep:       d.Separator,
		OpeningBraces: d.Open,
		ClosingBraces: d.Close,
		ReportSep:     "/",
		Lang:          "en",
	}
}

// Bind registers defaults and environment lookups on v.
func Bind(v *viper.Viper) {
	d := Default()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyPathSep, d.PathSep)
	v.SetDefault(KeyOpeningBraces, d.OpeningBraces)
	v.SetDefault(KeyClosingBraces, d.ClosingBraces)
	v.SetDefault(KeyReportSep, d.ReportSep)
	v.SetDefault(KeyLang, d.Lang)
}

// Load reads the settings from v, falling back to defaults for empty values.
// A nil v uses a fresh viper bound to the environment.
func Load(v *viper.Viper) Config {
	if v == nil {
		v = viper.New()
		Bind(v)
	}
	d := Default()
	return Config{
		PathSep:       or(v.GetString(KeyPathSep), d.PathSep),
		OpeningBraces: or(v.GetString(KeyOpeningBraces), d.OpeningBraces),
		ClosingBraces: or(v.GetString(KeyClosingBraces), d.ClosingBraces),
		ReportSep:     or(v.GetString(KeyReportSep), d.ReportSep),
		Lang:          or(v.GetString(KeyLang), d.Lang),
	}
}

// Path returns the path codec configuration.
func (c Config) Path() pathcodec.Config {
	return pathcodec.Config{Separator: c.PathSep, Open: c.OpeningBraces, Close: c.ClosingBraces}
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
