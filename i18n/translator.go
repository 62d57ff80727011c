package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected", "actual" or "bound").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {name} placeholders filled from data.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "expected {expected}, got {actual}",
		"required":       "required property missing",
		"invalid_length": "length must be exactly {bound}, got {actual}",
		"too_short":      "must contain at least {bound} items, got {actual}",
		"too_long":       "must contain at most {bound} items, got {actual}",
		"invalid_format": "value does not match format {expected}",
		"parse_error":    "parse error",
		"json_schema":    "JSON Schema violation",
	},
	"ja": {
		"invalid_type":   "型が不正です ({expected} を期待しましたが {actual} でした)",
		"required":       "必須プロパティが不足しています",
		"invalid_length": "要素数は {bound} でなければなりません ({actual})",
		"too_short":      "短すぎます (最小 {bound}, 実際 {actual})",
		"too_long":       "長すぎます (最大 {bound}, 実際 {actual})",
		"invalid_format": "書式 {expected} に一致しません",
		"parse_error":    "解析エラー",
		"json_schema":    "JSON Schema 違反",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
