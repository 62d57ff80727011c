package formats

import (
	"encoding/base64"
	"math/big"
	"mime"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/asaskevich/govalidator"
	"github.com/aws/aws-sdk-go-v2/aws/arn"
	"github.com/google/uuid"

	"github.com/reoring/confschema/value"
)

var (
	colourHexRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3,4}){1,2}$`)
	awsRegionRe = regexp.MustCompile(`^(af|il|ap|ca|eu|me|sa|us|cn|us-gov|us-iso|us-isob)-(central|north|(north(?:east|west))|south|south(?:east|west)|east|west)-\d{1}$`)
	ethAddrRe   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	bicRe       = regexp.MustCompile(`^[A-Za-z]{6}[A-Za-z0-9]{2}(?:[A-Za-z0-9]{3})?$`)
	uuidShapeRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
)

func registerBuiltins(r *Registry) {
	r.Register("regex", Regex)
	r.Register("regex-pattern", str(func(s string, _ Params) bool {
		_, err := regexp.Compile(s)
		return err == nil
	}))
	r.Register("ip-address", str(ipAddress))
	r.Register("port-number", portNumber)
	r.Register("fqdn", str(fqdn))
	r.Register("url", str(plain(govalidator.IsURL)))
	r.Register("mac-address", str(plain(govalidator.IsMAC)))
	r.Register("hex", str(plain(govalidator.IsHexadecimal)))
	r.Register("base64", str(base64String))
	r.Register("colour-hex", str(plain(colourHexRe.MatchString)))
	r.Register("colour-rgb", str(plain(govalidator.IsRGBcolor)))
	r.Register("email", str(email))
	r.Register("iso-6391", str(plain(govalidator.IsISO693Alpha2)))
	r.Register("iso-lang", str(plain(govalidator.IsISO693Alpha2)))
	r.Register("iso-31661", str(plain(govalidator.IsISO3166Alpha2)))
	r.Register("iso-country", str(plain(govalidator.IsISO3166Alpha2)))
	r.Register("lat-long", str(latLong))
	r.Register("date", str(date))
	r.Register("uuid", str(uuidString))
	r.Register("sem-ver", str(func(s string, _ Params) bool {
		_, err := semver.StrictNewVersion(s)
		return err == nil
	}))
	r.Register("mime-type", str(mimeType))
	r.Register("cloud-aws-region", str(plain(awsRegionRe.MatchString)))
	r.Register("cloud-aws-arn", str(awsARN))
	r.Register("credit-card", str(plain(govalidator.IsCreditCard)))
	r.Register("hash", str(hash))
	r.Register("magnet-uri", str(plain(govalidator.IsMagnetURI)))
	r.Register("prime-number", primeNumber)
	r.Register("eth-address", str(plain(ethAddrRe.MatchString)))
	r.Register("ethereum-address", str(plain(ethAddrRe.MatchString)))
	r.Register("bic", str(plain(bicRe.MatchString)))
	r.Register("swift", str(plain(bicRe.MatchString)))
	r.Register("ean", str(ean))
}

// str adapts a string check into a Predicate; non-string values never match.
func str(f func(s string, p Params) bool) Predicate {
	return func(v value.Value, p Params) bool {
		s, ok := v.(value.String)
		if !ok {
			return false
		}
		return f(string(s), p)
	}
}

func plain(f func(string) bool) func(string, Params) bool {
	return func(s string, _ Params) bool { return f(s) }
}

var regexCache sync.Map // pattern -> *regexp.Regexp (nil when invalid)

// Regex matches the "pattern" parameter at the start of the string.
func Regex(v value.Value, p Params) bool {
	s, ok := v.(value.String)
	if !ok {
		return false
	}
	pattern, ok := p.Value("pattern")
	if !ok {
		return false
	}
	re := compileAnchored(value.Text(pattern))
	return re != nil && re.MatchString(string(s))
}

func compileAnchored(pattern string) *regexp.Regexp {
	if re, ok := regexCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		re = nil
	}
	regexCache.Store(pattern, re)
	return re
}

func ipAddress(s string, p Params) bool {
	switch p.String("version", "") {
	case "4", "ipv4", "v4":
		return govalidator.IsIPv4(s)
	case "6", "ipv6", "v6":
		return govalidator.IsIPv6(s)
	default:
		return govalidator.IsIP(s)
	}
}

func portNumber(v value.Value, _ Params) bool {
	switch t := v.(type) {
	case value.Int:
		return t > 0 && t <= 65535
	case value.String:
		return govalidator.IsPort(string(t))
	}
	return false
}

func fqdn(s string, p Params) bool {
	if p.Bool("allow_trailing_dot", false) {
		s = strings.TrimSuffix(s, ".")
	}
	if !p.Bool("allow_underscores", false) && strings.Contains(s, "_") {
		return false
	}
	if p.Bool("allow_wildcard", false) {
		s = strings.TrimPrefix(s, "*.")
	}
	if p.Bool("require_tld", true) {
		i := strings.LastIndex(s, ".")
		if i < 0 {
			return false
		}
		tld := s[i+1:]
		if !p.Bool("allow_numeric_tld", false) && govalidator.IsNumeric(tld) {
			return false
		}
	}
	return govalidator.IsDNSName(s)
}

func base64String(s string, p Params) bool {
	if !p.Bool("url_safe", false) {
		return govalidator.IsBase64(s)
	}
	if _, err := base64.URLEncoding.DecodeString(s); err == nil {
		return true
	}
	_, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil
}

func email(s string, p Params) bool {
	if p.Bool("allow_display_name", false) || p.Bool("require_display_name", false) {
		addr, err := mail.ParseAddress(s)
		if err != nil {
			return false
		}
		if p.Bool("require_display_name", false) && addr.Name == "" {
			return false
		}
		s = addr.Address
	}
	return govalidator.IsEmail(s)
}

func latLong(s string, _ Params) bool {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return false
	}
	return govalidator.IsLatitude(strings.TrimSpace(parts[0])) &&
		govalidator.IsLongitude(strings.TrimSpace(parts[1]))
}

var dateTokens = strings.NewReplacer("YYYY", "2006", "YY", "06", "MM", "01", "DD", "02")

// date checks s against a "format" such as YYYY/MM/DD. Unless strict_mode is
// set, any of the "delimiters" may stand in for the format's own delimiter.
func date(s string, p Params) bool {
	layout := dateTokens.Replace(p.String("format", "YYYY/MM/DD"))
	if _, err := time.Parse(layout, s); err == nil {
		return true
	}
	if p.Bool("strict_mode", false) {
		return false
	}
	delims := p.Strings("delimiters", []string{"/", "-"})
	for _, from := range delims {
		if !strings.Contains(layout, from) {
			continue
		}
		for _, to := range delims {
			if _, err := time.Parse(strings.ReplaceAll(layout, from, to), s); err == nil {
				return true
			}
		}
	}
	return false
}

func uuidString(s string, p Params) bool {
	if !uuidShapeRe.MatchString(s) {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	want := p.String("version", "all")
	if want == "all" || want == "" {
		return true
	}
	n, err := strconv.Atoi(strings.TrimPrefix(want, "v"))
	if err != nil {
		return false
	}
	return int(u.Version()) == n
}

func mimeType(s string, _ Params) bool {
	mt, _, err := mime.ParseMediaType(s)
	if err != nil {
		return false
	}
	typ, sub, ok := strings.Cut(mt, "/")
	return ok && typ != "" && sub != ""
}

func awsARN(s string, p Params) bool {
	a, err := arn.Parse(s)
	if err != nil {
		return false
	}
	resource := p.String("resource", "any")
	return resource == "any" || a.Service == resource
}

var hashAlgorithms = []string{
	"md4", "md5", "sha1", "sha256", "sha384", "sha512",
	"ripemd128", "ripemd160", "tiger128", "tiger160", "tiger192", "crc32", "crc32b",
}

func hash(s string, p Params) bool {
	if algo := p.String("algorithm", ""); algo != "" {
		return govalidator.IsHash(s, strings.ToLower(algo))
	}
	for _, algo := range hashAlgorithms {
		if govalidator.IsHash(s, algo) {
			return true
		}
	}
	return false
}

func primeNumber(v value.Value, _ Params) bool {
	var n big.Int
	switch t := v.(type) {
	case value.Int:
		n.SetInt64(int64(t))
	case value.String:
		if _, ok := n.SetString(strings.TrimSpace(string(t)), 10); !ok {
			return false
		}
	default:
		return false
	}
	return n.Sign() > 0 && n.ProbablyPrime(20)
}

// ean validates EAN-8, EAN-13 and EAN-14 check digits.
func ean(s string, _ Params) bool {
	if n := len(s); n != 8 && n != 13 && n != 14 {
		return false
	}
	if !govalidator.IsNumeric(s) {
		return false
	}
	sum := 0
	body := s[:len(s)-1]
	for i := range body {
		d := int(body[len(body)-1-i] - '0')
		if i%2 == 0 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return check == int(s[len(s)-1]-'0')
}
