package host

import (
	"regexp"
	"strconv"
	"strings"
)

const DefaultPort = 22

// Variant is one host spec grammar. Suitable must not depend on anything but
// the raw string; Extract is only called when Suitable held.
type Variant struct {
	Name     string
	Suitable func(raw string) bool
	Extract  func(raw, login string) (user, hostname string, port int)
}

var (
	userAtColonRe    = regexp.MustCompile(`.*@.*:.*`)
	ipv6WithPortRe   = regexp.MustCompile(`^\[?[a-fA-F0-9:]+\]?:\d+$`)
	userAtHostPortRe = regexp.MustCompile(`@.*:\d+`)
	colonOrAtRe      = regexp.MustCompile(`[:@]`)
	digitsRe         = regexp.MustCompile(`^\d+$`)
)

var simpleVariant = Variant{
	Name: "Simple",
	Suitable: func(raw string) bool {
		return !strings.ContainsAny(raw, ":@|")
	},
	Extract: func(raw, login string) (string, string, int) {
		return login, raw, DefaultPort
	},
}

var hostWithPortVariant = Variant{
	Name: "HostWithPort",
	Suitable: func(raw string) bool {
		return !strings.ContainsAny(raw, "@[]|")
	},
	Extract: func(raw, login string) (string, string, int) {
		hostname, port := cutLast(raw, ":")
		return login, hostname, atoi(port)
	},
}

// numericUserVariant is the first of the two HostWithUsernameAndPort
// grammars. It only claims user@<digits> inputs with no port; everything
// else falls through to the later slots.
var numericUserVariant = Variant{
	Name: "HostWithUsernameAndPort",
	Suitable: func(raw string) bool {
		if userAtColonRe.MatchString(raw) || !strings.Contains(raw, "@") {
			return false
		}
		return digitsRe.MatchString(raw[strings.LastIndex(raw, "@")+1:])
	},
	Extract: func(raw, _ string) (string, string, int) {
		user := strconv.Itoa(atoi(raw[strings.LastIndex(raw, "@")+1:]))
		return user, token(colonOrAtRe.Split(raw, -1), 1), DefaultPort
	},
}

var ipv6HostWithPortVariant = Variant{
	Name: "IPv6HostWithPort",
	Suitable: func(raw string) bool {
		return ipv6WithPortRe.MatchString(raw)
	},
	Extract: func(raw, login string) (string, string, int) {
		stripped := strings.NewReplacer("[", "", "]", "").Replace(raw)
		hostname, port := cutLast(stripped, ":")
		return login, hostname, atoi(port)
	},
}

var hostWithUsernameVariant = Variant{
	Name: "HostWithUsername",
	Suitable: func(raw string) bool {
		return strings.Contains(raw, "@") && !strings.Contains(raw, ":")
	},
	Extract: func(raw, _ string) (string, string, int) {
		user := raw[:strings.Index(raw, "@")]
		hostname := raw[strings.LastIndex(raw, "@")+1:]
		return user, hostname, DefaultPort
	},
}

var hostWithUsernameAndPortVariant = Variant{
	Name: "HostWithUsernameAndPort",
	Suitable: func(raw string) bool {
		return userAtHostPortRe.MatchString(raw)
	},
	Extract: func(raw, _ string) (string, string, int) {
		user, rest, _ := strings.Cut(raw, "@")
		if strings.Count(rest, ":") > 1 && !strings.Contains(rest, "@") {
			// IPv6 literal, possibly bracketed: the port follows the last colon.
			hostname, port := cutLast(strings.NewReplacer("[", "", "]", "").Replace(rest), ":")
			return user, hostname, atoi(port)
		}
		tokens := colonOrAtRe.Split(raw, -1)
		return token(tokens, 0), token(tokens, 1), atoi(token(tokens, 2))
	},
}

// Variants is the selection table in priority order.
var Variants = []Variant{
	simpleVariant,
	hostWithPortVariant,
	numericUserVariant,
	ipv6HostWithPortVariant,
	hostWithUsernameVariant,
	hostWithUsernameAndPortVariant,
}

// Select returns the first variant in Variants that claims raw.
func Select(raw string) (Variant, error) {
	for _, v := range Variants {
		if v.Suitable(raw) {
			return v, nil
		}
	}
	return Variant{}, unparsable(raw)
}

func cutLast(s, sep string) (before, after string) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+len(sep):]
}

func token(tokens []string, i int) string {
	if i < len(tokens) {
		return tokens[i]
	}
	return ""
}

// atoi reads the leading decimal digits of s and ignores the rest. Text with
// no leading digits yields 0.
func atoi(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
