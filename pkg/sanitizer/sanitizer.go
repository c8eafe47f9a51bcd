package sanitizer

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxLength is the longest value, in characters, Sanitize returns.
const MaxLength = 1000

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reAngleBrackets  = regexp.MustCompile(`[<>]`)
	reScriptScheme   = regexp.MustCompile(`(?i)javascript:`)
	reInlineHandlers = regexp.MustCompile(`(?i)on\w+\s*=`)

	textPipeline = Pipeline{
		stripAngleBrackets,
		stripScriptScheme,
		stripInlineHandlers,
		strings.TrimSpace,
		Truncate(MaxLength),
	}
)

func stripAngleBrackets(s string) string {
	return reAngleBrackets.ReplaceAllString(s, "")
}

func stripScriptScheme(s string) string {
	return reScriptScheme.ReplaceAllString(s, "")
}

func stripInlineHandlers(s string) string {
	return reInlineHandlers.ReplaceAllString(s, "")
}

// Truncate returns a Strategy that keeps at most n runes.
func Truncate(n int) Strategy {
	return func(s string) string {
		if utf8.RuneCountInString(s) <= n {
			return s
		}
		runes := []rune(s)
		return string(runes[:n])
	}
}

func Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return textPipeline.Apply(input)
}

// NormalizeTime converts a 12-hour slot label such as "9:00 AM" to the
// 24-hour "09:00:00" form used by the bookings store. Values that are not
// 12-hour labels are returned trimmed but otherwise unchanged.
func NormalizeTime(input string) string {
	s := strings.TrimSpace(input)
	for _, layout := range []string{"3:04 PM", "3:04PM", "03:04 PM"} {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Format("15:04:05")
		}
	}
	return s
}
