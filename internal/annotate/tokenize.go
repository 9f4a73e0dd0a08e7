package annotate

import (
	"regexp"
	"strings"
	"unicode"
)

// Token kinds recognized by the tokenizer, before tagging.
type kind int

const (
	kindWord kind = iota
	kindNumber
	kindVersion
	kindIssue
	kindDate
	kindPunct
	kindSymbol
)

type rawToken struct {
	text string
	kind kind
}

// Alternatives are tried left to right, so specific shapes come first.
var reToken = regexp.MustCompile(strings.Join([]string{
	`(?P<date>\d{4}-\d{2}-\d{2})`,
	`(?P<issue>#\d+|\b(?i:gh)-\d+)`,
	`(?P<version>[vV]\d+(?:\.\d+)*|\d+\.\d+\.\d+(?:\.\d+)*)`,
	`(?P<number>\d+(?:[.,]\d+)*)`,
	`(?P<word>[\p{L}\p{M}\p{N}_]+(?:'[\p{L}]+)?)`,
	`(?P<other>\S)`,
}, "|"))

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize collapses every whitespace run to a single space and trims the
// result. Invalid UTF-8 is replaced.
func Normalize(text string) string {
	text = strings.ToValidUTF8(text, "�")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

// tokenize splits normalized text into raw tokens. Contractions are split
// off the word they attach to ("don't" -> "do", "n't").
func tokenize(text string) []rawToken {
	names := reToken.SubexpNames()
	var out []rawToken
	for _, m := range reToken.FindAllStringSubmatchIndex(text, -1) {
		for g := 1; g < len(names); g++ {
			start, end := m[2*g], m[2*g+1]
			if start < 0 {
				continue
			}
			s := text[start:end]
			switch names[g] {
			case "date":
				out = append(out, rawToken{s, kindDate})
			case "issue":
				out = append(out, rawToken{s, kindIssue})
			case "version":
				out = append(out, rawToken{s, kindVersion})
			case "number":
				out = append(out, rawToken{s, kindNumber})
			case "word":
				out = append(out, splitContraction(s)...)
			default:
				out = append(out, rawToken{s, otherKind(s)})
			}
			break
		}
	}
	return out
}

func splitContraction(word string) []rawToken {
	lower := strings.ToLower(word)
	if strings.HasSuffix(lower, "n't") && len(lower) > 3 {
		cut := len(word) - 3
		return []rawToken{{word[:cut], kindWord}, {word[cut:], kindWord}}
	}
	if i := strings.IndexByte(word, '\''); i > 0 {
		return []rawToken{{word[:i], kindWord}, {word[i:], kindWord}}
	}
	return []rawToken{{word, kindWord}}
}

func otherKind(s string) kind {
	for _, r := range s {
		if unicode.IsPunct(r) {
			return kindPunct
		}
	}
	return kindSymbol
}
