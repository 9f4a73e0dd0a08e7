package annotate

import (
	"strings"
	"unicode/utf8"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// Entity labels produced by the annotator.
const (
	LabelPerson   = "PERSON"
	LabelOrg      = "ORG"
	LabelIssue    = "ISSUE"
	LabelVersion  = "VERSION"
	LabelDate     = "DATE"
	LabelCardinal = "CARDINAL"
)

// findEntities scans tagged tokens left to right. Spans never overlap.
func findEntities(raw []rawToken, tokens []schema.AnnotatedToken) []schema.EntitySpan {
	var spans []schema.EntitySpan
	for i := 0; i < len(raw); {
		if end := dateEnd(raw, i); end > i {
			spans = append(spans, schema.EntitySpan{Start: i, End: end, Label: LabelDate})
			i = end
			continue
		}

		switch raw[i].kind {
		case kindIssue:
			spans = append(spans, schema.EntitySpan{Start: i, End: i + 1, Label: LabelIssue})
			i++
			continue
		case kindVersion:
			spans = append(spans, schema.EntitySpan{Start: i, End: i + 1, Label: LabelVersion})
			i++
			continue
		case kindNumber:
			spans = append(spans, schema.EntitySpan{Start: i, End: i + 1, Label: LabelCardinal})
			i++
			continue
		}

		if tokens[i].PartOfSpeech == posPropn {
			end := i + 1
			for end < len(tokens) && tokens[end].PartOfSpeech == posPropn {
				end++
			}
			spans = append(spans, schema.EntitySpan{Start: i, End: end, Label: nameLabel(tokens[i:end])})
			i = end
			continue
		}
		i++
	}
	return spans
}

// dateEnd returns the end of a date starting at i, or i when there is none.
// Accepted shapes: 2024-03-01, "March", "March 3", "March 2024", "March 3, 2024".
func dateEnd(raw []rawToken, i int) int {
	if raw[i].kind == kindDate {
		return i + 1
	}
	lower := strings.ToLower(raw[i].text)
	if raw[i].kind != kindWord || !has(months, lower) || !isCapitalized(raw[i].text) {
		return i
	}

	end := i + 1
	if end < len(raw) && isDay(raw[end]) {
		end++
		if end+1 < len(raw) && raw[end].text == "," && isYear(raw[end+1]) {
			end += 2
		} else if end < len(raw) && isYear(raw[end]) {
			end++
		}
	} else if end < len(raw) && isYear(raw[end]) {
		end++
	}

	// "May" and "March" alone are more often a modal or a verb.
	if end == i+1 && (lower == "may" || lower == "march" || utf8.RuneCountInString(lower) <= 3) {
		return i
	}
	return end
}

func isDay(rt rawToken) bool {
	return rt.kind == kindNumber && len(rt.text) <= 2 && rt.text != "0" && rt.text != "00"
}

func isYear(rt rawToken) bool {
	return rt.kind == kindNumber && len(rt.text) == 4
}

// nameLabel decides between ORG and PERSON for a run of proper nouns.
func nameLabel(run []schema.AnnotatedToken) string {
	last := strings.ToLower(run[len(run)-1].Text)
	if has(orgSuffixes, last) {
		return LabelOrg
	}
	for _, tok := range run {
		if !isAllCaps(tok.Text) {
			return LabelPerson
		}
	}
	return LabelOrg
}
