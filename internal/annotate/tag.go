package annotate

import (
	"strings"
	"unicode"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// Universal coarse tags.
const (
	posNoun  = "NOUN"
	posPropn = "PROPN"
	posVerb  = "VERB"
	posAux   = "AUX"
	posAdj   = "ADJ"
	posAdv   = "ADV"
	posAdp   = "ADP"
	posDet   = "DET"
	posPron  = "PRON"
	posCconj = "CCONJ"
	posSconj = "SCONJ"
	posPart  = "PART"
	posIntj  = "INTJ"
	posNum   = "NUM"
	posPunct = "PUNCT"
	posSym   = "SYM"
	posX     = "X"
)

// tagToken assigns the coarse and fine tag of raw[i]. tagged holds the
// tokens before i, already tagged.
func tagToken(raw []rawToken, tagged []schema.AnnotatedToken, i int) (pos, tag string) {
	rt := raw[i]
	switch rt.kind {
	case kindDate, kindVersion, kindIssue, kindNumber:
		return posNum, "CD"
	case kindPunct:
		return posPunct, punctTag(rt.text)
	case kindSymbol:
		if rt.text == "$" {
			return posSym, "$"
		}
		return posSym, "SYM"
	}

	lower := strings.ToLower(rt.text)
	prevPOS, prevLower := "", ""
	if i > 0 {
		prevPOS = tagged[i-1].PartOfSpeech
		prevLower = strings.ToLower(tagged[i-1].Text)
	}

	// Contraction pieces split off by the tokenizer.
	switch lower {
	case "n't":
		return posPart, "RB"
	case "'s":
		if prevPOS == posPron {
			return posAux, "VBZ"
		}
		return posPart, "POS"
	case "'re", "'m", "'ve":
		return posAux, "VBP"
	case "'ll", "'d":
		return posAux, "MD"
	}

	if !isAlpha(rt.text) {
		if strings.ContainsFunc(rt.text, unicode.IsLetter) {
			return posNoun, "NN" // identifiers such as utf8 or foo_bar
		}
		return posX, "XX"
	}

	start := clauseStart(raw, i)

	// Imperative first word, the usual commit message style.
	if start {
		if pos, tag, ok := verbForm(lower); ok {
			return pos, tag
		}
	}

	switch {
	case lower == "to":
		return posPart, "TO"
	case lower == "not":
		return posPart, "RB"
	case has(possessives, lower):
		return posPron, "PRP$"
	case has(pronouns, lower):
		return posPron, "PRP"
	case has(determiners, lower):
		return posDet, "DT"
	case auxTags[lower] != "":
		return posAux, auxTags[lower]
	case has(coordinators, lower):
		return posCconj, "CC"
	case has(subordinators, lower):
		return posSconj, "IN"
	case has(adpositions, lower):
		return posAdp, "IN"
	case has(interjections, lower):
		return posIntj, "UH"
	case has(adverbs, lower):
		return posAdv, "RB"
	case has(adjectives, lower):
		return posAdj, adjectiveTag(lower)
	}

	if !start && isCapitalized(rt.text) && !isVerbLike(lower) {
		if strings.HasSuffix(rt.text, "s") && isAllCaps(strings.TrimSuffix(rt.text, "s")) {
			return posPropn, "NNPS"
		}
		return posPropn, "NNP"
	}

	if pos, tag, ok := verbForm(lower); ok {
		return contextualVerb(pos, tag, prevPOS, prevLower)
	}

	switch {
	case strings.HasSuffix(lower, "ly") && len(lower) > 4:
		return posAdv, "RB"
	case hasAnySuffix(lower, adjectiveSuffixes):
		return posAdj, "JJ"
	case hasAnySuffix(lower, nounSuffixes):
		return posNoun, "NN"
	case isPlural(lower):
		return posNoun, "NNS"
	}
	return posNoun, "NN"
}

// verbForm recognizes known verbs in base or regularly inflected form.
func verbForm(lower string) (pos, tag string, ok bool) {
	if has(baseVerbs, lower) {
		return posVerb, "VB", true
	}
	if lemma, found := irregularVerbs[lower]; found && lemma != lower {
		return posVerb, "VBD", true
	}
	if stem := verbStem(lower, "ing"); stem != "" {
		return posVerb, "VBG", true
	}
	if stem := verbStem(lower, "ed"); stem != "" {
		return posVerb, "VBD", true
	}
	if stem := thirdPersonStem(lower); stem != "" {
		return posVerb, "VBZ", true
	}
	return "", "", false
}

// contextualVerb resolves a verb form against its left neighbour: after a
// determiner, adjective or preposition a base or -s form is a noun.
func contextualVerb(pos, tag, prevPOS, prevLower string) (string, string) {
	switch prevPOS {
	case posDet, posAdj, posAdp, posNum:
		switch tag {
		case "VB":
			return posNoun, "NN"
		case "VBZ":
			return posNoun, "NNS"
		case "VBG":
			return posNoun, "NN"
		case "VBD":
			return posAdj, "JJ"
		}
	case posAux:
		lemma := auxLemmas[prevLower]
		if lemma == "" {
			lemma = prevLower
		}
		if tag == "VBD" && (lemma == "have" || lemma == "be") {
			return posVerb, "VBN"
		}
	case posPron:
		if tag == "VB" {
			return posVerb, "VBP"
		}
	}
	return pos, tag
}

func isVerbLike(lower string) bool {
	_, _, ok := verbForm(lower)
	return ok
}

func verbStem(lower, suffix string) string {
	if !strings.HasSuffix(lower, suffix) || len(lower) <= len(suffix)+1 {
		return ""
	}
	stem := strings.TrimSuffix(lower, suffix)
	for _, candidate := range stemCandidates(stem, suffix) {
		if has(baseVerbs, candidate) {
			return candidate
		}
	}
	return ""
}

// stemCandidates lists base forms that could produce stem+suffix.
func stemCandidates(stem, suffix string) []string {
	candidates := []string{stem, stem + "e"}
	if n := len(stem); n >= 2 && stem[n-1] == stem[n-2] {
		candidates = append(candidates, stem[:n-1]) // stopped, running
	}
	if suffix == "ed" && strings.HasSuffix(stem, "i") {
		candidates = append(candidates, strings.TrimSuffix(stem, "i")+"y") // applied
	}
	return candidates
}

func thirdPersonStem(lower string) string {
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 4:
		if stem := strings.TrimSuffix(lower, "ies") + "y"; has(baseVerbs, stem) {
			return stem
		}
	case strings.HasSuffix(lower, "es") && has(baseVerbs, strings.TrimSuffix(lower, "es")):
		return strings.TrimSuffix(lower, "es")
	}
	if strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") {
		if stem := strings.TrimSuffix(lower, "s"); has(baseVerbs, stem) {
			return stem
		}
	}
	return ""
}

func isPlural(lower string) bool {
	if _, ok := irregularNouns[lower]; ok {
		return true
	}
	return len(lower) > 3 && strings.HasSuffix(lower, "s") &&
		!strings.HasSuffix(lower, "ss") && !strings.HasSuffix(lower, "us") && !strings.HasSuffix(lower, "is")
}

func hasAnySuffix(lower string, suffixes []string) bool {
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s) && len(lower) > len(s)+2 {
			return true
		}
	}
	return false
}

func adjectiveTag(lower string) string {
	switch lower {
	case "better", "worse", "more", "less":
		return "JJR"
	case "best", "most", "latest":
		return "JJS"
	}
	return "JJ"
}

func punctTag(s string) string {
	switch s {
	case ".", "!", "?":
		return "."
	case ",":
		return ","
	case ":", ";":
		return ":"
	case "(", "[", "{":
		return "-LRB-"
	case ")", "]", "}":
		return "-RRB-"
	case "\"", "'", "`":
		return "''"
	case "-":
		return "HYPH"
	}
	return "NFP"
}

// lemmatize returns the dictionary form of a token given its tags.
func lemmatize(text, pos, tag string) string {
	lower := strings.ToLower(text)
	switch pos {
	case posPropn:
		return text
	case posAux:
		if lemma, ok := auxLemmas[lower]; ok {
			return lemma
		}
		return lower
	case posVerb:
		if lemma, ok := irregularVerbs[lower]; ok {
			return lemma
		}
		switch tag {
		case "VBG":
			if stem := verbStem(lower, "ing"); stem != "" {
				return stem
			}
		case "VBD", "VBN":
			if stem := verbStem(lower, "ed"); stem != "" {
				return stem
			}
		case "VBZ":
			if stem := thirdPersonStem(lower); stem != "" {
				return stem
			}
		}
		return lower
	case posNoun:
		if lemma, ok := irregularNouns[lower]; ok {
			return lemma
		}
		if tag == "NNS" {
			return singular(lower)
		}
		return lower
	case posPart:
		if lower == "n't" {
			return "not"
		}
	}
	return lower
}

func singular(lower string) string {
	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 4:
		return strings.TrimSuffix(lower, "ies") + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"), strings.HasSuffix(lower, "xes"), strings.HasSuffix(lower, "zes"):
		return strings.TrimSuffix(lower, "es")
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss"):
		return strings.TrimSuffix(lower, "s")
	}
	return lower
}
