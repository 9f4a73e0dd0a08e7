package annotate

import (
	_ "embed"
	"strings"
)

//go:embed stopwords.txt
var stopwordData string

// parseWordList reads one lower-cased word per line, skipping blanks and # comments.
func parseWordList(data string) map[string]struct{} {
	words := make(map[string]struct{})
	for line := range strings.SplitSeq(data, "\n") {
		word := strings.TrimSpace(strings.ToLower(line))
		if word != "" && !strings.HasPrefix(word, "#") {
			words[word] = struct{}{}
		}
	}
	return words
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Closed word classes.
var (
	determiners = set("a", "an", "the", "this", "that", "these", "those", "each", "every", "some", "any",
		"no", "all", "both", "either", "neither", "another", "such", "whatever", "which", "what")
	pronouns = set("i", "me", "you", "he", "him", "she", "her", "it", "we", "us", "they", "them",
		"myself", "yourself", "himself", "herself", "itself", "ourselves", "themselves",
		"someone", "something", "anyone", "anything", "everyone", "everything", "nothing", "nobody",
		"who", "whom", "mine", "yours", "ours", "theirs")
	possessives = set("my", "your", "his", "its", "our", "their", "whose")
	adpositions = set("of", "in", "on", "at", "by", "for", "with", "from", "into", "onto", "about", "above",
		"below", "under", "over", "after", "before", "between", "through", "during", "without", "within",
		"against", "among", "across", "behind", "beyond", "via", "per", "toward", "towards", "upon", "like",
		"except", "inside", "outside", "around", "along", "near", "instead", "off", "out", "up", "down")
	coordinators  = set("and", "or", "but", "nor", "yet", "so", "plus")
	subordinators = set("if", "because", "while", "although", "though", "unless", "since", "whether",
		"until", "than", "once", "whereas", "when", "where")
	particles     = set("not", "to", "n't")
	interjections = set("yes", "oops", "ok", "okay", "hello", "thanks", "please", "wip")
	adverbs       = set("also", "again", "now", "just", "only", "still", "already", "always", "never", "very",
		"too", "back", "here", "there", "then", "now", "soon", "later", "often", "well", "even", "really",
		"finally", "actually", "maybe", "perhaps", "almost", "rather", "quite", "anymore", "away", "together",
		"how", "why", "ever", "yet", "forward", "anyway", "otherwise", "however", "therefore", "instead")
	adjectives = set("new", "old", "unused", "missing", "broken", "wrong", "correct", "small", "large", "big",
		"minor", "major", "better", "best", "worse", "good", "bad", "simple", "initial", "final", "empty",
		"invalid", "valid", "default", "optional", "required", "latest", "first", "last", "next", "previous",
		"same", "different", "other", "more", "most", "less", "many", "much", "few", "several", "own",
		"full", "proper", "extra", "legacy", "stale", "dead", "duplicate", "unnecessary", "redundant",
		"static", "dynamic", "public", "private", "internal", "external", "global", "local", "async",
		"experimental", "stable", "deprecated", "obsolete", "flaky", "slow", "fast", "quick", "clean",
		"consistent", "inconsistent", "main", "various", "unique", "specific", "generic", "nil", "null")
)

// auxTags maps auxiliary and modal forms to their fine tag.
var auxTags = map[string]string{
	"be": "VB", "am": "VBP", "is": "VBZ", "are": "VBP", "was": "VBD", "were": "VBD", "been": "VBN", "being": "VBG",
	"have": "VBP", "has": "VBZ", "had": "VBD", "having": "VBG",
	"do": "VBP", "does": "VBZ", "did": "VBD",
	"can": "MD", "could": "MD", "will": "MD", "would": "MD", "shall": "MD", "should": "MD",
	"may": "MD", "might": "MD", "must": "MD", "ca": "MD", "wo": "MD",
}

// auxLemmas maps auxiliary forms to their lemma.
var auxLemmas = map[string]string{
	"am": "be", "is": "be", "are": "be", "was": "be", "were": "be", "been": "be", "being": "be",
	"has": "have", "had": "have", "having": "have",
	"does": "do", "did": "do",
	"ca": "can", "wo": "will",
	"'s": "be", "'re": "be", "'m": "be", "'ve": "have", "'ll": "will", "'d": "would",
}

// baseVerbs are verbs in base form common in commit messages.
var baseVerbs = set(
	"add", "fix", "update", "remove", "delete", "merge", "refactor", "rename", "move", "bump", "revert",
	"change", "improve", "implement", "create", "use", "make", "allow", "support", "handle", "clean",
	"cleanup", "correct", "replace", "drop", "enable", "disable", "introduce", "avoid", "ensure", "set",
	"get", "check", "test", "document", "release", "prepare", "upgrade", "downgrade", "extract", "simplify",
	"reduce", "increase", "optimize", "format", "lint", "migrate", "initialize", "init", "install",
	"configure", "build", "run", "write", "read", "load", "save", "show", "hide", "display", "render",
	"return", "throw", "catch", "log", "print", "parse", "validate", "convert", "split", "join", "sort",
	"filter", "map", "reuse", "restore", "reset", "apply", "adjust", "tweak", "polish", "tidy", "resolve",
	"address", "prevent", "skip", "ignore", "pass", "fail", "cache", "store", "fetch", "send", "receive",
	"start", "stop", "open", "close", "wrap", "expose", "export", "import", "include", "exclude", "extend",
	"override", "mark", "deprecate", "pin", "unpin", "bind", "call", "define", "declare", "inline", "split",
	"go", "take", "give", "keep", "let", "put", "see", "try", "need", "want", "work", "help", "clarify",
	"fill", "guard", "limit", "publish", "deploy", "ship", "track", "trigger", "tune", "unify", "verify",
	"wire", "generate", "regenerate", "compute", "calculate", "register", "unregister", "retry", "sync",
	"commit", "push", "pull", "rebase", "squash", "tag", "patch", "port", "backport", "bundle", "package",
	"describe", "explain", "mention", "note", "link", "attach", "detach", "connect", "disconnect",
	"reorder", "reorganize", "rework", "rewrite", "redo", "undo", "finish", "complete", "begin", "continue",
	"speed", "silence", "suppress", "catch", "free", "leak", "crash", "break", "become", "seem", "say",
)

// irregularVerbs maps irregular past and participle forms to their lemma.
var irregularVerbs = map[string]string{
	"made": "make", "went": "go", "gone": "go", "took": "take", "taken": "take", "gave": "give",
	"given": "give", "wrote": "write", "written": "write", "ran": "run", "built": "build", "broke": "break",
	"broken": "break", "kept": "keep", "set": "set", "put": "put", "got": "get", "gotten": "get",
	"found": "find", "left": "leave", "brought": "bring", "began": "begin", "begun": "begin",
	"chose": "choose", "chosen": "choose", "did": "do", "done": "do", "saw": "see", "seen": "see",
	"said": "say", "thought": "think", "threw": "throw", "thrown": "throw", "split": "split", "read": "read",
	"let": "let", "shown": "show", "hid": "hide", "hidden": "hide", "sent": "send", "spent": "spend",
	"became": "become", "held": "hold", "led": "lead", "lost": "lose", "meant": "mean", "bound": "bind",
}

// irregularNouns maps irregular plurals to their lemma.
var irregularNouns = map[string]string{
	"children": "child", "men": "man", "women": "woman", "people": "person", "feet": "foot",
	"indices": "index", "matrices": "matrix", "vertices": "vertex", "analyses": "analysis",
	"criteria": "criterion", "mice": "mouse", "leaves": "leaf", "knives": "knife",
}

// orgSuffixes end an organization name.
var orgSuffixes = set("inc", "corp", "corporation", "foundation", "labs", "ltd", "llc", "gmbh", "co",
	"company", "team", "group", "project", "software", "systems", "technologies", "university")

// months holds month names and abbreviations for DATE spans.
var months = set("january", "february", "march", "april", "may", "june", "july", "august", "september",
	"october", "november", "december", "jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept",
	"oct", "nov", "dec")

// nounSuffixes and adjectiveSuffixes drive open-class guessing.
var (
	nounSuffixes      = []string{"tion", "sion", "ment", "ness", "ity", "ance", "ence", "ism", "ship", "age", "ure"}
	adjectiveSuffixes = []string{"ous", "ful", "ive", "able", "ible", "less", "ical", "ic", "ary"}
)

func has(m map[string]struct{}, w string) bool {
	_, ok := m[w]
	return ok
}
