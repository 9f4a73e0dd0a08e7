package algo

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/Andyyyy64/el331-commit-analysis/schema"
)

// CommonWordsLimit caps AuthorProfile.CommonWords.
const CommonWordsLimit = 20

type authorAccumulator struct {
	email      string
	commits    int
	totalChars int
	words      *counter
}

// AggregateAuthors groups commits by exact author string and computes
// per-author message statistics. Authors are ordered by commit count,
// descending; ties keep the order in which authors first appear.
// The email of an author is the first one seen in corpus order.
func AggregateAuthors(commits []schema.AnnotatedCommit) []schema.AuthorProfile {
	byAuthor := make(map[string]*authorAccumulator)
	var order []string

	for _, ac := range commits {
		acc, ok := byAuthor[ac.Author]
		if !ok {
			acc = &authorAccumulator{email: ac.Email, words: newCounter()}
			byAuthor[ac.Author] = acc
			order = append(order, ac.Author)
		}
		acc.commits++
		acc.totalChars += utf8.RuneCountInString(ac.RawMessage)
		for _, w := range contentWords(ac.Tokens) {
			acc.words.add(w)
		}
	}

	profiles := make([]schema.AuthorProfile, 0, len(order))
	for _, author := range order {
		acc := byAuthor[author]
		profiles = append(profiles, schema.AuthorProfile{
			Author:           author,
			Email:            acc.email,
			CommitCount:      acc.commits,
			AvgMessageLength: float64(acc.totalChars) / float64(acc.commits),
			CommonWords:      acc.words.mostCommon(CommonWordsLimit),
			TotalChars:       acc.totalChars,
		})
	}

	slices.SortStableFunc(profiles, func(a, b schema.AuthorProfile) int {
		return cmp.Compare(b.CommitCount, a.CommitCount)
	})
	return profiles
}
