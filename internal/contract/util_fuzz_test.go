package contract

import (
	"strings"
	"testing"
)

// FuzzParseCorpusKey checks that any accepted key round-trips through its own string form.
func FuzzParseCorpusKey(f *testing.F) {
	for _, seed := range []string{"octo/repo", "user:octo", "user:", "/", "a/b/c", "", " octo / repo "} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		key, err := ParseCorpusKey(s)
		if err != nil {
			return
		}
		again, err := ParseCorpusKey(key.String())
		if err != nil {
			t.Fatalf("re-parse of %q failed: %v", key, err)
		}
		if again != key {
			t.Fatalf("round trip changed %q to %q", key, again)
		}
	})
}

// FuzzParseIntList fuzzes the comma-separated integer parser.
func FuzzParseIntList(f *testing.F) {
	for _, seed := range []string{"1,2,3", "", ",,", "1,1,2", "x", " 4 , 5 "} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		values, err := ParseIntList(s)
		if err != nil {
			return
		}
		if len(values) == 0 {
			t.Fatalf("no error but empty list for %q", s)
		}
		if len(values) > strings.Count(s, ",")+1 {
			t.Fatalf("more values than fields for %q", s)
		}
	})
}
