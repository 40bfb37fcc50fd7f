package tests

import (
	"testing"

	"github.com/andreyvit/diff"
	"github.com/google/go-cmp/cmp"
)

// ExpectMarkdown fails the test if got differs from want, printing a line diff.
func ExpectMarkdown(t *testing.T, want, got string) {
	t.Helper()

	if got != want {
		t.Fatalf("unexpected markdown:\n%s\n\nwant:\n%q\n\ngot:\n%q", diff.LineDiff(want, got), want, got)
	}
}

// ExpectFiles fails the test if the enumerated files differ from want. Order
// matters.
func ExpectFiles(t *testing.T, want, got []string) {
	t.Helper()

	if !cmp.Equal(want, got) {
		t.Fatalf("unexpected files:\n%s", cmp.Diff(want, got))
	}
}
