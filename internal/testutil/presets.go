package testutil

import (
	"fmt"
	"testing"
)

// SectionsDoc is a title followed by n second-level sections, each with a
// one-line body. Long enough to scroll when n is large.
func SectionsDoc(t testing.TB, title string, n int) *DocBuilder {
	t.Helper()
	b := NewDoc(t).Heading(1, title)
	for i := 1; i <= n; i++ {
		b.Heading(2, fmt.Sprintf("Section %d", i)).
			Paragraph(fmt.Sprintf("Body text for section %d.", i))
	}
	return b
}

// MixedDoc uses every block kind once.
func MixedDoc(t testing.TB) *DocBuilder {
	t.Helper()
	return NewDoc(t).
		Heading(1, "Mixed").
		Paragraph("Intro paragraph", "over two lines.").
		List("alpha", "beta").
		OrderedList("first", "second").
		Code("go", "x := 1").
		Quote("quoted", "text").
		Table([]string{"a", "b"}, []string{"1", "2"}).
		Rule().
		Paragraph("Closing words.")
}
