package result

import (
	"fmt"
	"io"
)

// PrintLinks writes the internal and external link sets to w.
func PrintLinks(w io.Writer, links ClassifiedLinks) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	writef("Internal Links:\n")
	for _, link := range links.Internal {
		writef("%s\n", link)
	}
	writef("\nExternal Links:\n")
	for _, link := range links.External {
		writef("%s\n", link)
	}
}

// PrintResults writes valid and invalid link details and a summary to w.
func PrintResults(w io.Writer, res *Result) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	writef("\n✅ VALID LINKS (200):\n")
	for _, link := range res.Validation.Valid {
		writef("%s - %s\n", link.Value(), link.URL)
	}

	writef("\n❌ INVALID LINKS:\n")
	for _, link := range res.Validation.Invalid {
		writef("%s - %s\n", link.Value(), link.URL)
	}

	writef("\nChecked %d external links, %d valid, %d invalid\n",
		res.Stats.External, res.Stats.Valid, res.Stats.Invalid)
}
