package vocab

import (
	"strings"
	"unicode"
)

// DefaultTitle is the document title used when none is configured.
const DefaultTitle = "Vocabulary"

// footerNote closes every projected document.
const footerNote = "*This vocabulary is continuously updated as the system evolves. " +
	"For the latest implementation details, refer to the source code and documentation.*"

// Options configures a projection.
type Options struct {
	// Title is the top-level heading text. Empty means DefaultTitle.
	Title string

	// Backlink is the target of an optional back-to-index link under the
	// title. Empty omits the line.
	Backlink string
}

// Project renders the graph as a markdown document. Output is
// deterministic: categories and subcategories appear in declaration
// order, terms in graph order, relationship kinds in document order.
// Categories without terms are omitted.
func Project(g *Graph, opts Options) string {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	lines := []string{"# " + title, ""}
	if opts.Backlink != "" {
		lines = append(lines, "[← Back to Index]("+opts.Backlink+")", "")
	}

	grouped := groupTerms(g.Terms)

	for _, cat := range g.Categories {
		bucket := grouped[cat.ID]
		if bucket == nil {
			continue
		}

		lines = append(lines, "## "+cat.Name, "")
		if cat.Description != "" {
			lines = append(lines, "*"+cat.Description+"*", "")
		}

		for _, subcat := range cat.Subcategories {
			terms := bucket.bySubcategory[subcat.ID]
			if len(terms) == 0 {
				continue
			}

			lines = append(lines, "### "+subcat.Name, "")
			if subcat.Description != "" {
				lines = append(lines, "*"+subcat.Description+"*", "")
			}

			for _, t := range terms {
				lines = append(lines, termSection(t, "####"), "")
			}
		}

		for _, t := range bucket.direct {
			lines = append(lines, termSection(t, "###"), "")
		}
	}

	lines = append(lines, "---", "", footerNote)

	return strings.Join(lines, "\n") + "\n"
}

// categoryTerms buckets one category's terms by subcategory id.
type categoryTerms struct {
	direct        []Term
	bySubcategory map[string][]Term
}

// groupTerms buckets terms by category and subcategory, preserving
// graph order within each bucket. Terms naming an undeclared category
// or subcategory produce no output.
func groupTerms(terms []Term) map[string]*categoryTerms {
	grouped := make(map[string]*categoryTerms)
	for _, t := range terms {
		bucket := grouped[t.Category]
		if bucket == nil {
			bucket = &categoryTerms{bySubcategory: make(map[string][]Term)}
			grouped[t.Category] = bucket
		}
		if t.Subcategory != "" {
			bucket.bySubcategory[t.Subcategory] = append(bucket.bySubcategory[t.Subcategory], t)
		} else {
			bucket.direct = append(bucket.direct, t)
		}
	}
	return grouped
}

// termSection renders one term as a labeled-field block at the given
// heading level.
func termSection(t Term, level string) string {
	lines := []string{
		level + " Term: " + displayName(t),
		// The Category label repeats the term type to stay byte-compatible
		// with the documents this projection regenerates.
		"- **Category**: " + orDefault(t.Type, "Unknown"),
		"- **Type**: " + orDefault(t.Type, "Unknown"),
	}

	if t.Taxonomy != "" {
		lines = append(lines, "- **Taxonomy**: "+t.Taxonomy)
	}

	lines = append(lines,
		"- **Definition**: "+orDefault(t.Definition, "No definition provided"),
		"- **Relationships**:",
		formatRelationships(t.Relationships),
		"- **Usage Context**: "+orDefault(t.UsageContext, "Not specified"),
		codeReferenceLine(t.CodeReference),
	)

	return strings.Join(lines, "\n")
}

// displayName picks the term's name (falling back to its id) and strips
// a trailing parenthetical such as " (Component)".
func displayName(t Term) string {
	name := t.Name
	if name == "" {
		name = t.ID
	}
	if i := strings.LastIndex(name, " ("); i >= 0 && strings.HasSuffix(name, ")") {
		name = name[:i]
	}
	return name
}

// formatRelationships renders relation kinds as indented bullets, one
// per kind, in document order. Empty relationships render as an empty
// line under the label.
func formatRelationships(rels Relationships) string {
	if len(rels) == 0 {
		return ""
	}
	lines := make([]string, 0, len(rels))
	for _, rel := range rels {
		lines = append(lines, "  * "+relationName(rel.Kind)+": "+strings.Join(rel.Targets, ", "))
	}
	return strings.Join(lines, "\n")
}

// relationName turns a relation kind like "depends-on" into "Depends On":
// hyphens become spaces and each letter run is title-cased.
func relationName(kind string) string {
	s := strings.ReplaceAll(kind, "-", " ")
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}

// codeReferenceLine backticks a present code reference and marks a
// missing one TBD.
func codeReferenceLine(ref string) string {
	if ref == "" {
		return "- **Code Reference**: TBD"
	}
	return "- **Code Reference**: `" + ref + "`"
}

// orDefault substitutes a fallback for empty values.
func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
