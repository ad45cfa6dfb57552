// Package category maps merchant names to spending categories via ordered
// keyword rules. Rule order matters: keyword sets overlap, and the first
// matching rule wins.
package category

import (
	"strings"

	"kharcha/internal/core"
)

type rule struct {
	keywords []string
	label    core.Category
}

// rules are evaluated top to bottom; do not reorder.
var rules = []rule{
	{[]string{"uber", "ola", "fuel", "petrol"}, core.CategoryTransport},
	{[]string{"swiggy", "zomato", "burger", "pizza", "cafe"}, core.CategoryFood},
	{[]string{"grocery", "mart", "basket", "super"}, core.CategoryGroceries},
	{[]string{"netflix", "spotify", "movie", "cinema"}, core.CategoryEntertainment},
	{[]string{"pharmacy", "med", "hospital", "clinic"}, core.CategoryHealth},
	{[]string{"salary", "interest", "refund"}, core.CategoryIncome},
}

// Categorize returns the category for a merchant name. Matching is
// case-insensitive substring containment; unmatched input falls back to
// General. Total and deterministic: every input maps to exactly one label.
func Categorize(merchant string) core.Category {
	m := strings.ToLower(merchant)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(m, kw) {
				return r.label
			}
		}
	}
	return core.CategoryGeneral
}
