// Package sortname builds sort keys for book titles following library
// filing rules: a leading article is moved to the end.
package sortname

import (
	"strings"
)

// articles lists the leading articles per primary language subtag. Entries
// ending in an apostrophe are elided and attach directly to the next word.
var articles = map[string][]string{
	"en": {"The", "A", "An"},
	"fr": {"Les", "Le", "La", "L'", "Une", "Un"},
	"es": {"Los", "Las", "El", "La", "Una", "Un"},
	"de": {"Der", "Die", "Das", "Eine", "Ein"},
	"it": {"Gli", "Il", "Lo", "La", "Le", "L'", "Una", "Uno", "Un", "I"},
	"pt": {"Os", "As", "O", "A", "Uma", "Um"},
	"nl": {"De", "Het", "Een"},
}

const defaultLanguage = "en"

// ForTitle returns the sort title for title in the given language (a BCP 47
// tag such as "en" or "fr-CA"). Unknown languages use English articles.
// Examples:
//   - "The Hobbit" -> "Hobbit, The"
//   - "L'Étranger" (fr) -> "Étranger, L'"
//   - "Lord of the Rings" -> "Lord of the Rings"
func ForTitle(title, language string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	for _, article := range articlesFor(language) {
		rest, actual, ok := cutArticle(title, article)
		if ok {
			return rest + ", " + actual
		}
	}

	return title
}

func articlesFor(language string) []string {
	primary, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(language)), "-")
	if list, ok := articles[primary]; ok {
		return list
	}
	return articles[defaultLanguage]
}

// cutArticle strips article from the start of title, matching case
// insensitively. It returns the remainder and the article as written.
func cutArticle(title, article string) (string, string, bool) {
	prefix := article
	if !strings.HasSuffix(article, "'") {
		prefix += " "
	}
	if len(title) <= len(prefix) || !strings.EqualFold(title[:len(prefix)], prefix) {
		return "", "", false
	}

	rest := strings.TrimSpace(title[len(prefix):])
	if rest == "" {
		return "", "", false
	}
	return rest, title[:len(article)], true
}
