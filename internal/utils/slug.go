// internal/utils/slug.go
package utils

import (
	"strings"
	"unicode"
)

var translitTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "j", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch", 'ш': "sh", 'щ': "sch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Slugify transliterates Cyrillic, lowercases, and joins words with hyphens.
// Anything that is not a letter or digit acts as a separator.
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range strings.ToLower(s) {
		var chunk string
		switch {
		case r >= 'a' && r <= 'z' || unicode.IsDigit(r):
			chunk = string(r)
		default:
			if tr, ok := translitTable[r]; ok {
				if tr == "" {
					// Soft and hard signs vanish without splitting the word.
					continue
				}
				chunk = tr
			}
		}

		if chunk == "" {
			if b.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			b.WriteByte('-')
			pendingSep = false
		}
		b.WriteString(chunk)
	}

	slug := b.String()
	if len(slug) > 50 {
		slug = strings.Trim(slug[:50], "-")
	}
	return slug
}
