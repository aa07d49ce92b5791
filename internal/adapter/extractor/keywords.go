package extractor

import (
	"sort"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// stopwords — служебные английские слова, не несущие смысла как ключевые.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "again": {}, "all": {}, "also": {},
	"an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"because": {}, "been": {}, "before": {}, "being": {}, "but": {}, "by": {},
	"can": {}, "could": {}, "did": {}, "do": {}, "does": {}, "down": {},
	"during": {}, "each": {}, "few": {}, "for": {}, "from": {}, "further": {},
	"had": {}, "has": {}, "have": {}, "he": {}, "her": {}, "here": {},
	"him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {}, "into": {},
	"is": {}, "it": {}, "its": {}, "just": {}, "more": {}, "most": {},
	"my": {}, "new": {}, "no": {}, "not": {}, "now": {}, "of": {}, "off": {},
	"on": {}, "once": {}, "one": {}, "only": {}, "or": {}, "other": {},
	"our": {}, "out": {}, "over": {}, "own": {}, "said": {}, "same": {},
	"she": {}, "so": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "those": {}, "through": {}, "to": {}, "too": {},
	"under": {}, "up": {}, "very": {}, "was": {}, "we": {}, "were": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "who": {},
	"will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// deriveKeywords выделяет до limit ключевых слов из текста статьи.
// Текст сегментируется на слова по правилам Unicode (UAX #29), служебные
// и короткие слова отбрасываются, остальные ранжируются по частоте.
// При равной частоте побеждает слово, встретившееся раньше.
func deriveKeywords(text string, limit int) []string {
	if text == "" || limit <= 0 {
		return nil
	}
	freq := make(map[string]int)
	firstSeen := make(map[string]int)
	pos := 0
	tokens := words.FromString(text)
	for tokens.Next() {
		w := strings.ToLower(strings.TrimSpace(tokens.Value()))
		if len(w) < 3 || !isAlphabetic(w) {
			continue
		}
		if _, ok := stopwords[w]; ok {
			continue
		}
		if _, seen := firstSeen[w]; !seen {
			firstSeen[w] = pos
		}
		freq[w]++
		pos++
	}
	ranked := make([]string, 0, len(freq))
	for w := range freq {
		ranked = append(ranked, w)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if freq[ranked[i]] != freq[ranked[j]] {
			return freq[ranked[i]] > freq[ranked[j]]
		}
		return firstSeen[ranked[i]] < firstSeen[ranked[j]]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// isAlphabetic сообщает, состоит ли токен только из букв.
// Сегментатор выдает также пробельные и пунктуационные сегменты.
func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
