package repo

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Tokens splits a search phrase on whitespace, dropping blanks.
func Tokens(phrase string) []string {
	return strings.Fields(phrase)
}

// ContainsPattern returns a lower-cased LIKE pattern matching token anywhere.
func ContainsPattern(token string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(token)) + "%"
}

// AnyTokenLike ORs a case-insensitive "column contains token" condition for
// every token across every column. It returns nil when there is nothing to match.
func AnyTokenLike(db *gorm.DB, columns []string, tokens []string) *gorm.DB {
	var cond *gorm.DB
	for _, tok := range tokens {
		pattern := ContainsPattern(tok)
		for _, col := range columns {
			expr := "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			if cond == nil {
				cond = db.Where(expr, pattern)
				continue
			}
			cond = cond.Or(expr, pattern)
		}
	}
	return cond
}
