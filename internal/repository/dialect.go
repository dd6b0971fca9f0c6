package repository

import (
	"strconv"
	"strings"

	"blog/internal/repository/db"
)

// rebind rewrites "?" placeholders into "$n" for postgres. Queries in this
// package never contain a literal question mark.
func rebind(dialect db.Dialect, query string) string {
	if dialect != db.DialectPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
