package sqlstore

import (
	"strconv"
	"strings"
)

// Dialect carries the per-engine SQL differences. Queries are written with
// ? placeholders and rebound when the engine wants numbered ones.
type Dialect struct {
	Name string
	// Numbered switches ? to $1, $2, ...
	Numbered bool
	// Upsert is appended to the INSERT in Save.
	Upsert string
	// Schema creates the screenings table when missing.
	Schema []string
}

func (d Dialect) rebind(q string) string {
	if !d.Numbered {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ConflictUpsert is the ON CONFLICT form shared by PostgreSQL and SQLite.
// Only mutable review state is overwritten; the assessment is write-once.
const ConflictUpsert = `
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 review = EXCLUDED.review,
 updated_at = EXCLUDED.updated_at`
