package sqlstore

import (
	"testing"
)

func TestDialectRebind(t *testing.T) {
	tests := []struct {
		name     string
		numbered bool
		query    string
		want     string
	}{
		{
			name:     "question marks kept",
			numbered: false,
			query:    "SELECT * FROM habits WHERE id = ? AND user_id = ?",
			want:     "SELECT * FROM habits WHERE id = ? AND user_id = ?",
		},
		{
			name:     "numbered placeholders",
			numbered: true,
			query:    "SELECT * FROM habits WHERE id = ? AND user_id = ?",
			want:     "SELECT * FROM habits WHERE id = $1 AND user_id = $2",
		},
		{
			name:     "no placeholders",
			numbered: true,
			query:    "SELECT 1",
			want:     "SELECT 1",
		},
		{
			name:     "more than nine",
			numbered: true,
			query:    "VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			want:     "VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dialect{Numbered: tt.numbered}
			if got := d.Rebind(tt.query); got != tt.want {
				t.Errorf("Rebind() = %q, want %q", got, tt.want)
			}
		})
	}
}
