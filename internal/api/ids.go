package api

import (
	"strconv"
	"strings"
)

// Display id prefixes the backend puts in front of database ids.
const (
	CasePrefix         = "CASE"
	DocumentPrefix     = "EVD"
	TaskPrefix         = "TASK"
	NotePrefix         = "NOTE"
	NotificationPrefix = "NOT"
)

// ParseID returns the database id behind a display id. It accepts a bare
// number ("7") or prefix followed by dash separated parts whose last part is
// the number ("CASE-2024-007", "TASK-012"). The prefix is case-insensitive.
func ParseID(prefix, s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if head, tail, ok := strings.Cut(s, "-"); ok {
		if !strings.EqualFold(head, prefix) {
			return 0, false
		}
		s = tail[strings.LastIndex(tail, "-")+1:]
	}
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// DatabaseID returns the numeric id GetCase, UpdateCase and DeleteCase take.
func (c Case) DatabaseID() (int64, bool) {
	return ParseID(CasePrefix, c.ID)
}
