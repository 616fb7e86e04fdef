// Package nav builds the sidebar menu and breadcrumb trail for a portal.
package nav

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/felixgeelhaar/courtdesk/internal/role"
)

// MenuItem is one sidebar entry. Icon names the glyph the front end draws.
type MenuItem struct {
	Path   string `json:"path"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Active bool   `json:"active,omitempty"`
}

// Menu returns the ordered sidebar entries for r.
func Menu(r role.Role) []MenuItem {
	p := r.Prefix()
	switch r {
	case role.Public:
		return []MenuItem{
			{Path: p, Label: "Dashboard", Icon: "LayoutDashboard"},
			{Path: p + "/cases", Label: "My Cases", Icon: "FileText"},
			{Path: p + "/search", Label: "Search Case", Icon: "Search"},
			{Path: p + "/notifications", Label: "Notifications", Icon: "ClipboardList"},
		}
	case role.Advocate:
		return []MenuItem{
			{Path: p, Label: "Dashboard", Icon: "LayoutDashboard"},
			{Path: p + "/cases", Label: "Case List", Icon: "FileText"},
			{Path: p + "/evidence", Label: "Evidence", Icon: "Upload"},
			{Path: p + "/calendar", Label: "Calendar", Icon: "Calendar"},
			{Path: p + "/notes", Label: "Notes & Tasks", Icon: "ClipboardList"},
		}
	case role.Court:
		return []MenuItem{
			{Path: p, Label: "Dashboard", Icon: "LayoutDashboard"},
			{Path: p + "/cases", Label: "Case Management", Icon: "FileText"},
			{Path: p + "/hearings", Label: "Hearings", Icon: "Gavel"},
			{Path: p + "/advocates", Label: "Advocates", Icon: "Users"},
			{Path: p + "/analytics", Label: "Analytics", Icon: "BarChart3"},
			{Path: p + "/qr", Label: "QR Generator", Icon: "QrCode"},
		}
	default:
		return nil
	}
}

// Active returns a copy of items with the entry whose path equals current
// marked active. At most one entry is marked.
func Active(items []MenuItem, current string) []MenuItem {
	out := make([]MenuItem, len(items))
	marked := false
	for i, item := range items {
		item.Active = !marked && item.Path == current
		marked = marked || item.Active
		out[i] = item
	}
	return out
}

// Crumb is one breadcrumb segment.
type Crumb struct {
	Label     string `json:"label"`
	Path      string `json:"path"`
	Clickable bool   `json:"clickable"`
}

func (c Crumb) String() string {
	return fmt.Sprintf("%s (%s)", c.Label, c.Path)
}

// Breadcrumbs splits path into cumulative crumbs. Empty segments are
// dropped and only the last crumb is not clickable.
func Breadcrumbs(path string) []Crumb {
	var crumbs []Crumb
	prefix := ""
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		prefix += "/" + seg
		crumbs = append(crumbs, Crumb{Label: Label(seg), Path: prefix, Clickable: true})
	}
	if len(crumbs) > 0 {
		crumbs[len(crumbs)-1].Clickable = false
	}
	return crumbs
}

// Label turns a path segment into a crumb label: the first letter is
// upper-cased and hyphens become spaces. The rest is kept as is.
func Label(segment string) string {
	r, size := utf8.DecodeRuneInString(segment)
	if r == utf8.RuneError {
		return strings.ReplaceAll(segment, "-", " ")
	}
	return string(unicode.ToUpper(r)) + strings.ReplaceAll(segment[size:], "-", " ")
}
