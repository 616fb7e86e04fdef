package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/courtdesk/internal/guard"
	"github.com/felixgeelhaar/courtdesk/internal/role"
	"github.com/felixgeelhaar/courtdesk/internal/session"
)

func labels(items []MenuItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestMenuLabels(t *testing.T) {
	assert.Equal(t, []string{"Dashboard", "My Cases", "Search Case", "Notifications"}, labels(Menu(role.Public)))
	assert.Equal(t, []string{"Dashboard", "Case List", "Evidence", "Calendar", "Notes & Tasks"}, labels(Menu(role.Advocate)))
	assert.Equal(t, []string{"Dashboard", "Case Management", "Hearings", "Advocates", "Analytics", "QR Generator"}, labels(Menu(role.Court)))
	assert.Nil(t, Menu(role.Role(0)))
}

// Every sidebar entry must be a page the guard renders for that role.
func TestMenuPathsAreRenderedForTheirRole(t *testing.T) {
	for _, r := range role.All() {
		snap := session.Snapshot{User: &session.User{ID: 1, Role: r}, Token: "tok"}
		for _, item := range Menu(r) {
			d := guard.Decide(snap, item.Path)
			assert.True(t, d.Rendered(), "%s menu entry %s: %s", r, item.Path, d)
			assert.NotEmpty(t, item.Icon)
		}
	}
}

func TestActive(t *testing.T) {
	items := Active(Menu(role.Court), "/court/hearings")

	var active []string
	for _, item := range items {
		if item.Active {
			active = append(active, item.Path)
		}
	}
	assert.Equal(t, []string{"/court/hearings"}, active)
	assert.False(t, Menu(role.Court)[2].Active, "input is not modified")

	for _, item := range Active(Menu(role.Court), "/court/hearings/12") {
		assert.False(t, item.Active, "only exact matches are active")
	}
}

func TestBreadcrumbs(t *testing.T) {
	crumbs := Breadcrumbs("/advocate/cases/123")

	assert.Equal(t, []Crumb{
		{Label: "Advocate", Path: "/advocate", Clickable: true},
		{Label: "Cases", Path: "/advocate/cases", Clickable: true},
		{Label: "123", Path: "/advocate/cases/123", Clickable: false},
	}, crumbs)
}

func TestBreadcrumbsEdgeCases(t *testing.T) {
	assert.Empty(t, Breadcrumbs("/"))
	assert.Empty(t, Breadcrumbs(""))

	crumbs := Breadcrumbs("//court//case-management/")
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Court", crumbs[0].Label)
	assert.Equal(t, "Case management", crumbs[1].Label)
	assert.Equal(t, "/court/case-management", crumbs[1].Path)
	assert.False(t, crumbs[1].Clickable)

	single := Breadcrumbs("/login")
	require.Len(t, single, 1)
	assert.False(t, single[0].Clickable)
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"cases":           "Cases",
		"notes-and-tasks": "Notes and tasks",
		"qr":              "Qr",
		"CASE-2024-001":   "CASE 2024 001",
		"évidence":        "Évidence",
		"":                "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Label(in), in)
	}
}
