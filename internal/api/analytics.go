package api

import (
	"context"
	"net/http"
)

// DashboardStats holds the per-role dashboard counters. Only the fields for
// the caller's role are populated.
type DashboardStats struct {
	// Court
	TotalCases     int `json:"totalCases,omitempty"`
	PendingCases   int `json:"pendingCases,omitempty"`
	ClosedCases    int `json:"closedCases,omitempty"`
	DismissedCases int `json:"dismissedCases,omitempty"`
	AdvocatesCount int `json:"advocatesCount,omitempty"`

	// Court and advocate
	TodayHearings int `json:"todayHearings,omitempty"`

	// Advocate and public
	ActiveCases int `json:"activeCases,omitempty"`

	// Advocate
	PendingTasks  int `json:"pendingTasks,omitempty"`
	EvidenceCount int `json:"evidenceCount,omitempty"`

	// Public
	NextHearing *Hearing `json:"nextHearing,omitempty"`
	Documents   int      `json:"documents,omitempty"`
}

// TrendPoint is filings and closures for one month.
type TrendPoint struct {
	Month  string `json:"month"`
	Filed  int    `json:"filed"`
	Closed int    `json:"closed"`
}

// TypeShare is the number of cases of one type.
type TypeShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// DayCount is the number of hearings on one weekday.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Performance summarises an advocate's record.
type Performance struct {
	TotalCases      int                  `json:"totalCases"`
	WinRate         string               `json:"winRate"`
	ActiveCases     int                  `json:"activeCases"`
	Specializations []SpecializationRate `json:"specializations"`
}

// SpecializationRate is an advocate's record for one case type.
type SpecializationRate struct {
	Type  string `json:"type"`
	Cases int    `json:"cases"`
	Wins  int    `json:"wins"`
	Rate  string `json:"rate"`
}

// PendencyPoint is the number of pending cases at one month.
type PendencyPoint struct {
	Month   string `json:"month"`
	Pending int    `json:"pending"`
}

// Dashboard returns the caller's dashboard counters.
func (c *Client) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/analytics/dashboard", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CasesTrend returns monthly filings and closures.
func (c *Client) CasesTrend(ctx context.Context) ([]TrendPoint, error) {
	var points []TrendPoint
	if err := c.do(ctx, http.MethodGet, "/analytics/cases-trend", nil, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// CasesByType returns the case count per type.
func (c *Client) CasesByType(ctx context.Context) ([]TypeShare, error) {
	var shares []TypeShare
	if err := c.do(ctx, http.MethodGet, "/analytics/cases-by-type", nil, nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// DailyHearings returns this week's hearing count per weekday.
func (c *Client) DailyHearings(ctx context.Context) ([]DayCount, error) {
	var days []DayCount
	if err := c.do(ctx, http.MethodGet, "/analytics/daily-hearings", nil, nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// AdvocatePerformance returns the signed-in advocate's record.
func (c *Client) AdvocatePerformance(ctx context.Context) (*Performance, error) {
	var perf Performance
	if err := c.do(ctx, http.MethodGet, "/analytics/advocate-performance", nil, nil, &perf); err != nil {
		return nil, err
	}
	return &perf, nil
}

// Pendency returns monthly pending case counts.
func (c *Client) Pendency(ctx context.Context) ([]PendencyPoint, error) {
	var points []PendencyPoint
	if err := c.do(ctx, http.MethodGet, "/analytics/pendency", nil, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}
