package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/courtdesk/internal/role"
	"github.com/felixgeelhaar/courtdesk/internal/session"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func TestServiceRoutes(t *testing.T) {
	ctx := context.Background()
	done := true

	tests := []struct {
		name     string
		call     func(c *Client) (any, error)
		want     recordedRequest
		status   int
		response string
		result   any
	}{
		{
			name: "register",
			call: func(c *Client) (any, error) {
				return c.Register(ctx, RegisterRequest{Name: "Asha", Email: "asha@example.com", Password: "pw", Role: "public"})
			},
			want:     recordedRequest{method: "POST", path: "/api/auth/register", body: map[string]any{"name": "Asha", "email": "asha@example.com", "password": "pw", "role": "public"}},
			status:   http.StatusCreated,
			response: `{"message":"User registered","token":"jwt","user":{"id":3,"name":"Asha","email":"asha@example.com","role":"public"}}`,
			result:   &AuthResponse{Message: "User registered", Token: "jwt", User: session.User{ID: 3, Name: "Asha", Email: "asha@example.com", Role: role.Public}},
		},
		{
			name:     "profile",
			call:     func(c *Client) (any, error) { return c.Profile(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/auth/profile"},
			response: `{"id":4,"name":"Meera","email":"m@example.com","role":"advocate"}`,
			result:   &session.User{ID: 4, Name: "Meera", Email: "m@example.com", Role: role.Advocate},
		},
		{
			name:     "update profile",
			call:     func(c *Client) (any, error) { return c.UpdateProfile(ctx, ProfileUpdate{Phone: "98"}) },
			want:     recordedRequest{method: "PUT", path: "/api/auth/profile", body: map[string]any{"phone": "98"}},
			response: `{"message":"Profile updated","user":{"id":4,"name":"Meera","role":"advocate","phone":"98"}}`,
			result:   &session.User{ID: 4, Name: "Meera", Role: role.Advocate, Phone: "98"},
		},
		{
			name:     "change password",
			call:     func(c *Client) (any, error) { return nil, c.ChangePassword(ctx, "old", "new") },
			want:     recordedRequest{method: "PUT", path: "/api/auth/change-password", body: map[string]any{"currentPassword": "old", "newPassword": "new"}},
			response: `{"message":"Password changed successfully"}`,
		},
		{
			name:     "get case",
			call:     func(c *Client) (any, error) { return c.GetCase(ctx, 3) },
			want:     recordedRequest{method: "GET", path: "/api/cases/3"},
			response: `{"id":"CASE-2024-003","caseNumber":"CIV-2024-1842","hearings":[{"id":1,"caseId":3,"date":"2024-06-01","type":"Hearing","status":"scheduled"}]}`,
			result:   &Case{ID: "CASE-2024-003", CaseNumber: "CIV-2024-1842", Hearings: []Hearing{{ID: 1, CaseID: 3, Date: "2024-06-01", Type: "Hearing", Status: "scheduled"}}},
		},
		{
			name:     "update case",
			call:     func(c *Client) (any, error) { return c.UpdateCase(ctx, 3, CaseInput{Status: "closed"}) },
			want:     recordedRequest{method: "PUT", path: "/api/cases/3", body: map[string]any{"status": "closed"}},
			response: `{"message":"Case updated","case":{"id":"CASE-2024-003","status":"closed"}}`,
			result:   &Case{ID: "CASE-2024-003", Status: "closed"},
		},
		{
			name:     "delete case",
			call:     func(c *Client) (any, error) { return nil, c.DeleteCase(ctx, 3) },
			want:     recordedRequest{method: "DELETE", path: "/api/cases/3"},
			response: `{"message":"Case deleted"}`,
		},
		{
			name:     "search cases",
			call:     func(c *Client) (any, error) { return c.SearchCases(ctx, "sharma patel") },
			want:     recordedRequest{method: "GET", path: "/api/cases/search", query: "q=sharma+patel"},
			response: `[{"id":"CASE-2024-001","title":"Sharma vs Patel"}]`,
			result:   []Case{{ID: "CASE-2024-001", Title: "Sharma vs Patel"}},
		},
		{
			name:     "qr lookup",
			call:     func(c *Client) (any, error) { return c.QRLookup(ctx, "CIV-2024-1842") },
			want:     recordedRequest{method: "GET", path: "/api/cases/qr/CIV-2024-1842"},
			response: `{"id":"CASE-2024-001","caseNumber":"CIV-2024-1842"}`,
			result:   &Case{ID: "CASE-2024-001", CaseNumber: "CIV-2024-1842"},
		},
		{
			name:     "list courtrooms",
			call:     func(c *Client) (any, error) { return c.ListCourtrooms(ctx, "in-session") },
			want:     recordedRequest{method: "GET", path: "/api/courtrooms", query: "status=in-session"},
			response: `[{"id":2,"name":"Court Room 2","status":"in-session"}]`,
			result:   []Courtroom{{ID: 2, Name: "Court Room 2", Status: "in-session"}},
		},
		{
			name:     "update courtroom",
			call:     func(c *Client) (any, error) { return c.UpdateCourtroom(ctx, 2, CourtroomUpdate{Status: "recess"}) },
			want:     recordedRequest{method: "PUT", path: "/api/courtrooms/2", body: map[string]any{"status": "recess"}},
			response: `{"message":"Courtroom updated","courtroom":{"id":2,"name":"Court Room 2","status":"recess"}}`,
			result:   &Courtroom{ID: 2, Name: "Court Room 2", Status: "recess"},
		},
		{
			name:     "verify document",
			call:     func(c *Client) (any, error) { return c.VerifyDocument(ctx, 4) },
			want:     recordedRequest{method: "PUT", path: "/api/documents/4/verify"},
			response: `{"message":"Document verified","document":{"id":"EVD-004","verified":true,"status":"verified"}}`,
			result:   &Document{ID: "EVD-004", Verified: true, Status: "verified"},
		},
		{
			name:     "delete document",
			call:     func(c *Client) (any, error) { return nil, c.DeleteDocument(ctx, 4) },
			want:     recordedRequest{method: "DELETE", path: "/api/documents/4"},
			response: `{"message":"Document deleted"}`,
		},
		{
			name: "create hearing",
			call: func(c *Client) (any, error) {
				return c.CreateHearing(ctx, HearingInput{CaseID: 3, Date: "2024-07-01", Type: "Arguments"})
			},
			want:     recordedRequest{method: "POST", path: "/api/hearings", body: map[string]any{"caseId": float64(3), "date": "2024-07-01", "type": "Arguments"}},
			status:   http.StatusCreated,
			response: `{"message":"Hearing scheduled","hearing":{"id":6,"caseId":3,"date":"2024-07-01","type":"Arguments","status":"scheduled"}}`,
			result:   &Hearing{ID: 6, CaseID: 3, Date: "2024-07-01", Type: "Arguments", Status: "scheduled"},
		},
		{
			name:     "update hearing",
			call:     func(c *Client) (any, error) { return c.UpdateHearing(ctx, 6, HearingInput{Status: "adjourned"}) },
			want:     recordedRequest{method: "PUT", path: "/api/hearings/6", body: map[string]any{"status": "adjourned"}},
			response: `{"message":"Hearing updated","hearing":{"id":6,"status":"adjourned"}}`,
			result:   &Hearing{ID: 6, Status: "adjourned"},
		},
		{
			name:     "delete hearing",
			call:     func(c *Client) (any, error) { return nil, c.DeleteHearing(ctx, 6) },
			want:     recordedRequest{method: "DELETE", path: "/api/hearings/6"},
			response: `{"message":"Hearing deleted"}`,
		},
		{
			name:     "calendar",
			call:     func(c *Client) (any, error) { return c.Calendar(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/hearings/calendar"},
			response: `[{"id":"6","title":"Arguments","start":"2024-07-01T10:00:00","type":"Arguments","caseId":3}]`,
			result:   []CalendarEvent{{ID: "6", Title: "Arguments", Start: "2024-07-01T10:00:00", Type: "Arguments", CaseID: 3}},
		},
		{
			name:     "contacts",
			call:     func(c *Client) (any, error) { return c.Contacts(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/messages/contacts"},
			response: `[{"id":9,"name":"Court Clerk","role":"court","unread":2}]`,
			result:   []Contact{{ID: 9, Name: "Court Clerk", Role: "court", Unread: 2}},
		},
		{
			name:     "conversation",
			call:     func(c *Client) (any, error) { return c.Conversation(ctx, 9) },
			want:     recordedRequest{method: "GET", path: "/api/messages/9"},
			response: `[{"id":1,"senderId":9,"receiverId":4,"text":"hello","from":"them"}]`,
			result:   []Message{{ID: 1, SenderID: 9, ReceiverID: 4, Text: "hello", From: "them"}},
		},
		{
			name:     "list notes",
			call:     func(c *Client) (any, error) { return c.ListNotes(ctx, 3) },
			want:     recordedRequest{method: "GET", path: "/api/notes", query: "case_id=3"},
			response: `[{"id":"NOTE-002","caseId":3,"content":"call witness"}]`,
			result:   []Note{{ID: "NOTE-002", CaseID: 3, Content: "call witness"}},
		},
		{
			name:     "create note",
			call:     func(c *Client) (any, error) { return c.CreateNote(ctx, NoteInput{CaseID: 3, Content: "call witness"}) },
			want:     recordedRequest{method: "POST", path: "/api/notes", body: map[string]any{"caseId": float64(3), "content": "call witness"}},
			status:   http.StatusCreated,
			response: `{"message":"Note created","note":{"id":"NOTE-002","caseId":3,"content":"call witness"}}`,
			result:   &Note{ID: "NOTE-002", CaseID: 3, Content: "call witness"},
		},
		{
			name:     "update note",
			call:     func(c *Client) (any, error) { return c.UpdateNote(ctx, 2, "witness confirmed") },
			want:     recordedRequest{method: "PUT", path: "/api/notes/2", body: map[string]any{"content": "witness confirmed"}},
			response: `{"message":"Note updated","note":{"id":"NOTE-002","content":"witness confirmed"}}`,
			result:   &Note{ID: "NOTE-002", Content: "witness confirmed"},
		},
		{
			name:     "list notifications",
			call:     func(c *Client) (any, error) { return c.ListNotifications(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/notifications"},
			response: `[{"id":"NOT-005","type":"hearing","title":"Hearing tomorrow","priority":"high","read":false}]`,
			result:   []Notification{{ID: "NOT-005", Type: "hearing", Title: "Hearing tomorrow", Priority: "high"}},
		},
		{
			name:     "mark notification read",
			call:     func(c *Client) (any, error) { return nil, c.MarkNotificationRead(ctx, 5) },
			want:     recordedRequest{method: "PUT", path: "/api/notifications/5/read"},
			response: `{"message":"Marked as read"}`,
		},
		{
			name:     "delete notification",
			call:     func(c *Client) (any, error) { return nil, c.DeleteNotification(ctx, 5) },
			want:     recordedRequest{method: "DELETE", path: "/api/notifications/5"},
			response: `{"message":"Notification deleted"}`,
		},
		{
			name: "send email",
			call: func(c *Client) (any, error) {
				return nil, c.SendEmail(ctx, Email{To: "a@example.com", Subject: "Hearing", Body: "Tomorrow"})
			},
			want:     recordedRequest{method: "POST", path: "/api/notifications/send-email", body: map[string]any{"to": "a@example.com", "subject": "Hearing", "body": "Tomorrow"}},
			response: `{"message":"Email sent successfully"}`,
		},
		{
			name:     "list tasks",
			call:     func(c *Client) (any, error) { return c.ListTasks(ctx, 3) },
			want:     recordedRequest{method: "GET", path: "/api/tasks", query: "case_id=3"},
			response: `[{"id":"TASK-005","caseId":3,"title":"File reply","priority":"high"}]`,
			result:   []Task{{ID: "TASK-005", CaseID: 3, Title: "File reply", Priority: "high"}},
		},
		{
			name:     "create task",
			call:     func(c *Client) (any, error) { return c.CreateTask(ctx, TaskInput{Title: "File reply", Priority: "high"}) },
			want:     recordedRequest{method: "POST", path: "/api/tasks", body: map[string]any{"title": "File reply", "priority": "high"}},
			status:   http.StatusCreated,
			response: `{"message":"Task created","task":{"id":"TASK-005","title":"File reply","priority":"high"}}`,
			result:   &Task{ID: "TASK-005", Title: "File reply", Priority: "high"},
		},
		{
			name:     "complete task",
			call:     func(c *Client) (any, error) { return c.UpdateTask(ctx, 5, TaskInput{Completed: &done}) },
			want:     recordedRequest{method: "PUT", path: "/api/tasks/5", body: map[string]any{"completed": true}},
			response: `{"message":"Task updated","task":{"id":"TASK-005","completed":true}}`,
			result:   &Task{ID: "TASK-005", Completed: true},
		},
		{
			name:     "delete task",
			call:     func(c *Client) (any, error) { return nil, c.DeleteTask(ctx, 5) },
			want:     recordedRequest{method: "DELETE", path: "/api/tasks/5"},
			response: `{"message":"Task deleted"}`,
		},
		{
			name:     "dashboard",
			call:     func(c *Client) (any, error) { return c.Dashboard(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/analytics/dashboard"},
			response: `{"activeCases":4,"pendingTasks":2}`,
			result:   &DashboardStats{ActiveCases: 4, PendingTasks: 2},
		},
		{
			name:     "cases trend",
			call:     func(c *Client) (any, error) { return c.CasesTrend(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/analytics/cases-trend"},
			response: `[{"month":"Jan","filed":5,"closed":2}]`,
			result:   []TrendPoint{{Month: "Jan", Filed: 5, Closed: 2}},
		},
		{
			name:     "cases by type",
			call:     func(c *Client) (any, error) { return c.CasesByType(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/analytics/cases-by-type"},
			response: `[{"name":"Civil","value":7,"color":"#3b82f6"}]`,
			result:   []TypeShare{{Name: "Civil", Value: 7, Color: "#3b82f6"}},
		},
		{
			name:     "daily hearings",
			call:     func(c *Client) (any, error) { return c.DailyHearings(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/analytics/daily-hearings"},
			response: `[{"day":"Mon","count":3}]`,
			result:   []DayCount{{Day: "Mon", Count: 3}},
		},
		{
			name:     "advocate performance",
			call:     func(c *Client) (any, error) { return c.AdvocatePerformance(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/analytics/advocate-performance"},
			response: `{"totalCases":10,"winRate":"60%","activeCases":4,"specializations":[{"type":"Civil","cases":6,"wins":4,"rate":"67%"}]}`,
			result:   &Performance{TotalCases: 10, WinRate: "60%", ActiveCases: 4, Specializations: []SpecializationRate{{Type: "Civil", Cases: 6, Wins: 4, Rate: "67%"}}},
		},
		{
			name:     "pendency",
			call:     func(c *Client) (any, error) { return c.Pendency(ctx) },
			want:     recordedRequest{method: "GET", path: "/api/analytics/pendency"},
			response: `[{"month":"Jan","pending":12}]`,
			result:   []PendencyPoint{{Month: "Jan", Pending: 12}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got recordedRequest
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
				data, _ := io.ReadAll(r.Body)
				if len(data) > 0 {
					assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
					assert.NoError(t, json.Unmarshal(data, &got.body))
				}

				status := tt.status
				if status == 0 {
					status = http.StatusOK
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = io.WriteString(w, tt.response)
			}), staticToken("t"))

			result, err := tt.call(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.result != nil {
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		prefix string
		in     string
		want   int64
		ok     bool
	}{
		{CasePrefix, "7", 7, true},
		{CasePrefix, "CASE-2024-007", 7, true},
		{CasePrefix, "case-2023-112", 112, true},
		{TaskPrefix, "TASK-012", 12, true},
		{NotificationPrefix, "NOT-003", 3, true},
		{NotePrefix, " NOTE-001 ", 1, true},
		{DocumentPrefix, "EVD-010", 10, true},
		{CasePrefix, "CIV-2024-1842", 0, false},
		{CasePrefix, "CASE-2024-", 0, false},
		{CasePrefix, "CASE-2024-000", 0, false},
		{TaskPrefix, "NOTE-001", 0, false},
		{CasePrefix, "0", 0, false},
		{CasePrefix, "-3", 0, false},
		{CasePrefix, "abc", 0, false},
		{CasePrefix, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+" "+tt.in, func(t *testing.T) {
			id, ok := ParseID(tt.prefix, tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}

	id, ok := Case{ID: "CASE-2024-004"}.DatabaseID()
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)
}
