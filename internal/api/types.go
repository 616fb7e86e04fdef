package api

import (
	"net/url"
	"strconv"
)

// Party is the advocate summary embedded in a case.
type Party struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Case is a court case. Hearings and Timeline are only populated by Case and
// QRLookup.
type Case struct {
	ID          string          `json:"id"`
	CaseNumber  string          `json:"caseNumber"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	CaseType    string          `json:"caseType"`
	Status      string          `json:"status"`
	Priority    string          `json:"priority"`
	Petitioner  string          `json:"petitioner"`
	Respondent  string          `json:"respondent"`
	Judge       string          `json:"judge,omitempty"`
	CourtRoom   string          `json:"courtRoom,omitempty"`
	NextHearing string          `json:"nextHearing,omitempty"`
	FilingDate  string          `json:"filingDate,omitempty"`
	Advocate    *Party          `json:"advocate,omitempty"`
	Hearings    []Hearing       `json:"hearings,omitempty"`
	Timeline    []TimelineEntry `json:"timeline,omitempty"`
}

// TimelineEntry is one event in a case's history.
type TimelineEntry struct {
	Date        string `json:"date"`
	Event       string `json:"event"`
	Description string `json:"description"`
}

// CaseFilter narrows ListCases. Empty fields are not sent.
type CaseFilter struct {
	Status   string
	Type     string
	Priority string
}

func (f CaseFilter) values() url.Values {
	v := url.Values{}
	setIf(v, "status", f.Status)
	setIf(v, "type", f.Type)
	setIf(v, "priority", f.Priority)
	return v
}

// CaseInput creates or updates a case. Zero fields are left unchanged on
// update.
type CaseInput struct {
	CaseNumber  string `json:"caseNumber,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	CaseType    string `json:"caseType,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Petitioner  string `json:"petitioner,omitempty"`
	Respondent  string `json:"respondent,omitempty"`
	AdvocateID  int64  `json:"advocateId,omitempty"`
	Judge       string `json:"judge,omitempty"`
	CourtRoom   string `json:"courtRoom,omitempty"`
}

// Hearing is a scheduled sitting for a case.
type Hearing struct {
	ID        int64  `json:"id"`
	CaseID    int64  `json:"caseId"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	Location  string `json:"location,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// HearingInput creates or updates a hearing. Dates are YYYY-MM-DD, times
// ISO 8601.
type HearingInput struct {
	CaseID    int64  `json:"caseId,omitempty"`
	Date      string `json:"date,omitempty"`
	Type      string `json:"type,omitempty"`
	Status    string `json:"status,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Location  string `json:"location,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// CalendarEvent is a hearing shaped for a calendar view.
type CalendarEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Type     string `json:"type"`
	CaseID   int64  `json:"caseId"`
	Location string `json:"location,omitempty"`
}

// Document is an uploaded piece of evidence.
type Document struct {
	ID         string `json:"id"`
	CaseID     int64  `json:"caseId"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	FileType   string `json:"fileType"`
	FilePath   string `json:"filePath,omitempty"`
	Size       string `json:"size,omitempty"`
	Verified   bool   `json:"verified"`
	Status     string `json:"status"`
	UploadedBy string `json:"uploadedBy,omitempty"`
	UploadedAt string `json:"uploadedAt,omitempty"`
}

// DocumentFilter narrows ListDocuments. Status is "verified" or "pending".
type DocumentFilter struct {
	CaseID int64
	Status string
}

func (f DocumentFilter) values() url.Values {
	v := url.Values{}
	setIfID(v, "case_id", f.CaseID)
	setIf(v, "status", f.Status)
	return v
}

// Task is an advocate's to-do item.
type Task struct {
	ID        string `json:"id"`
	CaseID    int64  `json:"caseId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Priority  string `json:"priority"`
	DueDate   string `json:"dueDate,omitempty"`
}

// TaskInput creates or updates a task. Completed is a pointer so that
// "false" can be sent explicitly.
type TaskInput struct {
	CaseID    int64  `json:"caseId,omitempty"`
	Title     string `json:"title,omitempty"`
	Priority  string `json:"priority,omitempty"`
	DueDate   string `json:"dueDate,omitempty"`
	Completed *bool  `json:"completed,omitempty"`
}

// Note is a free-text case note.
type Note struct {
	ID        string `json:"id"`
	CaseID    int64  `json:"caseId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// NoteInput creates or updates a note.
type NoteInput struct {
	CaseID  int64  `json:"caseId,omitempty"`
	Content string `json:"content"`
}

// Notification is an item in the user's notification feed.
type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message,omitempty"`
	Priority  string `json:"priority"`
	Read      bool   `json:"read"`
	Time      string `json:"time,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Email is an outgoing notification email.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Contact is a conversation partner.
type Contact struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Email   string `json:"email"`
	Online  bool   `json:"online"`
	LastMsg string `json:"lastMsg"`
	Time    string `json:"time"`
	Unread  int    `json:"unread"`
}

// Message is one chat message. From is "me" or "them".
type Message struct {
	ID         int64  `json:"id"`
	SenderID   int64  `json:"senderId"`
	ReceiverID int64  `json:"receiverId"`
	Text       string `json:"text"`
	From       string `json:"from"`
	Time       string `json:"time,omitempty"`
	IsRead     bool   `json:"isRead"`
}

// Courtroom is a room on the live court board.
type Courtroom struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Judge       string `json:"judge,omitempty"`
	Status      string `json:"status"`
	CurrentCase string `json:"currentCase,omitempty"`
	CaseTitle   string `json:"caseTitle,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	Type        string `json:"type,omitempty"`
}

// CourtroomUpdate changes a courtroom's board entry.
type CourtroomUpdate struct {
	Status      string `json:"status,omitempty"`
	Judge       string `json:"judge,omitempty"`
	CurrentCase string `json:"currentCase,omitempty"`
	CaseTitle   string `json:"caseTitle,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	Type        string `json:"type,omitempty"`
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setIfID(v url.Values, key string, id int64) {
	if id != 0 {
		v.Set(key, strconv.FormatInt(id, 10))
	}
}

func byCase(caseID int64) url.Values {
	v := url.Values{}
	setIfID(v, "case_id", caseID)
	return v
}
