package tracker

import (
	"time"
)

// Entity is the compact reference shape the API uses for linked objects:
// users, statuses, queues, priorities, and so on.
type Entity struct {
	Self    string `json:"self,omitempty"    yaml:"self,omitempty"`
	ID      string `json:"id,omitempty"      yaml:"id,omitempty"`
	Key     string `json:"key,omitempty"     yaml:"key,omitempty"`
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// ProjectInfo groups the primary and secondary projects of an issue.
type ProjectInfo struct {
	Primary   *Entity  `json:"primary,omitempty"   yaml:"primary,omitempty"`
	Secondary []Entity `json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

// Issue represents a single tracked issue.
type Issue struct {
	Self                 string       `json:"self,omitempty"                 yaml:"self,omitempty"`
	ID                   string       `json:"id,omitempty"                   yaml:"id,omitempty"`
	Key                  string       `json:"key,omitempty"                  yaml:"key,omitempty"`
	Version              int          `json:"version,omitempty"              yaml:"version,omitempty"`
	Summary              string       `json:"summary,omitempty"              yaml:"summary,omitempty"`
	Description          string       `json:"description,omitempty"          yaml:"description,omitempty"`
	Status               *Entity      `json:"status,omitempty"               yaml:"status,omitempty"`
	PreviousStatus       *Entity      `json:"previousStatus,omitempty"       yaml:"previousStatus,omitempty"`
	Type                 *Entity      `json:"type,omitempty"                 yaml:"type,omitempty"`
	Priority             *Entity      `json:"priority,omitempty"             yaml:"priority,omitempty"`
	Queue                *Entity      `json:"queue,omitempty"                yaml:"queue,omitempty"`
	Parent               *Entity      `json:"parent,omitempty"               yaml:"parent,omitempty"`
	Sprint               []Entity     `json:"sprint,omitempty"               yaml:"sprint,omitempty"`
	Project              *ProjectInfo `json:"project,omitempty"              yaml:"project,omitempty"`
	Assignee             *Entity      `json:"assignee,omitempty"             yaml:"assignee,omitempty"`
	CreatedBy            *Entity      `json:"createdBy,omitempty"            yaml:"createdBy,omitempty"`
	UpdatedBy            *Entity      `json:"updatedBy,omitempty"            yaml:"updatedBy,omitempty"`
	Followers            []Entity     `json:"followers,omitempty"            yaml:"followers,omitempty"`
	Aliases              []string     `json:"aliases,omitempty"              yaml:"aliases,omitempty"`
	Tags                 []string     `json:"tags,omitempty"                 yaml:"tags,omitempty"`
	Votes                int          `json:"votes,omitempty"                yaml:"votes,omitempty"`
	Favorite             bool         `json:"favorite,omitempty"             yaml:"favorite,omitempty"`
	CreatedAt            *time.Time   `json:"createdAt,omitempty"            yaml:"createdAt,omitempty"`
	UpdatedAt            *time.Time   `json:"updatedAt,omitempty"            yaml:"updatedAt,omitempty"`
	LastCommentUpdatedAt *time.Time   `json:"lastCommentUpdatedAt,omitempty" yaml:"lastCommentUpdatedAt,omitempty"`
	Transitions          []Transition `json:"transitions,omitempty"          yaml:"transitions,omitempty"`
	Comments             []Comment    `json:"comments,omitempty"             yaml:"comments,omitempty"`
	Attachments          []Attachment `json:"attachments,omitempty"          yaml:"attachments,omitempty"`
}

// Transition is a workflow step available for an issue.
type Transition struct {
	ID      string  `json:"id,omitempty"      yaml:"id,omitempty"`
	Self    string  `json:"self,omitempty"    yaml:"self,omitempty"`
	Display string  `json:"display,omitempty" yaml:"display,omitempty"`
	To      *Entity `json:"to,omitempty"      yaml:"to,omitempty"`
}

// Comment is a single issue comment.
type Comment struct {
	ID        int64      `json:"id,omitempty"        yaml:"id,omitempty"`
	Self      string     `json:"self,omitempty"      yaml:"self,omitempty"`
	Text      string     `json:"text,omitempty"      yaml:"text,omitempty"`
	CreatedBy *Entity    `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	UpdatedBy *Entity    `json:"updatedBy,omitempty" yaml:"updatedBy,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// Attachment is a file attached to an issue.
type Attachment struct {
	ID        string     `json:"id,omitempty"        yaml:"id,omitempty"`
	Self      string     `json:"self,omitempty"      yaml:"self,omitempty"`
	Name      string     `json:"name,omitempty"      yaml:"name,omitempty"`
	Content   string     `json:"content,omitempty"   yaml:"content,omitempty"`
	Mimetype  string     `json:"mimetype,omitempty"  yaml:"mimetype,omitempty"`
	Size      int64      `json:"size,omitempty"      yaml:"size,omitempty"`
	CreatedBy *Entity    `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// Queue represents an issue queue.
type Queue struct {
	Self            string   `json:"self,omitempty"            yaml:"self,omitempty"`
	ID              int64    `json:"id,omitempty"              yaml:"id,omitempty"`
	Key             string   `json:"key,omitempty"             yaml:"key,omitempty"`
	Version         int      `json:"version,omitempty"         yaml:"version,omitempty"`
	Name            string   `json:"name,omitempty"            yaml:"name,omitempty"`
	Description     string   `json:"description,omitempty"     yaml:"description,omitempty"`
	Lead            *Entity  `json:"lead,omitempty"            yaml:"lead,omitempty"`
	AssignAuto      bool     `json:"assignAuto,omitempty"      yaml:"assignAuto,omitempty"`
	DefaultType     *Entity  `json:"defaultType,omitempty"     yaml:"defaultType,omitempty"`
	DefaultPriority *Entity  `json:"defaultPriority,omitempty" yaml:"defaultPriority,omitempty"`
	TeamUsers       []Entity `json:"teamUsers,omitempty"       yaml:"teamUsers,omitempty"`
}

// User represents a tracker account.
type User struct {
	Self        string `json:"self,omitempty"        yaml:"self,omitempty"`
	UID         int64  `json:"uid,omitempty"         yaml:"uid,omitempty"`
	Login       string `json:"login,omitempty"       yaml:"login,omitempty"`
	TrackerUID  int64  `json:"trackerUid,omitempty"  yaml:"trackerUid,omitempty"`
	PassportUID int64  `json:"passportUid,omitempty" yaml:"passportUid,omitempty"`
	FirstName   string `json:"firstName,omitempty"   yaml:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"    yaml:"lastName,omitempty"`
	Display     string `json:"display,omitempty"     yaml:"display,omitempty"`
	Email       string `json:"email,omitempty"       yaml:"email,omitempty"`
	External    bool   `json:"external,omitempty"    yaml:"external,omitempty"`
	Dismissed   bool   `json:"dismissed,omitempty"   yaml:"dismissed,omitempty"`
}

// CreateIssueRequest is the payload for creating an issue.
type CreateIssueRequest struct {
	Summary     string   `json:"summary"               yaml:"summary"`
	Queue       string   `json:"queue"                 yaml:"queue"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string   `json:"type,omitempty"        yaml:"type,omitempty"`
	Priority    string   `json:"priority,omitempty"    yaml:"priority,omitempty"`
	Assignee    string   `json:"assignee,omitempty"    yaml:"assignee,omitempty"`
	Parent      string   `json:"parent,omitempty"      yaml:"parent,omitempty"`
	Tags        []string `json:"tags,omitempty"        yaml:"tags,omitempty"`
	Followers   []string `json:"followers,omitempty"   yaml:"followers,omitempty"`
}

// ExecuteTransitionRequest moves an issue through a workflow step.
type ExecuteTransitionRequest struct {
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// SearchRequest is the payload for the issue search operation. All
// fields are optional; empty ones are omitted from the request body.
type SearchRequest struct {
	Filter   map[string]interface{} `json:"filter,omitempty"   yaml:"filter,omitempty"`
	Query    string                 `json:"query,omitempty"    yaml:"query,omitempty"`
	Keys     []string               `json:"keys,omitempty"     yaml:"keys,omitempty"`
	Queue    string                 `json:"queue,omitempty"    yaml:"queue,omitempty"`
	FilterID string                 `json:"filterId,omitempty" yaml:"filterId,omitempty"`
	Order    string                 `json:"order,omitempty"    yaml:"order,omitempty"`
}

// ScrollType selects the consistency mode for scrolled searches.
type ScrollType string

// Scroll types supported by the search operation.
const (
	ScrollTypeSorted   ScrollType = "sorted"
	ScrollTypeUnsorted ScrollType = "unsorted"
)

// ScrollOptions requests server-side scrolling for large search results.
type ScrollOptions struct {
	Type      ScrollType
	PerScroll int
	TTLMillis int
	ID        string
}
