package domain

// UnassignedID is the reserved assignee value meaning "no assignee" in
// assignment calls. The remote API has no assign-to-nobody operation, so
// passing this sentinel selects the unassign call instead.
const UnassignedID = -1

// Ticket mirrors the remote store's wire shape. The field names are the
// JSON contract of the remote API and of the local facade alike.
type Ticket struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	AssigneeID  *int   `json:"assigneeId"`
}

// Assigned reports whether the ticket has an assignee.
func (t Ticket) Assigned() bool {
	return t.AssigneeID != nil
}

// ActionKind identifies the kind of mutation in flight for a ticket.
type ActionKind string

const (
	ActionAssign   ActionKind = "assign"
	ActionComplete ActionKind = "complete"
)
