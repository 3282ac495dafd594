package events

import "time"

const LeaveDecidedTopic = "hr.leave.decision.v1"

const (
	LeaveApprovedEventType = "leave.approved"
	LeaveRejectedEventType = "leave.rejected"
)

type LeaveDecidedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type"`
	TotalDays  int       `json:"total_days"`
	Status     string    `json:"status"`
	DecidedBy  string    `json:"decided_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
