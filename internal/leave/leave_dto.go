package leave

import "time"

type SubmitLeaveRequest struct {
	LeaveType string `json:"leaveType" binding:"required,oneof=annual sick personal bereavement unpaid"`
	Reason    string `json:"reason" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

type DecideLeaveRequest struct {
	Status         string `json:"status" binding:"required"`
	ManagerComment string `json:"managerComment"`
}

// EmployeeSummary is the display-only projection attached to pending
// requests for the approver's queue.
type EmployeeSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Position  string `json:"position,omitempty"`
}

type LeaveResponse struct {
	ID             string           `json:"id"`
	EmployeeID     string           `json:"employeeId"`
	LeaveType      string           `json:"leaveType"`
	Reason         string           `json:"reason"`
	StartDate      string           `json:"startDate"`
	EndDate        string           `json:"endDate"`
	TotalDays      int              `json:"totalDays"`
	Status         string           `json:"status"`
	ManagerComment *string          `json:"managerComment,omitempty"`
	ApprovedBy     *string          `json:"approvedBy,omitempty"`
	ApprovedAt     *string          `json:"approvedAt,omitempty"`
	CreatedAt      string           `json:"createdAt"`
	Employee       *EmployeeSummary `json:"employee,omitempty"`
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		LeaveType:  l.LeaveType,
		Reason:     l.Reason,
		StartDate:  l.StartDate.Format("2006-01-02"),
		EndDate:    l.EndDate.Format("2006-01-02"),
		TotalDays:  l.TotalDays,
		Status:     l.Status,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	resp.ManagerComment = l.ManagerComment
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
