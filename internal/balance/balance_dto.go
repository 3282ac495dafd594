package balance

type BalanceResponse struct {
	EmployeeID  string `json:"employeeId"`
	Annual      int    `json:"annual"`
	Sick        int    `json:"sick"`
	Personal    int    `json:"personal"`
	Bereavement int    `json:"bereavement"`
	Unpaid      int    `json:"unpaid"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		EmployeeID:  b.EmployeeID.String(),
		Annual:      b.Annual,
		Sick:        b.Sick,
		Personal:    b.Personal,
		Bereavement: b.Bereavement,
		Unpaid:      b.Unpaid,
	}
}
