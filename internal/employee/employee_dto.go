package employee

type CreateEmployeeRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Role         string `json:"role" binding:"omitempty,oneof=employee manager admin"`
	Position     string `json:"position"`
	DepartmentID string `json:"departmentId" binding:"omitempty,uuid"`
	HireDate     string `json:"hireDate"`
}

type UpdateEmployeeRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Role         string `json:"role" binding:"required,oneof=employee manager admin"`
	Position     string `json:"position"`
	DepartmentID string `json:"departmentId" binding:"omitempty,uuid"`
	HireDate     string `json:"hireDate"`
	IsActive     *bool  `json:"isActive"`
}

type EmployeeResponse struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone,omitempty"`
	Address      string  `json:"address,omitempty"`
	Role         string  `json:"role"`
	Position     string  `json:"position,omitempty"`
	DepartmentID *string `json:"departmentId,omitempty"`
	HireDate     *string `json:"hireDate,omitempty"`
	IsActive     bool    `json:"isActive"`
	CreatedAt    string  `json:"createdAt"`
}
