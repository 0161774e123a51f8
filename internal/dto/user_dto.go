package dto

type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type UpdateProfileRequest struct {
	FirstName string `form:"firstName" json:"first_name" validate:"max=100"`
	LastName  string `form:"lastName" json:"last_name" validate:"max=100"`
	Age       *int   `form:"age" json:"age" validate:"omitempty,gte=0,lte=150"`
	Phone     string `form:"phone" json:"phone" validate:"max=30"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=USER ADMIN"`
}

type UserListQuery struct {
	Page  int    `query:"page"`
	Limit int    `query:"limit"`
	Order string `query:"order"`
	Role  string `query:"role"`
	Auth  string `query:"auth"`
}
