package user

type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

type PasswordLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	User    *User  `json:"user"`
	Message string `json:"message"`
}

type CreateUserRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"required"`
	Role          Role   `json:"role"`
	Password      string `json:"password" binding:"required"`
	Description   string `json:"description"`
	HandlesLunch  bool   `json:"handles_lunch"`
	HandlesDinner bool   `json:"handles_dinner"`
}

type UpdateUserRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Role          *Role   `json:"role"`
	Password      *string `json:"password"`
	Description   *string `json:"description"`
	HandlesLunch  *bool   `json:"handles_lunch"`
	HandlesDinner *bool   `json:"handles_dinner"`
}
