package identity

type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	Principal *Principal `json:"principal"`
	Role      Role       `json:"role"`
	HomePath  string     `json:"home_path"`
}
