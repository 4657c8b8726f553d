package dto

// SignupRequest is the JSON body for POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the public view of a user: never carries the password hash.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SignupResponse is returned on successful registration. No token: the
// client logs in separately.
type SignupResponse struct {
	Msg  string       `json:"msg"`
	User UserResponse `json:"user"`
}

// LoginResponse carries the bearer token and the public user fields.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
