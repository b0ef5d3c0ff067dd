package dto

// Data Transfer Objects for authentication forms and responses

// SignupForm: payload for user registration
type SignupForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=150,username"`
	FirstName string `form:"first_name" json:"first_name" validate:"notblank,max=150"`
	LastName  string `form:"last_name" json:"last_name" validate:"notblank,max=150"`
	Email     string `form:"email" json:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" json:"-" validate:"required,min=8,hasletter,hasdigit,notnumeric"`
	Password2 string `form:"password2" json:"-" validate:"required,eqfield=Password1"`
}

// LoginForm: payload for user login
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required,max=63"`
	Password string `form:"password" json:"-" validate:"required"`
}

// UsernameAvailability: response of the username availability check
type UsernameAvailability struct {
	Available bool   `json:"available"`
	Username  string `json:"username"`
}

// EmailAvailability: response of the email availability check
type EmailAvailability struct {
	Available bool   `json:"available"`
	Email     string `json:"email"`
}
