package contract

type CreateUserRequest struct {
	FirstName string `json:"first_name" validate:"max=150"`
	Username  string `json:"username" validate:"required,min=1,max=150,nospaces"`
	Email     string `json:"email" validate:"required,email"`
	Password1 string `json:"password1" sanitize:"-" validate:"required,min=8,max=64,maxbytes=72,hasspecial,hasdigit,hasupper,haslower"`
	Password2 string `json:"password2" sanitize:"-" validate:"required,eqfield=Password1"`
}

type UserLoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" sanitize:"-" validate:"required,max=64"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=150"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    string  `json:"password" sanitize:"-" validate:"required"`
	NewPassword *string `json:"new_password" sanitize:"-" validate:"omitempty,min=8,max=64,maxbytes=72,hasspecial,hasdigit,hasupper,haslower"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	CreatedAt string `json:"date_joined"`
}

type TokenResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user,omitempty"`
}

type MonthActivity struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type ProfileResponse struct {
	User                 *UserResponse    `json:"user"`
	Token                *string          `json:"token"`
	TotalNotes           int64            `json:"total_notes"`
	CompletionPercentage int              `json:"completion_percentage"`
	Activity             []*MonthActivity `json:"activity"`
}

type SiteStatsResponse struct {
	TotalNotes  int64 `json:"total_notes"`
	TotalPublic int64 `json:"total_public"`
	TotalUsers  int64 `json:"total_users"`
}
