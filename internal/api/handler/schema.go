package handler

import "github.com/chirpnet/social-api/internal/core/domain"

type signupRequest struct {
	Username        string `json:"username"        validate:"required,max=30,username"`
	FullName        string `json:"fullName"        validate:"required,max=100"`
	Email           string `json:"email"           validate:"required,email"`
	Password        string `json:"password"        validate:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type followRequest struct {
	ID string `param:"id" validate:"required,mongodb"`
}

// updateProfileRequest only touches the fields present in the body.
type updateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1,max=100"`
	Username *string `json:"username" validate:"omitempty,min=1,max=30,username"`
	Bio      *string `json:"bio"      validate:"omitempty,max=500"`
	Link     *string `json:"link"     validate:"omitempty,url|len=0"`
}

func (r updateProfileRequest) toDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FullName: r.FullName,
		Username: r.Username,
		Bio:      r.Bio,
		Link:     r.Link,
	}
}

type updateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type updatePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"    validate:"required"`
	NewPassword        string `json:"newPassword"        validate:"required,strongpassword"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type followResponse struct {
	Message        string `json:"message"`
	IsFollowing    bool   `json:"isFollowing"`
	FollowersCount int64  `json:"followersCount"`
	FollowingCount int64  `json:"followingCount"`
}
