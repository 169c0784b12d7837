package models

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupForm is what the signup page collects. Only Email and Password are
// sent to the backend.
type SignupForm struct {
	Email           string
	Password        string
	PasswordConfirm string
}

func (f SignupForm) Credentials() Credentials {
	return Credentials{Email: f.Email, Password: f.Password}
}

// Upload is a file handed to the session store for upload.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

func (u *Upload) Empty() bool {
	return u == nil || len(u.Data) == 0
}

// UploadResult is the backend reply to a profile image upload.
type UploadResult struct {
	ProfileImageURL    Optional[string]    `json:"profileImageUrl,omitzero"`
	ImageURLExpiration Optional[Timestamp] `json:"imageUrlExpiration,omitzero"`
	Message            string              `json:"message,omitempty"`
}
