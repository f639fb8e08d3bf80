package domain

// Credentials are the email/password pair used to log in.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup is the registration form.
type Signup struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is an authenticated login held by the client.
type Session struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// WishlistResult reports the outcome of a bookmark toggle.
type WishlistResult struct {
	Added        bool
	SavedByCount int
}
