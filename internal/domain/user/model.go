package user

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID  string
	Email   string
	IsStaff bool
}
