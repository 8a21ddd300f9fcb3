package model

// TokenManager issues and validates signed, time-limited access tokens.
type TokenManager interface {
	GenerateAccessToken(userID int64) (string, error)
	ParseAccessToken(token string) (int64, error)
}
