package domain

type User struct {
	Id           string
	Username     string
	PasswordHash string
	Currency     int
}
