package auth

import (
	"context"
	"regexp"
	"unicode/utf8"
)

const maxPasswordRunes = 128

var usernameFormat = regexp.MustCompile("^[a-z0-9_]{3,20}$")

type service struct {
	userRepo       UserRepo
	passwordHasher PasswordHasher
	tokenManager   TokenManager
}

func NewService(userRepo UserRepo, passwordHasher PasswordHasher, tokenManager TokenManager) *service {
	return &service{userRepo, passwordHasher, tokenManager}
}

func (as *service) Signup(ctx context.Context, username, password string) (string, error) {
	if !usernameFormat.MatchString(username) {
		return "", ErrInvalidUsernameFormat
	}

	if utf8.RuneCountInString(password) < 8 {
		return "", ErrWeakPassword
	}
	if utf8.RuneCountInString(password) > maxPasswordRunes {
		return "", ErrPasswordTooLong
	}

	passwordHash, err := as.passwordHasher.Hash(password)
	if err != nil {
		return "", err
	}

	if _, err := as.userRepo.CreateUser(ctx, username, passwordHash); err != nil {
		return "", err
	}

	return as.tokenManager.Generate(username)
}

func (as *service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	match, err := as.passwordHasher.Compare(user.PasswordHash, password)
	if err != nil {
		return "", err
	}
	if !match {
		return "", ErrIncorrectPassword
	}

	return as.tokenManager.Generate(user.Username)
}

// VerifyToken returns the username if the token is valid, else, it returns an error
func (as *service) VerifyToken(token string) (string, error) {
	return as.tokenManager.Verify(token)
}

func (as *service) GenerateToken(id string) (string, error) {
	return as.tokenManager.Generate(id)
}
