package security

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var tempPasswordCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// bcrypt rejects inputs longer than 72 bytes.
const maxPasswordLen = 72

// HashPassword returns a bcrypt hash for the provided password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if len(password) > maxPasswordLen {
		return "", fmt.Errorf("password exceeds %d bytes", maxPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword returns true when the password matches the encoded hash.
func VerifyPassword(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// GenerateTempPassword produces a random string suitable for temporary credentials.
func GenerateTempPassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(tempPasswordCharset))
		if err != nil {
			return "", err
		}
		result[i] = tempPasswordCharset[idx]
	}
	return string(result), nil
}

func randInt(max int) (int, error) {
	if max <= 0 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	var buff = make([]byte, 1)
	if _, err := rand.Read(buff); err != nil {
		return 0, err
	}
	return int(buff[0]) % max, nil
}
