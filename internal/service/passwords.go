package service

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

const (
	passwordCost     = 10
	maxPasswordBytes = 72
)

// Compared against when the email is unknown, so both login failures cost
// one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), passwordCost)
	return hash
})

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
