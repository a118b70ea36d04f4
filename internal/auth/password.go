package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength - минимальная длина нового пароля
const MinPasswordLength = 6

// MaxPasswordBytes - предел bcrypt, длиннее GenerateFromPassword вернет ошибку
const MaxPasswordBytes = 72

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// IsStrongEnough проверяет длину пароля: минимум в символах, максимум в байтах
func IsStrongEnough(password string) bool {
	return len([]rune(password)) >= MinPasswordLength && len(password) <= MaxPasswordBytes
}
