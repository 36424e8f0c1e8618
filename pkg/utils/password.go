package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost bcrypt 轮数（≥12，抗暴力破解）
const PasswordCost = 12

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword 密码不匹配返回 (false, nil)；哈希损坏等返回 error
func CheckPassword(pw, hashed string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw))
	switch err {
	case nil:
		return true, nil
	case bcrypt.ErrMismatchedHashAndPassword:
		return false, nil
	default:
		return false, err
	}
}
