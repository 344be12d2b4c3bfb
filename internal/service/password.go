package service

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher 以 bcrypt 雜湊與驗證密碼
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher 建立 hasher；cost 超出 bcrypt 範圍時使用 bcrypt.DefaultCost
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost 回傳實際使用的 cost
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash 接收明文密碼，回傳 bcrypt 哈希字串
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify 比對明文密碼與 bcrypt 哈希。
// 哈希格式錯誤與密碼錯誤一樣回傳 false。
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
