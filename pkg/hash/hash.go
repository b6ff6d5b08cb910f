package hash

import "golang.org/x/crypto/bcrypt"

// Bcrypt is the one-way password hasher used for customer accounts.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashbytes), nil
}

func (b Bcrypt) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) {
	return Bcrypt{}.Hash(password)
}

func CheckPassword(hash, password string) bool {
	return Bcrypt{}.Verify(hash, password)
}
