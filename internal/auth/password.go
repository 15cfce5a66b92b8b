package auth

import "golang.org/x/crypto/bcrypt"

// Passwords are stored as salted one-way bcrypt hashes. The original
// system kept a reversible encryption of the plaintext; that contract is
// deliberately not reproduced and no recovery operation exists.

func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

func CheckPassword(hash []byte, plain string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain))
}
