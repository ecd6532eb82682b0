package hash

import (
	customErrors "github.com/dhillon/auth-api/internal/domain/auth/errors"

	"github.com/alexedwards/argon2id"
)

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher turns plaintext passwords into salted argon2id hashes. A fresh
// salt is generated per call, so the same plaintext never hashes to the
// same output twice. The optional pepper is appended before hashing.
type Hasher struct {
	pepper string
}

func New(pepper string) *Hasher {
	return &Hasher{pepper: pepper}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	hashed, err := argon2id.CreateHash(plaintext+h.pepper, argonParams)
	if err != nil {
		return "", customErrors.WrapInternal(err, "Hash")
	}
	return hashed, nil
}

// Verify recomputes the hash using the salt embedded in the stored value
// and compares in constant time. A malformed stored hash is a
// configuration error, not a credential rejection.
func (h *Hasher) Verify(plaintext, hashed string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(plaintext+h.pepper, hashed)
	if err != nil {
		return false, customErrors.WrapInternal(err, "Verify")
	}
	return ok, nil
}
