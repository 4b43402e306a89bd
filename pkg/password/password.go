package password

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sistema-escolar/pkg/config"
)

// Hasher turns plaintext passwords into their stored form and checks candidates against it.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(stored, plain string) bool
}

// New returns the hasher selected by configuration. Plaintext storage stays the
// default so the documented seed credentials keep working against existing databases.
func New(cfg config.SecurityConfig) Hasher {
	if cfg.PasswordHashing {
		return NewBcrypt(cfg.BcryptCost)
	}
	return Plain{}
}

// Plain stores passwords verbatim.
type Plain struct{}

// Hash returns plain unchanged.
func (Plain) Hash(plain string) (string, error) {
	return plain, nil
}

// Compare runs in constant time with respect to the password contents.
func (Plain) Compare(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// Bcrypt stores salted bcrypt hashes.
type Bcrypt struct {
	cost int
}

// NewBcrypt builds a Bcrypt hasher; out-of-range costs fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b *Bcrypt) Compare(stored, plain string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// Rows written before hashing was enabled still hold plaintext.
		return Plain{}.Compare(stored, plain)
	}
	return false
}
