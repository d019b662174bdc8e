// Package credentials abstracts how stored credentials are produced and
// checked, so the storage contract stays the same whether passwords are kept
// verbatim or as salted hashes.
package credentials

import "golang.org/x/crypto/bcrypt"

type Verifier interface {
	// Hash turns a password into its stored representation.
	Hash(password string) (string, error)
	// Verify reports whether supplied matches the stored representation.
	Verify(stored, supplied string) bool
}

// Plain stores passwords verbatim and compares by equality.
type Plain struct{}

func (Plain) Hash(password string) (string, error) {
	return password, nil
}

func (Plain) Verify(stored, supplied string) bool {
	return stored == supplied
}

// Bcrypt stores salted bcrypt hashes. A zero Cost uses bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (b Bcrypt) Verify(stored, supplied string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
}
