package user

import "golang.org/x/crypto/bcrypt"

func init() {
	// keep hashing fast in tests
	passwordCost = bcrypt.MinCost
}
