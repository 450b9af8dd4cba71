// Package inmemdb keeps accounts in memory. It backs tests and throwaway sessions.
package inmemdb

import (
	"sync"

	"github.com/trezcool/gradebook/core/user"
)

type accountKey struct {
	role     user.Role
	username string
}

type (
	DB struct {
		account *accountTable
	}

	accountTable struct {
		table map[accountKey]user.Account
		order []accountKey
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		account: &accountTable{table: make(map[accountKey]user.Account)},
	}
}
