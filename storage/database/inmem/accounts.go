package inmemdb

import (
	"github.com/trezcool/gradebook/core/user"
)

type accountRepository struct {
	db *accountTable
}

func NewAccountRepository(db *DB) user.Repository {
	return &accountRepository{db: db.account}
}

func (repo *accountRepository) GetAccount(role user.Role, username string) (user.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if acc, ok := repo.db.table[accountKey{role, username}]; ok {
		return acc, nil
	}
	return user.Account{}, user.ErrNotFound
}

func (repo *accountRepository) SaveAccount(acc user.Account) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := accountKey{acc.Role, acc.Username}
	if _, ok := repo.db.table[key]; !ok {
		repo.db.order = append(repo.db.order, key)
	}
	acc.PasswordHash = append([]byte(nil), acc.PasswordHash...)
	repo.db.table[key] = acc
	return nil
}

func (repo *accountRepository) ListAccounts() ([]user.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	accs := make([]user.Account, 0, len(repo.db.order))
	for _, key := range repo.db.order {
		accs = append(accs, repo.db.table[key])
	}
	return accs, nil
}
