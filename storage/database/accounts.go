package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/user"
)

type accountRow struct {
	Role         string `db:"role"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
}

func (r accountRow) toAccount() user.Account {
	return user.Account{Role: user.Role(r.Role), Username: r.Username, PasswordHash: []byte(r.PasswordHash)}
}

type accountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) user.Repository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) GetAccount(role user.Role, username string) (user.Account, error) {
	var row accountRow
	q := repo.db.Rebind(`SELECT role, username, password_hash FROM accounts WHERE role = ? AND username = ?`)
	if err := repo.db.Get(&row, q, string(role), username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.Account{}, user.ErrNotFound
		}
		return user.Account{}, errors.Wrap(err, "getting account")
	}
	return row.toAccount(), nil
}

func (repo *accountRepository) SaveAccount(acc user.Account) error {
	q := `INSERT INTO accounts (role, username, password_hash) VALUES (:role, :username, :password_hash)
		ON CONFLICT (role, username) DO UPDATE SET password_hash = excluded.password_hash`
	row := accountRow{Role: string(acc.Role), Username: acc.Username, PasswordHash: string(acc.PasswordHash)}
	if _, err := repo.db.NamedExec(q, row); err != nil {
		return errors.Wrap(err, "saving account")
	}
	return nil
}

func (repo *accountRepository) ListAccounts() ([]user.Account, error) {
	var rows []accountRow
	q := `SELECT role, username, password_hash FROM accounts ORDER BY role DESC, username`
	if err := repo.db.Select(&rows, q); err != nil {
		return nil, errors.Wrap(err, "listing accounts")
	}
	accs := make([]user.Account, 0, len(rows))
	for _, r := range rows {
		accs = append(accs, r.toAccount())
	}
	return accs, nil
}
