package csvstore

import (
	"encoding/csv"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/user"
)

var passwordsHeader = []string{"role", "username", "password_hash"}

// AccountRepository keeps accounts in passwords.csv. Files written by older versions carry a
// plaintext `password` column; those passwords are hashed in memory when read, and written back
// hashed by HashLegacyPasswords or the next SaveAccount. Reads never write.
type AccountRepository struct {
	store *Store
	mu    sync.Mutex
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// HashLegacyPasswords rewrites passwords.csv with hashes when it still holds plaintext passwords.
// It returns the number of passwords hashed.
func (repo *AccountRepository) HashLegacyPasswords() (int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	accs, legacy, err := repo.load()
	if err != nil || legacy == 0 {
		return 0, err
	}
	if err := repo.save(accs); err != nil {
		return 0, err
	}
	repo.store.log.Info("plaintext passwords hashed", "file", PasswordsFile, "count", legacy)
	return legacy, nil
}

func (repo *AccountRepository) GetAccount(role user.Role, username string) (user.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	accs, _, err := repo.load()
	if err != nil {
		return user.Account{}, err
	}
	for _, acc := range accs {
		if acc.Role == role && acc.Username == username {
			return acc, nil
		}
	}
	return user.Account{}, user.ErrNotFound
}

func (repo *AccountRepository) SaveAccount(acc user.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	accs, _, err := repo.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range accs {
		if accs[i].Role == acc.Role && accs[i].Username == acc.Username {
			accs[i] = acc
			replaced = true
			break
		}
	}
	if !replaced {
		accs = append(accs, acc)
	}

	return repo.save(accs)
}

func (repo *AccountRepository) ListAccounts() ([]user.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	accs, _, err := repo.load()
	return accs, err
}

// load returns the accounts and how many of them had a plaintext password.
func (repo *AccountRepository) load() ([]user.Account, int, error) {
	f, err := os.Open(repo.store.path(PasswordsFile))
	if os.IsNotExist(err) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "reading passwords")
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "reading passwords")
	}
	cols := make(map[string]int, len(header))
	for i, col := range header {
		cols[strings.ToLower(strings.TrimSpace(col))] = i
	}

	accs := make([]user.Account, 0)
	legacy := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, errors.Wrap(err, "reading passwords")
		}
		rw := row{cols: cols, rec: rec}
		role, err := user.ParseRole(rw.get("role"))
		username := rw.get("username")
		if err != nil || username == "" {
			repo.store.log.Warn("skipping account", "role", rw.get("role"), "username", username)
			continue
		}

		acc := user.Account{Role: role, Username: username}
		if hash := rw.get("password_hash"); hash != "" {
			acc.PasswordHash = []byte(hash)
		} else if rw.has("password") {
			// no trimming: spaces are part of the password
			var plain string
			if i := cols["password"]; i < len(rec) {
				plain = rec[i]
			}
			if err := acc.SetPassword(plain); err != nil {
				return nil, 0, err
			}
			legacy++
		} else {
			repo.store.log.Warn("skipping account without password", "role", role, "username", username)
			continue
		}
		accs = append(accs, acc)
	}
	return accs, legacy, nil
}

func (repo *AccountRepository) save(accs []user.Account) error {
	rows := make([][]string, 0, len(accs))
	for _, a := range accs {
		rows = append(rows, []string{string(a.Role), a.Username, string(a.PasswordHash)})
	}
	return repo.store.writeFile(PasswordsFile, passwordsHeader, rows)
}
