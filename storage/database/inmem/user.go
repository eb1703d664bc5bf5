package inmemdb

import (
	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.rows))
	for _, u := range repo.db.rows {
		users = append(users, copyUser(*u))
	}
	return users
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.rows {
		if isExcluded(*usr, excludedUsers) {
			continue
		}
		if username != "" && usr.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr = copyUser(usr)
	repo.db.rows = append(repo.db.rows, &usr)
	return copyUser(usr), nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(id string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.rows {
		if usr.ID == id {
			return copyUser(*usr), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if username == "" {
		return user.User{}, user.ErrNotFound
	}
	for _, usr := range repo.db.rows {
		if (usr.Username == username) || (usr.Email == username) {
			return copyUser(*usr), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, origUsr := range repo.db.rows {
		if origUsr.ID != usr.ID {
			continue
		}
		// only save set fields
		if usr.Roles != nil {
			origUsr.Roles = copyStrings(usr.Roles)
		}
		if usr.PasswordHash != nil {
			origUsr.PasswordHash = usr.PasswordHash
		}
		if !usr.LastLogin.IsZero() {
			origUsr.LastLogin = usr.LastLogin
		}
		origUsr.Name = usr.Name
		origUsr.Username = usr.Username
		origUsr.Email = usr.Email
		origUsr.IsActive = usr.IsActive
		if !usr.UpdatedAt.IsZero() {
			origUsr.UpdatedAt = usr.UpdatedAt
		}
		return copyUser(*origUsr), nil
	}
	return user.User{}, user.ErrNotFound
}

func isExcluded(usr user.User, excludedUsers []user.User) bool {
	for _, excl := range excludedUsers {
		if excl.ID == usr.ID {
			return true
		}
	}
	return false
}

func copyUser(usr user.User) user.User {
	usr.Roles = copyStrings(usr.Roles)
	return usr
}
