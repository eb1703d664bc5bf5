package main

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/core/user"
)

const demoPassword = "Darasa#2024!"

// seed loads the configured accounts and, in demo mode, the demo roster and accounts.
func seed(conf *core.Config, logger core.Logger, usrSvc *user.Service, rosterSvc *roster.Service) error {
	users := conf.Users
	if conf.SeedDemoData {
		if err := rosterSvc.SeedDemo(); err != nil {
			return errors.Wrap(err, "seeding demo roster")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hashing demo password")
		}
		users = append(users,
			core.SeedUser{Name: "Admin", Username: "admin", PasswordHash: string(hash), Roles: []string{user.RoleAdmin}},
			core.SeedUser{Name: "Teacher 1", Username: "teacher1", PasswordHash: string(hash), Roles: []string{user.RoleTeacher}},
		)
		logger.Info(fmt.Sprintf("demo data enabled: log in as admin or teacher1 with password %q", demoPassword))
	}

	n, err := usrSvc.Seed(users)
	if err != nil {
		return errors.Wrap(err, "seeding users")
	}
	logger.Info(fmt.Sprintf("%d user(s) seeded", n))
	return nil
}
