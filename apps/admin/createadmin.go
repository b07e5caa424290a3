package main

import (
	"github.com/maktabhub/maktab/core"
	"github.com/maktabhub/maktab/core/user"
)

func (cli *commandLine) createAdmin(login, name, pwd string) error {
	_, err := cli.usrSvc.Register(user.NewUser{
		Login:    core.CleanString(login),
		FullName: core.CleanString(name),
		Password: pwd,
		Role:     user.RoleAdmin,
	})
	return err
}
