package main

func (cli *commandLine) resetPassword(login, pwd string) error {
	usr, err := cli.usrSvc.GetByLogin(login)
	if err != nil {
		return err
	}
	_, err = cli.usrSvc.SetPassword(usr, pwd)
	return err
}
