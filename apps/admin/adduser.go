package main

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/classportal/apps"
	"github.com/trezcool/classportal/core"
	"github.com/trezcool/classportal/core/user"
)

// addUser updates or creates an active user.User; teachers unless isStudent.
// The name defaults to the username, then to the local part of the email.
func (cli *commandLine) addUser(ctx context.Context, name, uname, email, pwd string, isStudent bool) (user.User, error) {
	name = core.CleanString(name)
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	usr, found, err := cli.findUser(ctx, uname, email)
	if err != nil {
		return user.User{}, err
	}
	if !found {
		usr = user.User{CreatedAt: core.NowFunc()}
	}
	if uname != "" {
		usr.Username = uname
	}
	if email != "" {
		usr.Email = email
	}
	switch {
	case name != "":
		usr.Name = name
	case usr.Name == "" && uname != "":
		usr.Name = uname
	case usr.Name == "":
		usr.Name = strings.SplitN(email, "@", 2)[0]
	}
	usr.Role = user.RoleTeacher
	if isStudent {
		usr.Role = user.RoleStudent
	}
	usr.IsActive = true
	usr.UpdatedAt = core.NowFunc()

	if err = user.ValidatePassword(pwd, usr); err != nil {
		return user.User{}, apps.NewArgumentError(err.Error())
	}
	if err = usr.SetPassword(pwd); err != nil {
		return user.User{}, errors.Wrap(err, "hashing password")
	}

	if found {
		usr, err = cli.usrRepo.UpdateUser(ctx, usr)
	} else {
		usr, err = cli.usrRepo.CreateUser(ctx, usr)
	}
	if err != nil {
		if cause := errors.Cause(err); cause == user.ErrUsernameExists || cause == user.ErrEmailExists {
			return user.User{}, apps.NewArgumentError(cause.Error())
		}
		return user.User{}, errors.Wrap(err, "saving user")
	}
	return usr, nil
}

// findUser looks the user up by username, then by email.
func (cli *commandLine) findUser(ctx context.Context, uname, email string) (user.User, bool, error) {
	for _, key := range []string{uname, email} {
		if key == "" {
			continue
		}
		usr, err := cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: key})
		if err == nil {
			return usr, true, nil
		}
		if errors.Cause(err) != user.ErrNotFound {
			return user.User{}, false, errors.Wrap(err, "finding user")
		}
	}
	return user.User{}, false, nil
}
