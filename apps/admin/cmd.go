package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/classportal/core/attendance"
	"github.com/trezcool/classportal/core/user"
	"github.com/trezcool/classportal/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	gooseRunFunc     = database.Run      // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sqlx.DB
	out     io.Writer
	usrRepo user.Repository
	usrSvc  user.Service
	attSvc  attendance.Service
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  adduser -username USERNAME -email EMAIL [-name NAME] [-student] - add or update a user")
	_, _ = fmt.Fprintln(cli.out, "  resetpassword -username USERNAME|EMAIL - reset user's password")
	_, _ = fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose command: up, down, status, version, redo, reset...")
	_, _ = fmt.Fprintln(cli.out, "  report [-unit UNIT] - print the attendance report")
	_, _ = fmt.Fprintln(cli.out, "  clearattendance -yes - delete every attendance record")
}

// promptPassword reads a password without echoing it. An empty password is a usage error.
func (cli *commandLine) promptPassword(fs *flag.FlagSet) (string, error) {
	_, _ = fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username. The password will be prompted next.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserName := addUserCmd.String("name", "", "The user's full name; defaults to the username or email.")
	addUserStudent := addUserCmd.Bool("student", false, "Add a student instead of a teacher.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username or email. The password will be prompted next.")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportUnit := reportCmd.String("unit", "", "Only count the sessions of this unit.")

	clearCmd := flag.NewFlagSet("clearattendance", flag.ContinueOnError)
	clearYes := clearCmd.Bool("yes", false, "Confirm the deletion of every attendance record.")

	for _, fs := range []*flag.FlagSet{addUserCmd, resetPasswordCmd, reportCmd, clearCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserUname == "" && *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(addUserCmd)
		if err != nil {
			return err
		}
		usr, err := cli.addUser(ctx, *addUserName, *addUserUname, *addUserEmail, pwd, *addUserStudent)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cli.out, "%s %q saved\n", usr.Role, usr.Name)
		return nil

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword(resetPasswordCmd)
		if err != nil {
			return err
		}
		return cli.resetPassword(ctx, *resetPasswordUname, pwd)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(ctx, args[2:])

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.report(ctx, *reportUnit)

	case "clearattendance":
		if err := clearCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.clearAttendance(ctx, *clearYes)

	default:
		cli.printUsage()
		return errHelp
	}
}
