package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/roster"
	"github.com/trezcool/darasa/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	out        io.Writer
	validate   *validator.Validate
	translator ut.Translator
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  hashpassword -username USERNAME [-name NAME] [-email EMAIL] [-role ROLE] - print a seed user entry")
	fmt.Fprintln(cli.out, "  gensecret [-bytes N] - print a random secret key")
	fmt.Fprintln(cli.out, "  report -file FILE - print the course attendance report of an exported ledger")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	hashPasswordCmd := flag.NewFlagSet("hashpassword", flag.ContinueOnError)
	hashPasswordCmd.SetOutput(cli.out)
	hashPasswordUname := hashPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")
	hashPasswordName := hashPasswordCmd.String("name", "", "The user's full name (defaults to the username).")
	hashPasswordEmail := hashPasswordCmd.String("email", "", "The user's email.")
	hashPasswordRole := hashPasswordCmd.String("role", user.RoleAdmin, "The user's role.")

	genSecretCmd := flag.NewFlagSet("gensecret", flag.ContinueOnError)
	genSecretCmd.SetOutput(cli.out)
	genSecretBytes := genSecretCmd.Int("bytes", 48, "Number of random bytes.")

	reportCmd := flag.NewFlagSet("report", flag.ContinueOnError)
	reportCmd.SetOutput(cli.out)
	reportFile := reportCmd.String("file", "", "JSON file holding students, classrooms and events.")

	switch args[1] {
	case "hashpassword":
		if err := hashPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *hashPasswordUname == "" {
			hashPasswordCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			hashPasswordCmd.Usage()
			return errHelp
		}
		return cli.hashPassword(*hashPasswordName, *hashPasswordUname, *hashPasswordEmail, *hashPasswordRole, string(pwd))

	case "gensecret":
		if err := genSecretCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *genSecretBytes < 16 {
			genSecretCmd.Usage()
			return errHelp
		}
		return cli.genSecret(*genSecretBytes)

	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *reportFile == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.report(*reportFile)

	default:
		cli.printUsage()
		return errHelp
	}
}

// hashPassword checks the password against the password policy and prints a YAML entry
// to paste under `users:` in the config file.
func (cli *commandLine) hashPassword(name, uname, email, role, pwd string) error {
	if name == "" {
		name = uname
	}
	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           []string{role},
	}
	nu.Clean()
	if err := cli.validate.Struct(nu); err != nil {
		return core.TranslateValidationErrors(err, cli.translator, "invalid user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal([]core.SeedUser{{
		Name:         nu.Name,
		Username:     nu.Username,
		Email:        nu.Email,
		PasswordHash: string(hash),
		Roles:        nu.Roles,
	}})
	if err != nil {
		return err
	}
	_, err = cli.out.Write(out)
	return err
}

func (cli *commandLine) genSecret(n int) error {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return err
	}
	_, err := fmt.Fprintln(cli.out, base64.URLEncoding.EncodeToString(b))
	return err
}

// ledgerExport is the document read by `report`.
type ledgerExport struct {
	Students   []roster.Student   `json:"students"`
	Classrooms []roster.Classroom `json:"classrooms"`
	Events     []attendance.Event `json:"events"`
}

func (cli *commandLine) report(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var data ledgerExport
	if err := json.NewDecoder(f).Decode(&data); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	rows := attendance.SummarizeCourses(data.Classrooms, data.Students, data.Events)
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COURSE\tPRESENT\tTOTAL\tPERCENT")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d%%\n", strings.TrimSpace(row.Course), row.Present, row.Total, row.Percent)
	}
	return w.Flush()
}
