package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/publiceyeusa/publiceye/internal/client/routing"
	"github.com/publiceyeusa/publiceye/internal/client/state"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Navigate(ctx context.Context, path string) error
	ListAffiliations(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// pageCommands are shortcuts for "goto <path>".
var pageCommands = map[string]string{
	"home":    routing.PathHome,
	"login":   routing.PathLogin,
	"signup":  routing.PathSignup,
	"profile": routing.PathProfile,
	"edit":    routing.PathEdit,
}

func printError(err error) {
	printlnFn("Error:", state.ErrorMessage(err))
}

// runREPL starts a simple read–eval–print loop for the PublicEye CLI.
//
// It reads a line from in, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit". Errors returned by commands are printed and the loop
// goes on.
//
// Commands
//
//	help                        show available commands
//	goto <path>                 navigate (the route guard applies)
//	home | login | signup       shortcuts for goto /, /login, /signup
//	profile | edit              shortcuts for goto /profile, /profile/edit
//	affiliations                list the affiliation catalog
//	whoami                      show the signed-in user
//	logout                      sign out
//	delete-account              delete the signed-in account
//	exit | quit                 leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("publiceye %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, edit, affiliations, whoami, goto <path>, logout, delete-account, exit")
			} else {
				printlnFn("Available commands: home, signup, login, affiliations, goto <path>, exit")
			}

		case "goto":
			if len(parts) < 2 {
				printlnFn("Usage: goto <path>")
				continue
			}
			cmdErr = a.Navigate(ctx, parts[1])

		case "home", "login", "signup", "profile", "edit":
			cmdErr = a.Navigate(ctx, pageCommands[cmd])

		case "affiliations":
			cmdErr = a.ListAffiliations(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "delete-account":
			cmdErr = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printError(cmdErr)
		}
	}
}
