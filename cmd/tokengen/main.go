// Command tokengen issues an access token for an external identity.
//
// The bot gateway, or an operator, uses it to call the API on behalf of a user.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/haim1120/maaserbot/pkg/configpkg"
	"github.com/haim1120/maaserbot/pkg/tokenpkg"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	identity := fs.String("identity", "", "External identity the token is issued for")
	duration := fs.Duration("duration", 0, "Token lifetime (default ACCESS_TOKEN_DURATION)")
	tokenType := fs.String("type", "", "Token type, paseto or jwt (default TOKEN_TYPE)")
	configPath := fs.String("config", "./configs", "Directory of app.env")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if strings.TrimSpace(*identity) == "" {
		fmt.Fprintln(stderr, "Usage: tokengen -identity <id> [-duration 24h] [-type paseto|jwt] [-config <dir>]")
		fs.PrintDefaults()

		return fmt.Errorf("missing required flags: identity")
	}

	config, err := configpkg.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *duration == 0 {
		*duration = config.AccessTokenDuration
	}

	if *duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}

	if *tokenType == "" {
		*tokenType = config.TokenType
	}

	key := config.TokenSymmetricKey
	if key == "" {
		fmt.Fprint(stderr, "Token symmetric key: ")

		key, err = readSecret(stdin)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}

		fmt.Fprintln(stderr)
	}

	maker, err := tokenpkg.New(*tokenType, key)
	if err != nil {
		return err
	}

	token, payload, err := maker.CreateToken(*identity, *duration)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	fmt.Fprintln(stdout, token)
	fmt.Fprintf(stderr, "Token for %s expires at %s\n", payload.Identity, payload.ExpiredAt.Format(time.RFC3339))

	return nil
}

func readSecret(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}

		return string(b), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", io.EOF
}
