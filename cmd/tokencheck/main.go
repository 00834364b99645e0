// Command tokencheck asks the auth server whether an access token is valid.
//
// The token is read from the first positional argument, or from the
// terminal without echo when none is given.
//
//	tokencheck [-a host:port] [-t seconds] [-c config.json] [token]
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"golang.org/x/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadConfig()

	token, err := readToken(positionalArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading token: %v\n", err)
		return 2
	}

	c, err := client.NewAuthClient(cfg.ServerEndpointAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting: %v\n", err)
		return 2
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	res, err := c.VerifyToken(ctx, token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify token: %v\n", err)
		return 2
	}

	if !res.Valid {
		fmt.Println(res.Message)
		return 1
	}

	fmt.Printf("%s (%s)\n", res.Message, res.Email)
	return 0
}

// positionalArgs drops the known flags and their values.
func positionalArgs(args []string) []string {
	var out []string
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "-a" || a == "-t" || a == "-c" || a == "-config":
			i++
		case strings.HasPrefix(a, "-"):
		default:
			out = append(out, a)
		}
	}
	return out
}

func readToken(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Token: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
