// carebook-cli is a thin terminal client for the CareBook API. It
// drives the same session machinery an embedded UI would: credentials
// live in the token store, all calls flow through the gateway, and a
// 401 anywhere drops the session.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"carebook/pkg/authclient"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("CAREBOOK_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api/v1"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot resolve home directory:", err)
		os.Exit(1)
	}
	// The CLI has no per-process session medium, so the file store is
	// primary here and the credential survives between invocations.
	storage := authclient.NewFileStorage(filepath.Join(home, ".carebook", "session.json"))
	tokens := authclient.NewTokenStore(storage, nil)
	gateway := authclient.NewGateway(baseURL, tokens)
	session := authclient.NewManager(gateway, tokens, storage)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		if len(os.Args) != 4 {
			usage()
			os.Exit(2)
		}
		if err := session.Login(ctx, os.Args[2], os.Args[3]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		user := session.Current()
		fmt.Printf("Signed in as %s %s (%s)\n", user.FirstName, user.LastName, user.Role)

	case "logout":
		session.Logout()
		fmt.Println("Signed out.")

	case "whoami":
		user := session.Current()
		if user == nil {
			fmt.Println("Not signed in.")
			os.Exit(1)
		}
		fmt.Printf("%s %s <%s> role=%s\n", user.FirstName, user.LastName, user.Email, user.Role)

	case "appointments":
		if !session.IsAuthenticated() {
			fmt.Fprintln(os.Stderr, "Sign in first.")
			os.Exit(1)
		}
		var resp struct {
			Data json.RawMessage `json:"data"`
		}
		if err := gateway.Get(ctx, "/appointments", &resp); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		var pretty any
		if err := json.Unmarshal(resp.Data, &pretty); err == nil {
			out, _ := json.MarshalIndent(pretty, "", "  ")
			fmt.Println(string(out))
		} else {
			fmt.Println(string(resp.Data))
		}

	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  carebook-cli login <email> <password>
  carebook-cli logout
  carebook-cli whoami
  carebook-cli appointments`)
}
