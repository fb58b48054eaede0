// Command client is a small command-line client for the password safe.
//
// Usage:
//
//	client signup -user NAME -email ADDR
//	client save   -user NAME -site SITE -site-user LOGIN -secret PASSWORD
//	client load   -user NAME -site SITE
//	client reveal -user NAME -site SITE
//	client list   -user NAME
//
// The master password is read from the SAFE_PASSWORD environment variable so
// that it never appears in process listings or shell history. Every
// invocation performs a full challenge-response login, runs the requested
// vault command, and logs out; no session state is kept between runs.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/dkotelnikov/go-password-safe/internal/adapter"
	"github.com/dkotelnikov/go-password-safe/internal/config"
	"github.com/dkotelnikov/go-password-safe/internal/logger"
	"github.com/dkotelnikov/go-password-safe/internal/service"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("safe-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	services := service.NewClientServices(serverAdapter, log)

	if err = run(context.Background(), services, os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func run(ctx context.Context, services *service.ClientServices, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given; want one of signup, save, load, reveal, list")
	}

	command := args[0]
	opts, err := parseOptions(args[1:])
	if err != nil {
		return err
	}

	if opts.username == "" {
		return fmt.Errorf("-user is required")
	}

	password := os.Getenv("SAFE_PASSWORD")
	if password == "" {
		return fmt.Errorf("SAFE_PASSWORD environment variable is not set")
	}

	if command == "signup" {
		if opts.email == "" {
			return fmt.Errorf("-email is required for signup")
		}
		if err = services.AuthService.Register(ctx, opts.username, opts.email, password); err != nil {
			return err
		}
		fmt.Println("Account created.")
		return nil
	}

	// Every vault command runs inside one login/logout exchange.
	if err = services.AuthService.Login(ctx, opts.username, password); err != nil {
		return err
	}
	defer func() {
		if logoutErr := services.AuthService.Logout(ctx); logoutErr != nil {
			fmt.Fprintf(os.Stderr, "logout: %v\n", logoutErr)
		}
	}()

	switch command {
	case "save":
		if opts.site == "" || opts.secret == "" {
			return fmt.Errorf("-site and -secret are required for save")
		}
		if err = services.VaultService.SaveSecret(ctx, opts.site, opts.siteUser, opts.secret); err != nil {
			return err
		}
		fmt.Println("Password saved.")

	case "load":
		if opts.site == "" {
			return fmt.Errorf("-site is required for load")
		}
		record, loadErr := services.VaultService.LoadSecret(ctx, opts.site)
		if loadErr != nil {
			return loadErr
		}
		fmt.Printf("site: %s\nsite user: %s\nciphertext: %s\niv: %s\n",
			record.Site, record.SiteUser,
			hex.EncodeToString(record.Ciphertext), hex.EncodeToString(record.IV))

	case "reveal":
		if opts.site == "" {
			return fmt.Errorf("-site is required for reveal")
		}
		secret, revealErr := services.VaultService.RevealSecret(ctx, opts.site)
		if revealErr != nil {
			return revealErr
		}
		fmt.Println(secret)

	case "list":
		sites, listErr := services.VaultService.Sites(ctx)
		if listErr != nil {
			return listErr
		}
		for _, site := range sites {
			fmt.Println(site)
		}

	default:
		return fmt.Errorf("unknown command %q; want one of signup, save, load, reveal, list", command)
	}

	return nil
}

type options struct {
	username string
	email    string
	site     string
	siteUser string
	secret   string
}

// parseOptions reads -flag value pairs. The standard flag package is not used
// here because each command accepts a different subset of flags and unknown
// flags should produce a command-specific error message.
func parseOptions(args []string) (options, error) {
	var opts options

	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			return opts, fmt.Errorf("flag %s is missing a value", args[i])
		}

		value := args[i+1]
		switch args[i] {
		case "-user":
			opts.username = value
		case "-email":
			opts.email = value
		case "-site":
			opts.site = value
		case "-site-user":
			opts.siteUser = value
		case "-secret":
			opts.secret = value
		default:
			return opts, fmt.Errorf("unknown flag %s", args[i])
		}
	}

	return opts, nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
