// Package main provides the token command for managing the stored session token.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"eventdesk/internal/app"
	"eventdesk/internal/auth"
	"eventdesk/internal/logger"
)

func main() {
	configPath := flag.String("config", "eventdesk.yaml", "Path to config file")
	set := flag.String("set", "", "Store this token")
	clearToken := flag.Bool("clear", false, "Remove the stored token")
	show := flag.Bool("show", false, "Print where the token is stored and when it expires")

	flag.Parse()

	if *set == "" && !*clearToken && !*show {
		fmt.Println("Usage: token [-set <token> | -clear | -show] [-config <path>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	env, err := app.Setup(*configPath)
	if err != nil {
		logger.NewLogger("info").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := env.Logger
	store := env.Tokens

	switch {
	case *clearToken:
		if err := store.Clear(); err != nil {
			log.Error("failed to clear token", "path", store.Path(), "error", err)
			os.Exit(1)
		}

		log.Info("token cleared", "path", store.Path())

	case *set != "":
		if err := store.Save(*set); err != nil {
			log.Error("failed to save token", "path", store.Path(), "error", err)
			os.Exit(1)
		}

		log.Info("token saved", "path", store.Path())
	}

	if *show {
		showToken(env, log)
	}
}

func showToken(env *app.Env, log *logger.Logger) {
	store := env.Tokens

	fmt.Printf("token file: %s\n", store.Path())

	if os.Getenv(env.Config.Auth.TokenEnv) != "" {
		fmt.Printf("note: $%s is set and takes precedence\n", env.Config.Auth.TokenEnv)
	}

	tok, err := store.Token(context.Background())
	if err != nil {
		fmt.Println("status: no token stored")
		return
	}

	exp, ok := auth.ExpiresAt(tok)

	switch {
	case !ok:
		fmt.Println("status: stored (no expiry)")
	case time.Now().After(exp):
		fmt.Printf("status: expired at %s\n", exp.Format(time.RFC3339))
		log.Warn("stored token has expired", "expired_at", exp)
	default:
		fmt.Printf("status: valid until %s\n", exp.Format(time.RFC3339))
	}
}
