// Package main provides the feed command: it lists upcoming events and can
// register for one of them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"eventdesk/internal/app"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
	"eventdesk/internal/render"
	"eventdesk/internal/view"
)

func main() {
	configPath := flag.String("config", "eventdesk.yaml", "Path to config file")
	register := flag.String("register", "", "Event ID to register for")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	env, err := app.Setup(*configPath)
	if err != nil {
		logger.NewLogger("info").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *debug {
		env.Logger.SetLevel("debug")
	}

	if err := run(env, models.ID(*register), *yes); err != nil {
		env.Logger.Error("feed command failed", "error", err)
		os.Exit(1)
	}
}

func run(env *app.Env, register models.ID, yes bool) error {
	log := env.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term := render.NewTerminal(os.Stdin, os.Stdout)
	out := render.New(os.Stdout, env.Client.BaseURL(), env.Config.Display.DescriptionWidth)

	feed := view.NewEventsFeed(env.Client, term, log)
	if err := feed.Mount(ctx); err != nil {
		return fmt.Errorf("failed to mount feed: %w", err)
	}
	defer feed.Unmount()

	feed.Wait()

	st := feed.State()

	if register == "" || st.Phase != view.PhaseReady {
		if err := out.Feed(st, feed.Cards()); err != nil {
			return fmt.Errorf("failed to render feed: %w", err)
		}

		switch {
		case st.Phase == view.PhaseError:
			return errors.New(st.Error)
		case register != "" && st.Phase != view.PhaseReady:
			return fmt.Errorf("event %s not found: feed is %s", register, st.Phase)
		}

		return nil
	}

	card, ok := feed.Card(register)
	if !ok {
		return fmt.Errorf("event %s not found in feed", register)
	}

	// The confirmation prompt is printed by the terminal, not the card.
	if err := out.Card(card.State()); err != nil {
		return fmt.Errorf("failed to render card: %w", err)
	}

	card.RequestRegistration()

	if !yes {
		confirmed, err := term.Confirm(render.TextConfirm)
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}

		if !confirmed {
			card.CancelRegistration()
			log.Info("registration cancelled", "event_id", register.String())

			return nil
		}
	}

	if err := card.ConfirmRegistration(ctx); err != nil {
		return fmt.Errorf("registration for %s failed: %w", register, err)
	}

	if err := out.Card(card.State()); err != nil {
		return fmt.Errorf("failed to render card: %w", err)
	}

	return nil
}
