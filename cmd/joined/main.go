// Package main provides the joined command: it lists the events the user has
// registered for and can leave one of them.
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
	leave := flag.String("leave", "", "Event ID to leave")
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

	if err := run(env, models.ID(*leave)); err != nil {
		env.Logger.Error("joined command failed", "error", err)
		os.Exit(1)
	}
}

func run(env *app.Env, leave models.ID) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term := render.NewTerminal(os.Stdin, os.Stdout)
	out := render.New(os.Stdout, env.Client.BaseURL(), env.Config.Display.DescriptionWidth)

	joined := view.NewJoinedEvents(env.Client, term, env.Logger)
	if err := joined.Mount(ctx); err != nil {
		return fmt.Errorf("failed to mount joined events: %w", err)
	}
	defer joined.Unmount()

	joined.Wait()

	var leaveErr error
	if leave != "" && joined.State().Phase == view.PhaseReady {
		if err := joined.Leave(ctx, leave); err != nil {
			leaveErr = fmt.Errorf("failed to leave event %s: %w", leave, err)
		}
	}

	st := joined.State()

	if err := out.Joined(st); err != nil {
		return fmt.Errorf("failed to render joined events: %w", err)
	}

	if st.Phase == view.PhaseError {
		return errors.New(st.Error)
	}

	return leaveErr
}
