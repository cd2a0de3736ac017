// Package main provides the host command for publishing a new event.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"eventdesk/internal/app"
	"eventdesk/internal/logger"
	"eventdesk/internal/models"
	"eventdesk/internal/render"
	"eventdesk/internal/view"
)

func main() {
	configPath := flag.String("config", "eventdesk.yaml", "Path to config file")
	name := flag.String("name", "", "Event name (required)")
	description := flag.String("description", "", "Event description (required)")
	date := flag.String("date", "", "Event date, YYYY-MM-DD (required)")
	startTime := flag.String("time", "", "Start time, HH:MM (required)")
	category := flag.String("category", "", "Category: "+strings.Join(models.Categories, ", ")+" (required)")
	maxAttendees := flag.String("max-attendees", "", "Maximum number of attendees (required)")
	location := flag.String("location", "", "Event location (required)")
	image := flag.String("image", "", "Path to a cover image (optional)")
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

	fields := [][2]string{
		{models.FieldName, *name},
		{models.FieldDescription, *description},
		{models.FieldDate, *date},
		{models.FieldTime, *startTime},
		{models.FieldCategory, *category},
		{models.FieldMaxAttendees, *maxAttendees},
		{models.FieldLocation, *location},
	}

	if err := run(env, fields, *image); err != nil {
		env.Logger.Error("host command failed", "error", err)
		os.Exit(1)
	}
}

func run(env *app.Env, fields [][2]string, image string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	term := render.NewTerminal(os.Stdin, os.Stdout)
	out := render.New(os.Stdout, env.Client.BaseURL(), env.Config.Display.DescriptionWidth)

	form := view.NewCreateEventForm(env.Client, term, env.Config.Upload.MaxImageBytes, env.Logger)

	for _, kv := range fields {
		if err := form.SetField(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to set field %s: %w", kv[0], err)
		}
	}

	var formErr error

	if image != "" {
		if err := form.AttachImage(image); err != nil {
			formErr = fmt.Errorf("failed to attach image %s: %w", image, err)
		}
	}

	if formErr == nil {
		if err := form.Submit(ctx); err != nil {
			formErr = fmt.Errorf("failed to create event: %w", err)
		}
	}

	if err := out.Form(form.State()); err != nil {
		return errors.Join(formErr, fmt.Errorf("failed to render form: %w", err))
	}

	return formErr
}
