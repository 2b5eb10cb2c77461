package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the project and scaffold new empty files",
	Long: `Start a session over the project root: discover every template folder,
stack the configured presets underneath them, and watch for file creation.
A newly created empty file whose path matches a template is filled with that
template's current content. Runs until interrupted.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	opts, err := config.Load(root)
	if err != nil {
		return err
	}

	s, err := session.Start(opts, root, func(msg string) {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
	})
	if err != nil {
		return err
	}
	defer s.Stop()

	<-s.Ready()
	fmt.Fprintf(cmd.OutOrStdout(), "stencil watching %s (%d templates)\n", root, len(s.Templates()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
