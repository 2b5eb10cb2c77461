package main

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/stencil/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a template folder and a starter config file",
	Long: `Create the template root folder under the project root, plus a starter
stencil.toml with the default options spelled out. Does nothing that already
exists.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	opts, err := config.Load(root)
	if err != nil {
		return err
	}

	templateRoot := filepath.Join(root, opts.RootFolderName)
	if err := os.MkdirAll(templateRoot, 0755); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "template root: %s\n", templateRoot)

	configPath := filepath.Join(root, "stencil.toml")
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "config exists: %s\n", configPath)
		return nil
	}

	starter := struct {
		RootFolderName string   `toml:"root_folder_name"`
		Enabled        bool     `toml:"enabled"`
		Presets        []string `toml:"presets"`
	}{
		RootFolderName: opts.RootFolderName,
		Enabled:        opts.Enabled,
		Presets:        opts.Presets,
	}

	data, err := toml.Marshal(starter)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote config: %s\n", configPath)
	return nil
}
