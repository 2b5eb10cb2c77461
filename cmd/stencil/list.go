package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/stencil/pkg/config"
	"github.com/arthur-debert/stencil/pkg/session"
	"github.com/arthur-debert/stencil/pkg/style"
	"github.com/arthur-debert/stencil/pkg/template"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the effective template set for the project",
	Long: `Discover every template folder under the project root, stack the
configured presets underneath them, and print the merged set grouped by
scope. Templates shadowed by an override are not shown: this is exactly the
set a watch session would match against.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	opts, err := config.Load(root)
	if err != nil {
		return err
	}

	merged, _, err := session.LoadSet(opts, root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(merged) == 0 {
		fmt.Fprintln(out, style.Render(style.MutedStyle, "no templates found"))
		return nil
	}

	byScope := make(map[string][]*template.Template)
	var scopes []string
	for _, tmpl := range merged {
		if _, seen := byScope[tmpl.ScopePrefix]; !seen {
			scopes = append(scopes, tmpl.ScopePrefix)
		}
		byScope[tmpl.ScopePrefix] = append(byScope[tmpl.ScopePrefix], tmpl)
	}
	sort.Strings(scopes)

	fmt.Fprintln(out, style.Render(style.TitleStyle, fmt.Sprintf("%d templates", len(merged))))
	for _, scopePrefix := range scopes {
		label := scopePrefix
		if label == "" {
			label = "(project root)"
		}
		fmt.Fprintln(out, style.Render(style.ScopeStyle, label))
		for _, tmpl := range byScope[scopePrefix] {
			origin := "preset"
			if tmpl.AbsPath != "" {
				origin = tmpl.AbsPath
			}
			line := style.Render(style.PatternStyle, tmpl.SourcePath) +
				"  " + style.Render(style.SourceStyle, origin)
			fmt.Fprintln(out, line)
		}
	}
	return nil
}
