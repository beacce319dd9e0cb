package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/figscript/figscript/internal/catalog"
	"github.com/figscript/figscript/internal/script"
)

var (
	// catalog list flags
	catalogListSection string
	catalogListType    string
	catalogListQuery   string
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogHelpersCmd)

	catalogListCmd.Flags().StringVar(&catalogListSection, "section", "", "filter by section name")
	catalogListCmd.Flags().StringVar(&catalogListType, "type", "", "filter by Figma node type (e.g. TEXT, FRAME)")
	catalogListCmd.Flags().StringVarP(&catalogListQuery, "query", "q", "", "filter by id, name or description")
}

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Aliases: []string{"cat"},
	Short:   "Browse catalog entries",
	Long: `Browse the property edits available for scripts.

Entries are loaded from configured directories, <project>/.figscript/catalog,
~/.config/figscript/catalog and /usr/share/figscript/catalog, then the
built-in catalog. The first entry with a given id wins.`,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Example: `  figscript catalog list
  figscript catalog list --section "Auto Layout"
  figscript catalog list --type TEXT --query font`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}

		entries := c.Filter(catalog.Filter{
			Query:   catalogListQuery,
			Section: catalogListSection,
			Type:    catalogListType,
		})

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, entries)
		}

		if len(entries) == 0 {
			fmt.Println("No catalog entries found")
			return nil
		}

		userDir, projectCatalog := catalogSourceDirs()
		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, []string{
				entry.ID,
				entry.Name,
				entry.Section,
				truncate(strings.Join(entry.Types, ","), 32),
				formatSource(sourceLabel(entry.Source, userDir, projectCatalog)),
			})
		}
		return writeTable(os.Stdout, []string{"ID", "NAME", "SECTION", "TYPES", "SOURCE"}, rows)
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a catalog entry",
	Long:  "Display an entry's inputs, defaults, helpers and template.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}
		entry, err := findEntry(c, args[0])
		if err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, entry)
		}

		fmt.Printf("%s (%s)\n", entry.Name, entry.ID)
		if entry.Description != "" {
			fmt.Printf("  %s\n", entry.Description)
		}
		fmt.Printf("Section: %s\n", entry.Section)
		if len(entry.Types) > 0 {
			fmt.Printf("Types:   %s\n", strings.Join(entry.Types, ", "))
		}
		if len(entry.Helpers) > 0 {
			fmt.Printf("Helpers: %s\n", strings.Join(entry.Helpers, ", "))
		}
		fmt.Printf("Source:  %s\n", entry.Source)

		if len(entry.Inputs) > 0 {
			fmt.Println()
			rows := make([][]string, 0, len(entry.Inputs))
			for _, in := range entry.Inputs {
				rows = append(rows, []string{
					in.Key,
					in.Label,
					string(in.Type),
					in.Default,
					formatYesNo(in.Required),
					describeConstraint(in),
				})
			}
			if err := writeTable(os.Stdout, []string{"KEY", "LABEL", "TYPE", "DEFAULT", "REQUIRED", "ALLOWED"}, rows); err != nil {
				return err
			}
		}

		fmt.Println()
		fmt.Println("Template:")
		for _, line := range strings.Split(entry.Template, "\n") {
			fmt.Printf("  %s\n", line)
		}
		return nil
	},
}

var catalogHelpersCmd = &cobra.Command{
	Use:   "helpers",
	Short: "List bundled helper functions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		helpers, err := script.Helpers()
		if err != nil {
			return err
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, helpers)
		}

		rows := make([][]string, 0, len(helpers))
		for _, h := range helpers {
			rows = append(rows, []string{h.Name, formatYesNo(h.Async), h.Description})
		}
		return writeTable(os.Stdout, []string{"NAME", "ASYNC", "DESCRIPTION"}, rows)
	},
}

func loadCatalog() (*catalog.Catalog, error) {
	cfg := currentConfig()
	c, err := catalog.LoadFromSearchPaths(resolveProjectDir(), cfg.Catalog.Dirs...)
	if err != nil {
		return nil, &PreflightError{
			Message:  fmt.Sprintf("failed to load catalog: %v", err),
			Hint:     "Fix or remove the catalog file named in the error",
			NextStep: "figscript catalog list",
		}
	}
	return c, nil
}

func findEntry(c *catalog.Catalog, id string) (*catalog.Entry, error) {
	entry, err := c.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrEntryNotFound) {
			return nil, &PreflightError{
				Message:  fmt.Sprintf("catalog entry %q not found", id),
				Hint:     "Entry ids are lowercase with dashes, e.g. fill-solid",
				NextStep: "figscript catalog list",
			}
		}
		return nil, err
	}
	return entry, nil
}

func catalogSourceDirs() (userDir, projectCatalog string) {
	project := resolveProjectDir()
	paths := catalog.SearchPaths(project)
	if project != "" && len(paths) > 0 {
		projectCatalog = paths[0]
		paths = paths[1:]
	}
	if len(paths) > 1 {
		userDir = paths[0]
	}
	return userDir, projectCatalog
}

func describeConstraint(in catalog.Input) string {
	switch in.Type {
	case catalog.InputSelect:
		values := make([]string, len(in.Options))
		for i, o := range in.Options {
			values[i] = o.Value
		}
		return truncate(strings.Join(values, "|"), 40)
	case catalog.InputNumber:
		switch {
		case in.Min != nil && in.Max != nil:
			return fmt.Sprintf("%g..%g", *in.Min, *in.Max)
		case in.Min != nil:
			return fmt.Sprintf(">= %g", *in.Min)
		case in.Max != nil:
			return fmt.Sprintf("<= %g", *in.Max)
		}
	case catalog.InputColor:
		if in.ColorFormat != "" {
			return in.ColorFormat
		}
		return "hex|rgb|hsl"
	case catalog.InputBoolean:
		return "true|false"
	}
	return ""
}
