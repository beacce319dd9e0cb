package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/figscript/figscript/internal/catalog"
)

var (
	exportSection string
	exportDir     string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCatalogCmd)

	exportCatalogCmd.Flags().StringVar(&exportSection, "section", "", "export only this section")
	exportCatalogCmd.Flags().StringVar(&exportDir, "dir", "", "write one file per section into this directory")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export figscript data",
	Long:  "Export catalog data for customization or automation.",
}

var exportCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Export the merged catalog as section files",
	Long: `Export the merged catalog in the same YAML format it is loaded from.

Without --dir, sections are printed as a YAML stream. With --dir, each section
is written to its own file so the directory can be used as a catalog dir.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}

		sections := exportSections(c, exportSection)
		if len(sections) == 0 {
			return &PreflightError{
				Message:  fmt.Sprintf("section %q not found", exportSection),
				Hint:     "Section names are listed in the SECTION column",
				NextStep: "figscript catalog list",
			}
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), sections)
		}
		if exportDir != "" {
			return writeSectionFiles(cmd.OutOrStdout(), exportDir, sections)
		}

		for i, section := range sections {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "---")
			}
			data, err := marshalSection(section)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}
		}
		return nil
	},
}

type exportedSection struct {
	Section string           `yaml:"section" json:"section"`
	Entries []*catalog.Entry `yaml:"entries" json:"entries"`
}

// exportSections groups entries by section in catalog order. Entries are
// copied with Section cleared since the file header carries it.
func exportSections(c *catalog.Catalog, only string) []exportedSection {
	var sections []exportedSection
	for _, name := range c.Sections() {
		if only != "" && !strings.EqualFold(name, only) {
			continue
		}
		section := exportedSection{Section: name}
		for _, entry := range c.Filter(catalog.Filter{Section: name}) {
			clone := *entry
			clone.Section = ""
			section.Entries = append(section.Entries, &clone)
		}
		sections = append(sections, section)
	}
	return sections
}

func marshalSection(section exportedSection) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(section); err != nil {
		return nil, fmt.Errorf("failed to encode section %q: %w", section.Section, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSectionFiles(out io.Writer, dir string, sections []exportedSection) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for i, section := range sections {
		data, err := marshalSection(section)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%02d-%s.yaml", (i+1)*10, sectionSlug(section.Section)))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "Wrote %s (%d entries)\n", path, len(section.Entries))
	}
	return nil
}

func sectionSlug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
