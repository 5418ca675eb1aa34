package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/thesavant42/dexsome/internal/db"
)

// newProfileOption is the select value that asks for a new profile name
const newProfileOption = "+ new profile"

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// PromptForProfile asks which profile database in dir to use and returns its path.
// A profile keeps its own favorites, compare selection and record archive.
func PromptForProfile(dir string) (string, error) {
	profiles, err := db.ListProfiles(dir)
	if err != nil {
		return "", err
	}

	var choice string
	if len(profiles) > 0 {
		options := make([]huh.Option[string], 0, len(profiles)+1)
		for _, p := range profiles {
			options = append(options, huh.NewOption(strings.TrimSuffix(p, filepath.Ext(p)), p))
		}
		options = append(options, huh.NewOption(newProfileOption, newProfileOption))

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Select Profile").
					Description("Each profile keeps its own favorites and archive").
					Options(options...).
					Value(&choice),
			),
		).WithTheme(NewAppTheme())

		if err := form.Run(); err != nil {
			return "", fmt.Errorf("prompt cancelled: %w", err)
		}
		if choice != newProfileOption {
			return filepath.Join(dir, choice), nil
		}
	}

	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New Profile").
				Description("Name for the new profile database").
				Placeholder("dexsome").
				Value(&name).
				Validate(func(s string) error {
					if strings.ContainsAny(s, `/\`) {
						return fmt.Errorf("profile name cannot contain path separators")
					}
					return nil
				}),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	name = strings.TrimSpace(sanitizeInput(name))
	if name == "" {
		name = "dexsome"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".db") {
		name += ".db"
	}
	return filepath.Join(dir, name), nil
}

// PromptForFilename asks user for an export filename
func PromptForFilename(defaultName string) (string, error) {
	var filename string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Export Filename").
				Description("Enter the filename for the markdown export").
				Placeholder(defaultName).
				Value(&filename),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return NormalizeExportName(sanitizeInput(filename), defaultName), nil
}

// NormalizeExportName trims name, falls back to defaultName and ensures a .md extension
func NormalizeExportName(name, defaultName string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".md") {
		name += ".md"
	}
	return name
}
