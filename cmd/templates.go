package cmd

import (
	"fmt"
	"strings"

	"github.com/kayz/promptsmith/internal/app"
	"github.com/kayz/promptsmith/internal/persist"
	"github.com/kayz/promptsmith/internal/templates"
	"github.com/spf13/cobra"
)

var (
	templateText        string
	templateDescription string
	templateTags        []string
)

var templatesCmd = &cobra.Command{
	Use:     "templates",
	Aliases: []string{"template"},
	Short:   "Manage saved prompt templates",
	RunE:    runTemplatesList,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE:  runTemplatesList,
}

var templatesSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search templates by name, description or tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTemplates(func(s *templates.Store) error {
			printTemplates(s.Search(args[0]))
			return nil
		})
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTemplates(func(s *templates.Store) error {
			t, ok := s.Get(args[0])
			if !ok {
				return fmt.Errorf("template not found: %s", args[0])
			}
			heading(t.Name)
			fmt.Println(t.Template)
			if t.Description != "" {
				fmt.Printf("\nDescription: %s\n", t.Description)
			}
			if len(t.Tags) > 0 {
				fmt.Printf("Tags: %s\n", strings.Join(t.Tags, ", "))
			}
			fmt.Printf("Created: %s\n", t.CreatedAt)
			return nil
		})
	},
}

var templatesSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Create or replace a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTemplates(func(s *templates.Store) error {
			t := templates.Template{
				Name:        args[0],
				Template:    templateText,
				Description: templateDescription,
				Tags:        templateTags,
			}
			if err := s.Save(t); err != nil {
				if persist.IsPersistence(err) {
					warnf("template kept for this run only: %v", err)
					return nil
				}
				return err
			}
			successf("Template '%s' saved", t.Name)
			return nil
		})
	},
}

var templatesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTemplates(func(s *templates.Store) error {
			removed, err := s.Delete(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("template not found: %s", args[0])
			}
			successf("Template '%s' deleted", args[0])
			return nil
		})
	},
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	return withTemplates(func(s *templates.Store) error {
		printTemplates(s.List())
		return nil
	})
}

func printTemplates(list []templates.Template) {
	if len(list) == 0 {
		printEmpty("templates")
		return
	}
	table := newTable("Name", "Template", "Description", "Tags", "Created")
	for _, t := range list {
		table.Append([]string{
			t.Name,
			truncate(t.Template, 48),
			truncate(t.Description, 32),
			strings.Join(t.Tags, ", "),
			t.CreatedAt,
		})
	}
	table.Render()
}

func withTemplates(fn func(s *templates.Store) error) error {
	session, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()
	return session.Do(func(c app.Components) error { return fn(c.Templates) })
}

func init() {
	templatesSaveCmd.Flags().StringVar(&templateText, "text", "", "Template text (required)")
	templatesSaveCmd.Flags().StringVar(&templateDescription, "description", "", "Short description")
	templatesSaveCmd.Flags().StringSliceVar(&templateTags, "tags", nil, "Comma-separated tags")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesSearchCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesSaveCmd)
	templatesCmd.AddCommand(templatesDeleteCmd)
	rootCmd.AddCommand(templatesCmd)
}
