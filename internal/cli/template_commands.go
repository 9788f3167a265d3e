package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskdeck/internal/service"
)

func (a *App) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tmpl",
		Aliases: []string{"template"},
		Short:   "Manage recurrence templates",
	}

	cmd.AddCommand(
		a.templateAddCmd(),
		a.templateEditCmd(),
		a.templateListCmd(),
		a.templateToggleCmd("enable", true),
		a.templateToggleCmd("disable", false),
		a.templateRmCmd(),
	)
	return cmd
}

func (a *App) templateAddCmd() *cobra.Command {
	var (
		input      service.TemplateInput
		dayOfMonth int
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a recurrence template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Title = args[0]
			if cmd.Flags().Changed("day") {
				input.DayOfMonth = &dayOfMonth
			}
			tpl, err := a.templates.CreateTemplate(cmd.Context(), input)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd, tpl)
			}
			cmd.Printf("Added template %d: %s\n", tpl.ID, renderTemplateLine(*tpl))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Every, "every", "e", "", "recurrence, e.g. \"day\", \"2 weeks\" (required)")
	cmd.Flags().StringVar(&input.Days, "days", "", "weekday filter for weekly, e.g. mon,wed,fri")
	cmd.Flags().IntVar(&dayOfMonth, "day", 0, "day of month for monthly (1-31)")
	cmd.Flags().StringVar(&input.Start, "start", "", "start date (default today)")
	cmd.Flags().StringVar(&input.End, "end", "", "end date (inclusive)")
	cmd.Flags().StringVarP(&input.At, "at", "t", "", "due time stamped onto occurrences")
	cmd.Flags().StringVarP(&input.Description, "desc", "D", "", "description")
	cmd.Flags().StringSliceVar(&input.Tags, "tag", nil, "tags")
	cmd.Flags().StringVarP(&input.Project, "project", "p", "", "project label")
	cmd.Flags().IntVar(&input.Priority, "priority", 0, "priority: 0 normal, 1 high, 2 urgent")
	_ = cmd.MarkFlagRequired("every")

	return cmd
}

func (a *App) templateEditCmd() *cobra.Command {
	var (
		title, desc, every, days, start, end, at, project string
		tags                                              []string
		dayOfMonth, priority                              int
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit template fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch service.TemplatePatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("every") {
				patch.Every = &every
			}
			if cmd.Flags().Changed("days") {
				patch.Days = &days
			}
			if cmd.Flags().Changed("day") {
				patch.DayOfMonth = &dayOfMonth
			}
			if cmd.Flags().Changed("start") {
				patch.Start = &start
			}
			if cmd.Flags().Changed("end") {
				patch.End = &end
			}
			if cmd.Flags().Changed("at") {
				patch.At = &at
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = &tags
			}
			if cmd.Flags().Changed("project") {
				patch.Project = &project
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority = &priority
			}

			tpl, err := a.templates.EditTemplate(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			if tpl == nil {
				return fmt.Errorf("template %d not found", id)
			}
			if a.jsonOut {
				return printJSON(cmd, tpl)
			}
			cmd.Printf("Updated template %d: %s\n", tpl.ID, renderTemplateLine(*tpl))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&desc, "desc", "D", "", "new description")
	cmd.Flags().StringVarP(&every, "every", "e", "", "new recurrence, e.g. \"day\", \"2 weeks\"")
	cmd.Flags().StringVar(&days, "days", "", "new weekday filter for weekly (empty clears)")
	cmd.Flags().IntVar(&dayOfMonth, "day", 0, "new day of month for monthly (0 clears)")
	cmd.Flags().StringVar(&start, "start", "", "new start date")
	cmd.Flags().StringVar(&end, "end", "", "new end date (empty clears)")
	cmd.Flags().StringVarP(&at, "at", "t", "", "new due time (empty clears)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replacement tags")
	cmd.Flags().StringVarP(&project, "project", "p", "", "new project label")
	cmd.Flags().IntVar(&priority, "priority", 0, "new priority")

	return cmd
}

func (a *App) templateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recurrence templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tpls, err := a.templates.ListTemplates(cmd.Context())
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd, tpls)
			}
			renderTemplates(cmd, tpls)
			return nil
		},
	}
}

func (a *App) templateToggleCmd(verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: verb + " a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tpl, err := a.templates.SetEnabled(cmd.Context(), id, enabled)
			if err != nil {
				return err
			}
			if tpl == nil {
				return fmt.Errorf("template %d not found", id)
			}
			if a.jsonOut {
				return printJSON(cmd, tpl)
			}
			cmd.Printf("Template %d %sd: %s\n", tpl.ID, verb, tpl.Title)
			return nil
		},
	}
}

func (a *App) templateRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a template (generated tasks survive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			tpl, err := a.templates.GetTemplate(cmd.Context(), id)
			if err != nil {
				return err
			}
			if tpl == nil {
				return fmt.Errorf("template %d not found", id)
			}
			if err := a.templates.DeleteTemplate(cmd.Context(), id); err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd, tpl)
			}
			cmd.Printf("Deleted template: %s\n", tpl.Title)
			return nil
		},
	}
}

func (a *App) generateCmd() *cobra.Command {
	var (
		horizon    int
		templateID uint
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Materialize upcoming occurrences from templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if horizon <= 0 {
				horizon = a.cfg.HorizonDays
			}

			if templateID != 0 {
				created, err := a.generator.GenerateForTemplate(cmd.Context(), templateID, horizon)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return printJSON(cmd, created)
				}
				cmd.Printf("Created %d occurrence(s)\n", len(created))
				return nil
			}

			report, err := a.generator.GenerateAll(cmd.Context(), horizon)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return printJSON(cmd, report)
			}
			cmd.Printf("Processed %d template(s), created %d task(s)\n",
				report.TemplatesProcessed, report.TasksCreated)
			return nil
		},
	}

	cmd.Flags().IntVar(&horizon, "horizon", 0, "days ahead to generate (default from config)")
	cmd.Flags().UintVar(&templateID, "template", 0, "generate for a single template id")

	return cmd
}
