package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"taskdeck/internal/calendar"
	"taskdeck/internal/model"
	"taskdeck/internal/service"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	urgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	cmd.Println(string(out))
	return nil
}

func renderBuckets(cmd *cobra.Command, clock *calendar.Clock, b *service.Buckets) {
	renderSection(cmd, clock, "Overdue", b.Overdue)
	renderSection(cmd, clock, "Today", b.Today)

	dates := make([]string, 0, len(b.Future))
	for date := range b.Future {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		renderSection(cmd, clock, clock.FormatDate(date), b.Future[date])
	}

	renderSection(cmd, clock, "Soon", b.Soon)
	renderSection(cmd, clock, "Someday", b.Someday)
	renderSection(cmd, clock, "Inbox", b.Inbox)
}

func renderSection(cmd *cobra.Command, clock *calendar.Clock, title string, tasks []model.Task) {
	if len(tasks) == 0 {
		return
	}
	header := headerStyle.Render(title)
	if title == "Overdue" {
		header = overdueStyle.Bold(true).Underline(true).Render(title)
	}
	cmd.Println(header)
	for _, task := range tasks {
		cmd.Printf("  %s\n", renderTaskLine(clock, task))
	}
	cmd.Println()
}

func renderTaskLine(clock *calendar.Clock, task model.Task) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%d] ", task.ID))

	switch task.Priority {
	case model.PriorityUrgent:
		sb.WriteString(urgentStyle.Render("!! "))
	case model.PriorityHigh:
		sb.WriteString(highStyle.Render("! "))
	}

	sb.WriteString(task.Title)

	var extras []string
	if task.DueDate != nil {
		due := clock.FormatDate(*task.DueDate)
		if task.DueTime != nil {
			due += " " + calendar.FormatTime(*task.DueTime)
		}
		extras = append(extras, due)
	}
	if task.Project != "" {
		extras = append(extras, "#"+task.Project)
	}
	if tags := task.TagList(); len(tags) > 0 {
		extras = append(extras, "@"+strings.Join(tags, " @"))
	}
	if len(extras) > 0 {
		sb.WriteString(" " + faintStyle.Render("("+strings.Join(extras, ", ")+")"))
	}
	return sb.String()
}

func renderTaskDetail(cmd *cobra.Command, clock *calendar.Clock, task *model.Task) {
	cmd.Println(headerStyle.Render(fmt.Sprintf("Task %d", task.ID)))
	cmd.Printf("  Title:     %s\n", task.Title)
	if task.Description != "" {
		cmd.Printf("  Notes:     %s\n", task.Description)
	}
	if task.DueDate != nil {
		due := clock.FormatDate(*task.DueDate)
		if task.DueTime != nil {
			due += " at " + calendar.FormatTime(*task.DueTime)
		}
		cmd.Printf("  Due:       %s\n", due)
	} else {
		cmd.Printf("  Bucket:    %s\n", task.Placement)
	}
	if task.Project != "" {
		cmd.Printf("  Project:   %s\n", task.Project)
	}
	if tags := task.TagList(); len(tags) > 0 {
		cmd.Printf("  Tags:      %s\n", strings.Join(tags, ", "))
	}
	cmd.Printf("  Priority:  %s\n", priorityName(task.Priority))
	if task.TemplateID != nil {
		cmd.Printf("  Template:  %d\n", *task.TemplateID)
	}
	if task.CompletedAt != nil {
		cmd.Printf("  Completed: %s\n", task.CompletedAt.Format("2006-01-02 15:04"))
	}
}

func renderCompleted(cmd *cobra.Command, clock *calendar.Clock, tasks []model.Task) {
	if len(tasks) == 0 {
		cmd.Println("No completed tasks.")
		return
	}
	cmd.Println(headerStyle.Render("Completed"))
	for _, task := range tasks {
		when := ""
		if task.CompletedAt != nil {
			when = faintStyle.Render(" (" + task.CompletedAt.Format("2006-01-02") + ")")
		}
		cmd.Printf("  [%d] %s%s\n", task.ID, task.Title, when)
	}
}

func renderTemplates(cmd *cobra.Command, tpls []model.Template) {
	if len(tpls) == 0 {
		cmd.Println("No templates. Add one with: taskdeck tmpl add \"Title\" --every day")
		return
	}
	cmd.Println(headerStyle.Render("Templates"))
	for _, tpl := range tpls {
		cmd.Printf("  %s\n", renderTemplateLine(tpl))
	}
}

func renderTemplateLine(tpl model.Template) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%d] %s (%s)", tpl.ID, tpl.Title, describeRecurrence(tpl)))
	if !tpl.Enabled {
		sb.WriteString(faintStyle.Render(" [disabled]"))
	}
	if tpl.LastGenerated != nil {
		sb.WriteString(faintStyle.Render(" last generated " + *tpl.LastGenerated))
	}
	return sb.String()
}

func describeRecurrence(tpl model.Template) string {
	unit := map[string]string{
		model.RecurDaily:   "day",
		model.RecurWeekly:  "week",
		model.RecurMonthly: "month",
		model.RecurYearly:  "year",
	}[tpl.RecurType]

	var sb strings.Builder
	if tpl.RecurInterval > 1 {
		sb.WriteString(fmt.Sprintf("every %d %ss", tpl.RecurInterval, unit))
	} else {
		sb.WriteString("every " + unit)
	}
	if tpl.RecurDays != nil && *tpl.RecurDays != "" {
		sb.WriteString(" on " + *tpl.RecurDays)
	}
	if tpl.RecurDayOfMonth != nil {
		sb.WriteString(fmt.Sprintf(" on day %d", *tpl.RecurDayOfMonth))
	}
	return sb.String()
}

func renderStats(cmd *cobra.Command, stats *service.Stats) {
	cmd.Println(headerStyle.Render("Stats"))
	cmd.Printf("  Total:     %d\n", stats.Total)
	cmd.Printf("  Active:    %d\n", stats.Active)
	cmd.Printf("  Completed: %d\n", stats.Completed)
	cmd.Println()
	cmd.Printf("  Overdue:   %d\n", stats.Overdue)
	cmd.Printf("  Today:     %d\n", stats.Today)
	cmd.Printf("  Upcoming:  %d\n", stats.Upcoming)
	cmd.Printf("  Soon:      %d\n", stats.Soon)
	cmd.Printf("  Someday:   %d\n", stats.Someday)
	cmd.Printf("  Inbox:     %d\n", stats.Inbox)
}

func priorityName(p int) string {
	switch p {
	case model.PriorityUrgent:
		return "urgent"
	case model.PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}
