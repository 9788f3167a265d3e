// Package cli is the command dispatcher: it parses flags, calls the
// services, and renders the structured values they return. No core
// logic lives here.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"taskdeck/internal/calendar"
	"taskdeck/internal/config"
	"taskdeck/internal/repository"
	"taskdeck/internal/service"
)

// App wires configuration, storage, and services behind the commands.
type App struct {
	cfg   config.Config
	clock *calendar.Clock
	db    *gorm.DB

	tasks     *service.TaskService
	templates *service.TemplateService
	generator *service.GeneratorService
	buckets   *service.BucketService

	cfgFile string
	jsonOut bool
}

func New() *App {
	return &App{}
}

// RootCmd builds the command tree. Services are wired lazily in the
// persistent pre-run so flag parsing stays cheap.
func (a *App) RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Personal task tracker with recurring task generation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ~/.taskdeck/taskdeck.toml)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "emit JSON instead of formatted text")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.showCmd(),
		a.doneCmd(),
		a.reopenCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.skipCmd(),
		a.moveCmd("soon", "Move a task to the soon bucket"),
		a.moveCmd("someday", "Move a task to the someday bucket"),
		a.moveCmd("inbox", "Move a task back to the inbox"),
		a.scheduleCmd(),
		a.todayCmd(),
		a.weekCmd(),
		a.statsCmd(),
		a.templateCmd(),
		a.generateCmd(),
	)

	return root
}

func (a *App) setup() error {
	if a.db != nil {
		return nil
	}

	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	clock, err := calendar.NewClock(cfg.Timezone)
	if err != nil {
		return err
	}
	a.clock = clock

	db, err := repository.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	a.db = db

	taskRepo := repository.NewTaskRepository(db)
	tplRepo := repository.NewTemplateRepository(db)

	a.tasks = service.NewTaskService(taskRepo, clock)
	a.templates = service.NewTemplateService(tplRepo, clock)
	a.generator = service.NewGeneratorService(tplRepo, taskRepo, clock)
	a.buckets = service.NewBucketService(taskRepo, clock)

	return nil
}

// Close releases the underlying database handle.
func (a *App) Close() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(id), nil
}
