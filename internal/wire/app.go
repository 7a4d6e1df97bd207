package wire

import (
	"context"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/mithrel/mriynyk/internal/answer"
	"github.com/mithrel/mriynyk/internal/config"
	"github.com/mithrel/mriynyk/internal/db"
	"github.com/mithrel/mriynyk/internal/notes"
	"github.com/mithrel/mriynyk/internal/students"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *log.Logger
	Store    *db.Store
	Notes    *notes.Service
	Students *students.Client
}

// BuildApp wires dependencies with the provided config. A db_url value
// (e.g. mem://) overrides the sqlite file under data_dir.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger := log.New(os.Stderr, "mriynyk ", log.LstdFlags)
	dsn := v.GetString("db_url")
	if dsn == "" {
		dsn = "sqlite://" + config.ResolveDBPath(v)
	}
	store, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	client := answer.New(v.GetString("answer.url"), v.GetString("answer.token"), v.GetDuration("answer.timeout"))
	return &App{
		Cfg:      v,
		Log:      logger,
		Store:    store,
		Notes:    notes.New(v, store, client, logger),
		Students: students.New(config.StudentsURL(v), v.GetString("answer.token"), v.GetDuration("answer.timeout")),
	}, nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Store.Close()
}
