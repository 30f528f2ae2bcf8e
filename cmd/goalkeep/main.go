package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hokaccha/go-prettyjson"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gopkg.in/yaml.v3"

	"github.com/goalkeep/goalkeep/conf"
	"github.com/goalkeep/goalkeep/internal/build"
	"github.com/goalkeep/goalkeep/internal/cycles"
	"github.com/goalkeep/goalkeep/internal/isolation"
	"github.com/goalkeep/goalkeep/internal/log"
	"github.com/goalkeep/goalkeep/internal/server/biz"
	"github.com/goalkeep/goalkeep/internal/storage"
	"github.com/goalkeep/goalkeep/internal/storage/memory"
	"github.com/goalkeep/goalkeep/internal/storage/postgres"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			handleConfigCommand()
			return
		case "version", "--version", "-v":
			fmt.Println(build.Version)
			return
		case "build-info":
			fmt.Println(build.GetBuildInfo())
			return
		case "help", "--help", "-h":
			showHelp()
			return
		}
	}

	startApp()
}

type fxLogger struct{}

func (l *fxLogger) LogEvent(event fxevent.Event) {
	log.Debug(context.Background(), "fx event", log.Any("event", event))
}

func startApp() {
	config, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := log.Init(config.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logging: %v\n", err)
		os.Exit(1)
	}

	opts := []fx.Option{
		fx.WithLogger(func() fxevent.Logger {
			return &fxLogger{}
		}),
		fx.Supply(config.Auth),
		fx.Provide(func() storage.Interceptors {
			return interceptorChain(config.Isolation)
		}),
		biz.Module,
		storeModule(config.Store),
		fx.Invoke(func(
			auth *biz.AuthService,
			objectives *biz.ObjectiveService,
			keyResults *biz.KeyResultService,
			roles *biz.RoleService,
			cycleService *cycles.Service,
		) {
			log.Info(context.Background(), "goalkeep ready",
				log.String("version", build.Version),
				log.String("store", config.Store.Backend),
			)
		}),
	}

	fx.New(opts...).Run()
}

// interceptorChain assembles the read interceptors. The session mirror must
// precede the tenant filter so the session is set before the predicate
// evaluates.
func interceptorChain(config conf.IsolationConfig) storage.Interceptors {
	var chain storage.Interceptors

	if config.SessionMirror {
		chain = append(chain, isolation.NewSessionMirror())
	}

	return append(chain, isolation.NewTenantFilter())
}

func storeModule(config conf.StoreConfig) fx.Option {
	switch config.Backend {
	case "postgres":
		return fx.Options(
			fx.Provide(func(lc fx.Lifecycle) (*pgxpool.Pool, error) {
				pool, err := postgres.NewPool(context.Background(), config.Postgres)
				if err != nil {
					return nil, err
				}

				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						pool.Close()
						return nil
					},
				})

				return pool, nil
			}),
			postgres.Module,
		)
	default:
		return memory.Module
	}
}

func handleConfigCommand() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: goalkeep config <preview|validate>")
		os.Exit(1)
	}

	switch os.Args[2] {
	case "preview":
		configPreview()
	case "validate":
		configValidate()
	default:
		fmt.Println("Usage: goalkeep config <preview|validate>")
		os.Exit(1)
	}
}

func configPreview() {
	format := "yml"

	for i := 3; i < len(os.Args); i++ {
		if os.Args[i] == "--format" || os.Args[i] == "-f" {
			if i+1 < len(os.Args) {
				format = os.Args[i+1]
			}
		}
	}

	config, err := conf.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var output []byte

	switch format {
	case "json":
		output, err = prettyjson.Marshal(config)
	case "yml", "yaml":
		output, err = yaml.Marshal(config)
	default:
		fmt.Printf("Unsupported format: %s\n", format)
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Failed to preview config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(string(output))
}

func configValidate() {
	config, err := conf.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	problems := validateConfig(config)

	if len(problems) == 0 {
		fmt.Println("Configuration is valid!")
		return
	}

	fmt.Println("Configuration validation failed:")

	for _, problem := range problems {
		fmt.Printf("  - %s\n", problem)
	}

	os.Exit(1)
}

func validateConfig(config *conf.Config) []string {
	var problems []string

	if config.Store.Backend != "memory" && config.Store.Backend != "postgres" {
		problems = append(problems, "store.backend must be memory or postgres")
	}

	if config.Store.Backend == "postgres" && config.Store.Postgres.DSN == "" {
		problems = append(problems, "store.postgres.dsn cannot be empty")
	}

	if config.Auth.SecretKey == "" {
		problems = append(problems, "auth.secret_key cannot be empty")
	}

	return problems
}

func showHelp() {
	fmt.Println("Goalkeep objective tracking")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  goalkeep                   Start the application (default)")
	fmt.Println("  goalkeep config preview    Preview configuration")
	fmt.Println("  goalkeep config validate   Validate configuration")
	fmt.Println("  goalkeep version           Show version")
	fmt.Println("  goalkeep build-info        Show build information")
	fmt.Println("  goalkeep help              Show this help message")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -f, --format FORMAT        Output format for config preview (yml, json)")
}
