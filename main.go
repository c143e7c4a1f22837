package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/mazelab/solver-api/api"
	api_i "github.com/mazelab/solver-api/api/i"
	runapi "github.com/mazelab/solver-api/api/run"
	"github.com/mazelab/solver-api/config"
	"github.com/mazelab/solver-api/infrastructure/scoreboard"
	"github.com/mazelab/solver-api/service"
	"github.com/mazelab/solver-api/service/i"
)

// Global variables for dependencies
var (
	redisClient      *redis.Client
	runScoreboard    i.SortedScoreboard
	runManager       *service.RunManager
	solverController api_i.Controller
	router           *api.Router
	appLogger        *log.Logger
)

func initRedis(ctx context.Context) {
	addr := fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort)
	redisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Envs.RedisPassword,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Printf("%s[ERROR]%s Redis ping failed: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
	appLogger.Printf("%s[INFO]%s Connected to Redis", config.LogInfoColor, config.LogColorReset)
}

func initScoreboard() {
	var err error
	runScoreboard, err = scoreboard.NewRedisScoreboard(redisClient, config.Envs.ScoreboardTTL)
	if err != nil {
		appLogger.Printf("%s[ERROR]%s Creating scoreboard: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
	appLogger.Printf("%s[INFO]%s Scoreboard initialized", config.LogInfoColor, config.LogColorReset)
}

func initRunManager() {
	managerLogger := log.New(os.Stdout, fmt.Sprintf("%sRUN-MANAGER%s ", config.ColorCyan, config.ColorReset), log.LstdFlags)

	var err error
	runManager, err = service.NewRunManager(&service.Config{
		Scoreboard: runScoreboard,
		Logger:     managerLogger,
	})
	if err != nil {
		appLogger.Printf("%s[ERROR]%s Creating run manager: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
	appLogger.Printf("%s[INFO]%s Run manager initialized", config.LogInfoColor, config.LogColorReset)
}

func initSolverController() {
	var err error
	solverController, err = runapi.NewSolverController(runManager)
	if err != nil {
		appLogger.Printf("%s[ERROR]%s Creating solver controller: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
	appLogger.Printf("%s[INFO]%s Solver controller initialized", config.LogInfoColor, config.LogColorReset)
}

func initRouter() {
	router = api.NewRouter(api.Config{
		Addr:        fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:     "/api",
		Controllers: []api_i.Controller{solverController},
	})
	appLogger.Printf("%s[INFO]%s Router initialized", config.LogInfoColor, config.LogColorReset)
}

func main() {
	ctx := context.Background()

	// Initialize dependencies
	appLogger = log.New(os.Stdout, fmt.Sprintf("%sAPP%s ", config.ColorMagenta, config.ColorReset), log.LstdFlags)

	initRedis(ctx)
	defer func() {
		_ = redisClient.Close()
	}()

	initScoreboard()
	initRunManager()
	defer runManager.StopAll()

	initSolverController()
	initRouter()

	// Run HTTP server
	if err := router.Run(); err != nil {
		appLogger.Printf("%s[ERROR]%s Starting server: %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
}
