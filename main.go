package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"impostor-2d-be/internal/api/http"
	"impostor-2d-be/internal/config"
	"impostor-2d-be/internal/logger"
	"impostor-2d-be/internal/service"
	"impostor-2d-be/internal/service/game"
	"impostor-2d-be/internal/service/shipmap"
	"impostor-2d-be/internal/state"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "impostor-2d-be",
	Short: "Impostor 2D game server",
	RunE:  runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE:  runServe,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run one headless match with an autopilot human and print the result",
	RunE:  runSimulate,
}

var (
	flagConfigPath string

	flagSeed     uint64
	flagPlayers  int
	flagTickHz   int
	flagMaxSteps int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to the JSON config file (default ./app_config)")

	flags := simulateCmd.Flags()
	flags.Uint64Var(&flagSeed, "seed", 1, "random seed")
	flags.IntVar(&flagPlayers, "players", 0, "override the player count")
	flags.IntVar(&flagTickHz, "tick-hz", 30, "simulation steps per simulated second")
	flags.IntVar(&flagMaxSteps, "max-steps", 30*60*10, "stop after this many steps")

	rootCmd.AddCommand(serveCmd, simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// 加载配置
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	// 初始化日志器
	restore := logger.InitLogger(cfg.LogLevel)
	defer restore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessionSvc := service.NewSessionService(state.SessionConfigFrom(cfg))
	defer sessionSvc.Close()

	// 组装应用状态
	appState := state.NewAppState(cfg, sessionSvc)

	// 启动服务器
	return http.RunServer(ctx, appState)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	restore := logger.InitLogger(cfg.LogLevel)
	defer restore()

	settings := cfg.Game.Settings()
	if flagPlayers > 0 {
		settings.PlayerCount = flagPlayers
	}

	if flagTickHz <= 0 {
		return fmt.Errorf("tick-hz 必须大于 0")
	}

	rng := game.NewRandSource(flagSeed)

	match, err := game.NewMatch(settings, shipmap.NewDefault(rng), rng)
	if err != nil {
		return err
	}

	res := game.Simulate(match, game.NewAutopilot(rng), 1/float64(flagTickHz), flagMaxSteps)

	zap.L().Info(
		"模拟结束",
		zap.String("winner", res.Winner),
		zap.Int("steps", res.Steps),
		zap.Bool("finished", res.Finished),
	)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	return enc.Encode(res)
}
