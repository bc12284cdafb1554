package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ai_copywriter/config"
	"ai_copywriter/generator"
	"ai_copywriter/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
	provider   string
	model      string
)

var rootCmd = &cobra.Command{
	Use:   "copywriter",
	Short: "Generate, refine and localise direct-response marketing copy with an LLM",
	Long: `copywriter turns a campaign brief and persuasion-trait scores into email or
sales-page copy, then reviews, localises and exports it.

Commands:
  copywriter serve      Run the HTTP API
  copywriter generate   Write a draft from flags or a brief file
  copywriter adapt      Rewrite existing copy for another market
  copywriter variants   Suggest alternative headlines and CTAs
  copywriter prompt     Print the assembled prompt without calling a model`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("COPYWRITER_CONFIG"),
		"Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "",
		"LLM provider: openai, deepseek, anthropic, ollama, mock (overrides config)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "",
		"Model name (overrides config)")
}

// app is what every command needs: resolved configuration, a logger and the agent.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	agent  *generator.Agent
	stream bool
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	return cfg, cfg.Validate()
}

func newApp(overrides ...func(*config.Config)) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		o(&cfg)
	}
	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return nil, err
	}
	llm, err := generator.NewLLM(cfg.LLMSettings())
	if err != nil {
		return nil, err
	}
	completer, err := generator.NewCompleter(llm, cfg.CompleterConfig(), generator.WithLogger(log.Named("completer")))
	if err != nil {
		return nil, err
	}
	agent, err := generator.NewAgent(completer, cfg.AgentConfig(), log.Named("agent"))
	if err != nil {
		return nil, err
	}
	log.Debug("configuration loaded",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
		zap.Int("max_attempts", cfg.Generation.MaxAttempts),
		zap.Bool("auto_qa", cfg.Generation.AutoQA))
	_, streams := llm.(generator.StreamingLLM)
	return &app{cfg: cfg, log: log, agent: agent, stream: streams}, nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
