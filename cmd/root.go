package cmd

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "interviewer"
)

type Config struct {
	Gemini    *GeminiConfig    `mapstructure:"gemini"`
	Knowledge *KnowledgeConfig `mapstructure:"knowledge"`
	Interview *InterviewConfig `mapstructure:"interview"`
	Results   *ResultsConfig   `mapstructure:"results"`
}

type GeminiConfig struct {
	APIKey         string        `mapstructure:"api-key"`
	APIKeyFile     string        `mapstructure:"api-key-file"`
	Model          string        `mapstructure:"model"`
	EmbeddingModel string        `mapstructure:"embedding-model"`
	Temperature    float64       `mapstructure:"temperature"`
	MaxRetries     int           `mapstructure:"max-retries"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxLogLength   int           `mapstructure:"max-log-length"`
}

type KnowledgeConfig struct {
	CVIndex        string `mapstructure:"cv-index"`
	KnowledgeIndex string `mapstructure:"knowledge-index"`
	TopK           int    `mapstructure:"top-k"`
}

type InterviewConfig struct {
	Language       string `mapstructure:"language"`
	Position       string `mapstructure:"position"`
	ExtractProfile bool   `mapstructure:"extract-profile"`
	ReviewProfile  bool   `mapstructure:"review-profile"`
}

type ResultsConfig struct {
	Dir  string `mapstructure:"dir"`
	XLSX bool   `mapstructure:"xlsx"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "interviewer conducts an adaptive, AI-scored interview grounded in a résumé and a knowledge base",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A missing .env is fine, the environment may already be set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if err := viper.BindEnv("gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}
	if err := viper.BindEnv("gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is interviewer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("gemini.model", "gemini-2.5-flash")
	viper.SetDefault("gemini.embedding-model", "text-embedding-004")
	viper.SetDefault("gemini.temperature", 0.7)
	viper.SetDefault("gemini.max-retries", 3)
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max-log-length", 200)

	viper.SetDefault("knowledge.cv-index", "vector_db_cv.json")
	viper.SetDefault("knowledge.knowledge-index", "vector_db_knowledge.json")
	viper.SetDefault("knowledge.top-k", 3)

	viper.SetDefault("interview.language", "English")
	viper.SetDefault("interview.extract-profile", true)
	viper.SetDefault("interview.review-profile", true)

	viper.SetDefault("results.dir", "results")
	viper.SetDefault("results.xlsx", false)
}

func initConfig() {
	if runCmd.CalledAs() == "" && indexCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every key has a default, so only an explicitly requested or broken config is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
