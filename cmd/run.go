package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/interviewer/internal/ai/gemini"
	"github.com/spigell/interviewer/internal/interview"
	"github.com/spigell/interviewer/internal/knowledge"
	"github.com/spigell/interviewer/internal/logger"
	"github.com/spigell/interviewer/internal/prompts"
	"github.com/spigell/interviewer/internal/results"
	"github.com/spigell/interviewer/internal/secrets"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interview session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("cv-index", "", "similarity index of the résumé corpus")
	runCmd.Flags().String("knowledge-index", "", "similarity index of the knowledge corpus")

	viper.BindPFlag("knowledge.cv-index", runCmd.Flags().Lookup("cv-index"))
	viper.BindPFlag("knowledge.knowledge-index", runCmd.Flags().Lookup("knowledge-index"))
}

// run conducts one interview session.
func run(_ *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config == nil || config.Gemini == nil || config.Knowledge == nil || config.Interview == nil || config.Results == nil {
		logger.Fatal("config is required")
	}

	logger.Info("starting the interviewer", zap.String("version", version))

	// the api key is never printed
	redacted := *config.Gemini
	redacted.APIKey = ""
	pretty, _ := json.MarshalIndent(redacted, "", "  ")
	logger.Debug(fmt.Sprintf("starting with gemini config: \n %s", pretty))

	client, err := newGeminiClient(ctx, config.Gemini)
	if err != nil {
		logger.Fatal(
			"creating gemini client",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or the 'gemini.api-key-file' key in the configuration file"),
		)
	}

	generator := gemini.NewGenerator(client, gemini.Options{
		Model:        config.Gemini.Model,
		Temperature:  config.Gemini.Temperature,
		MaxRetries:   config.Gemini.MaxRetries,
		Timeout:      config.Gemini.Timeout,
		MaxLogLength: config.Gemini.MaxLogLength,
	}, logger)
	logger.Info("gemini generator ready", zap.String("model", generator.Model()))

	queryEmbedder := gemini.NewEmbedder(client, config.Gemini.EmbeddingModel, gemini.TaskRetrievalQuery, logger)

	retriever, err := knowledge.Open(config.Knowledge.CVIndex, config.Knowledge.KnowledgeIndex, queryEmbedder, logger)
	if err != nil {
		logger.Fatal("loading similarity indices",
			zap.Error(err),
			zap.String("hint", "build them with 'interviewer index --corpus cv|knowledge'"),
		)
	}

	composer := prompts.NewComposer(config.Interview.Language)
	topK := config.Knowledge.TopK

	profiles := promptProfile{out: os.Stdout, review: config.Interview.ReviewProfile}
	if config.Interview.ExtractProfile {
		profiles.extractor = interview.NewProfileExtractor(retriever, generator, composer, topK, logger)
	}

	out := console{out: os.Stdout}

	conductor := interview.New(interview.Deps{
		Profiles:  profiles,
		Questions: interview.NewBankBuilder(retriever, generator, composer, topK, logger),
		Answers:   promptAnswers{},
		Scorer:    interview.NewScorer(retriever, generator, composer, topK, logger),
		Exporter: &results.Exporter{
			Dir:     config.Results.Dir,
			Version: version,
			XLSX:    config.Results.XLSX,
			Logger:  logger,
		},
		Observer: out,
		Logger:   logger,
	})
	conductor.Position = config.Interview.Position

	res, err := conductor.Run(ctx)
	if err != nil {
		if errors.Is(err, knowledge.ErrIndexUnavailable) {
			logger.Fatal("similarity index unavailable", zap.Error(err))
		}
		logger.Fatal("interview aborted", zap.Error(err), zap.String("reason", "no results were saved"))
	}

	out.summary(res)

	if res.ExportErr != nil {
		logger.Error("results were not saved", zap.Error(res.ExportErr))
	}
}

func newGeminiClient(ctx context.Context, cfg *GeminiConfig) (*genai.Client, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	return gemini.NewClient(ctx, apiKey)
}
