package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/interviewer/internal/ai/gemini"
	"github.com/spigell/interviewer/internal/knowledge"
	"github.com/spigell/interviewer/internal/logger"
)

var indexCmd = &cobra.Command{
	Use:   "index FILE...",
	Short: "Build a similarity index from plain-text documents",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().String("corpus", string(knowledge.CorpusKnowledge), "corpus of the documents: cv or knowledge")
	indexCmd.Flags().String("out", "", "index file to write (default is the configured index of the corpus)")
	indexCmd.Flags().Int("chunk-size", 1200, "maximum chunk length in characters")
	indexCmd.Flags().Int("chunk-overlap", 200, "characters shared by consecutive chunks")
}

func index(cmd *cobra.Command, files []string) {
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
	if config == nil || config.Gemini == nil || config.Knowledge == nil {
		logger.Fatal("config is required")
	}

	corpusFlag, _ := cmd.Flags().GetString("corpus")
	corpus := knowledge.Corpus(strings.ToLower(strings.TrimSpace(corpusFlag)))
	if !corpus.Valid() {
		logger.Fatal("unknown corpus", zap.String("corpus", corpusFlag), zap.String("hint", "use cv or knowledge"))
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = config.Knowledge.KnowledgeIndex
		if corpus == knowledge.CorpusCV {
			out = config.Knowledge.CVIndex
		}
	}

	size, _ := cmd.Flags().GetInt("chunk-size")
	overlap, _ := cmd.Flags().GetInt("chunk-overlap")

	client, err := newGeminiClient(ctx, config.Gemini)
	if err != nil {
		logger.Fatal("creating gemini client", zap.Error(err))
	}

	embedder := gemini.NewEmbedder(client, config.Gemini.EmbeddingModel, gemini.TaskRetrievalDocument, logger)

	builder := &knowledge.Builder{
		Splitter: knowledge.Splitter{Size: size, Overlap: overlap},
		Embedder: embedder,
		Model:    embedder.Model(),
		Logger:   logger,
	}

	idx, err := builder.Build(ctx, corpus, files)
	if err != nil {
		logger.Fatal("building the index", zap.Error(err))
	}

	if err := idx.Save(out); err != nil {
		logger.Fatal("saving the index", zap.String("path", out), zap.Error(err))
	}

	logger.Info("index saved",
		zap.String("corpus", string(corpus)),
		zap.String("path", out),
		zap.Int("chunks", len(idx.Chunks)),
		zap.Int("dimension", idx.Dimension),
	)
	fmt.Printf("%s index with %d chunk(s) written to %s\n", corpus, len(idx.Chunks), out)
}
