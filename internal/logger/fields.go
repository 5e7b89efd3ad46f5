package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured log field keys shared across the interviewer.
const (
	FieldProvider   = "ai_provider"
	FieldModel      = "ai_model"
	FieldSession    = "session_id"
	FieldQuestionID = "question_id"
	FieldCategory   = "question_category"
	FieldCorpus     = "corpus"
)

// nonEmpty returns a string field, or nothing when the trimmed value is empty.
func nonEmpty(key, value string) []zap.Field {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return []zap.Field{zap.String(key, value)}
}

// With attaches fields to logger. A nil logger is replaced with a no-op logger.
func With(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// AIFields describes the language model behind a log entry. Empty values are omitted.
func AIFields(provider, model string) []zap.Field {
	return append(nonEmpty(FieldProvider, provider), nonEmpty(FieldModel, model)...)
}

// WithAI attaches the AI provider and model to logger.
func WithAI(logger *zap.Logger, provider, model string) *zap.Logger {
	return With(logger, AIFields(provider, model)...)
}

// QuestionFields describes a single interview question.
func QuestionFields(id int, category string) []zap.Field {
	return append([]zap.Field{zap.Int(FieldQuestionID, id)}, nonEmpty(FieldCategory, category)...)
}

// Session names the interview session of a log entry.
func Session(id string) zap.Field {
	return zap.String(FieldSession, id)
}

// Corpus names the similarity index of a log entry.
func Corpus(name string) zap.Field {
	return zap.String(FieldCorpus, name)
}
