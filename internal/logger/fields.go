package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldCandidate is the structured log field key for the candidate name.
	FieldCandidate = "candidate"
	// FieldCandidateKey is the structured log field key for the result set key.
	FieldCandidateKey = "candidate_key"
	// FieldSearch is the structured log field key for the submission sequence number.
	FieldSearch = "search"
	// FieldOp is the structured log field key for the backend operation.
	FieldOp = "op"
	// FieldRequestID is the structured log field key for the X-Request-ID header.
	FieldRequestID = "request_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced by a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CandidateFields describes a candidate by name and result set key.
// Empty values are skipped.
func CandidateFields(name, key string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCandidate, Value: name},
		StringField{Key: FieldCandidateKey, Value: key},
	)
}

// WithCandidate attaches the candidate fields to the provided logger.
func WithCandidate(logger *zap.Logger, name, key string) *zap.Logger {
	return WithFields(logger, CandidateFields(name, key)...)
}

// RequestFields describes one backend call.
func RequestFields(op, requestID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldOp, Value: op},
		StringField{Key: FieldRequestID, Value: requestID},
	)
}
