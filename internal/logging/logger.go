// Package logging builds the zap logger shared by the API and worker
// processes.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a JSON production logger for "prod"/"production" and a
// human-readable development logger otherwise.
func New(env string) (*zap.Logger, error) {
	switch strings.ToLower(env) {
	case "prod", "production":
		return zap.NewProduction()
	case "test":
		return zap.NewNop(), nil
	default:
		return zap.NewDevelopment()
	}
}
