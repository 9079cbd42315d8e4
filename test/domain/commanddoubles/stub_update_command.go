//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/khulnasoft/dependency-toolkit/internal/domain/commands"
	"github.com/khulnasoft/dependency-toolkit/internal/domain/entities"
)

// StubUpdateCommand is a stub implementation of commands.Update.
type StubUpdateCommand struct {
	ExecuteCallCount int
	ExecuteResult    entities.UpdateOperationResult
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastRequest      entities.UpdateRequest
}

var _ commands.Update = (*StubUpdateCommand)(nil)

func (s *StubUpdateCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	request entities.UpdateRequest,
) (entities.UpdateOperationResult, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastRequest = request
	return s.ExecuteResult, s.ExecuteErr
}
