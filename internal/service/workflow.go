package service

import (
	"context"
	"errors"

	"github.com/vilaca/profile-dashboard/internal/api"
	"github.com/vilaca/profile-dashboard/internal/domain"
)

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Workflow runs the two-stage authenticated fetch: token first, then profiles.
// Follows Single Responsibility Principle - only sequences the two API calls.
type Workflow struct {
	client api.Client
	logger Logger
}

// NewWorkflow creates a new workflow.
// Follows Dependency Injection - accepts dependencies via constructor.
func NewWorkflow(client api.Client, logger Logger) *Workflow {
	return &Workflow{
		client: client,
		logger: logger,
	}
}

// Run authenticates with username/password and then fetches profiles.
// It never returns a Go error: every outcome is a domain.Result.
func (w *Workflow) Run(ctx context.Context, username, password string) domain.Result {
	return w.RunObserved(ctx, username, password, nil)
}

// RunObserved is Run with a hook called between the two stages.
// onAuthenticated, when non-nil, receives the token before the fetch starts.
func (w *Workflow) RunObserved(ctx context.Context, username, password string, onAuthenticated func(domain.Token)) domain.Result {
	token, err := w.client.Authenticate(ctx, username, password)
	if err != nil {
		w.logger.Printf("Workflow: authentication failed: %v", err)
		return failureFrom(err)
	}

	if onAuthenticated != nil {
		onAuthenticated(token)
	}

	profiles, err := w.client.FetchProfiles(ctx, token)
	if err != nil {
		w.logger.Printf("Workflow: fetching profiles failed: %v", err)
		return failureFrom(err)
	}

	w.logger.Printf("Workflow: fetched %d profiles", len(profiles))
	return domain.Success(profiles)
}

// failureFrom converts any error into a failed Result.
// Unclassified errors are reported with their own message, like transport errors.
func failureFrom(err error) domain.Result {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domain.Failure(domainErr.Message)
	}
	return domain.Failure(err.Error())
}
