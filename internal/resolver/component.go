package resolver

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"

	"jira_task_bot/internal/logger"
	"jira_task_bot/internal/model"
	"jira_task_bot/internal/storage"
)

// ComponentStore lists and creates components of one Jira project
type ComponentStore interface {
	ProjectKey() string
	ListComponents(ctx context.Context) ([]model.Component, error)
	CreateComponent(ctx context.Context, name string) (*model.Component, error)
}

// ComponentResolver finds the component named after a project label, creating it when missing
type ComponentResolver struct {
	store  ComponentStore
	locker storage.Locker
}

// NewComponentResolver creates a ComponentResolver. The locker serializes list-then-create per label.
func NewComponentResolver(store ComponentStore, locker storage.Locker) *ComponentResolver {
	return &ComponentResolver{
		store:  store,
		locker: locker,
	}
}

// ResolveOrCreate returns the id of the component whose name equals label exactly
func (r *ComponentResolver) ResolveOrCreate(ctx context.Context, label string) (string, error) {
	if label == "" {
		return "", goerr.New("component label is empty", goerr.T(model.TagInvalidRequest))
	}

	unlock, err := r.locker.Lock(ctx, r.store.ProjectKey()+"/"+label)
	if err != nil {
		return "", goerr.Wrap(err, "failed to lock component", goerr.V("label", label))
	}
	defer unlock()

	components, err := r.store.ListComponents(ctx)
	if err != nil {
		return "", err
	}
	for _, component := range components {
		if component.Name == label {
			return component.ID, nil
		}
	}

	logger.GetLogger().Info("create new component", zap.String("name", label))
	created, err := r.store.CreateComponent(ctx, label)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
