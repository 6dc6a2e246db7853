package resolver_test

import (
	"context"
	"strconv"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"jira_task_bot/internal/model"
)

type fakeDirectory struct {
	users map[string]model.ChatUser
	calls int
}

func (d *fakeDirectory) LookupUser(ctx context.Context, userID string) (*model.ChatUser, error) {
	d.calls++
	user, ok := d.users[userID]
	if !ok {
		return nil, goerr.New("user_not_found", goerr.T(model.TagDirectoryLookup))
	}
	return &user, nil
}

type fakeUserSearcher struct {
	accounts map[string][]model.TrackerUser
	err      error
	queries  []string
}

func (s *fakeUserSearcher) FindUsersByName(ctx context.Context, username string) ([]model.TrackerUser, error) {
	s.queries = append(s.queries, username)
	if s.err != nil {
		return nil, s.err
	}
	return s.accounts[username], nil
}

type fakeComponentStore struct {
	mu         sync.Mutex
	components []model.Component
	creates    int
	listErr    error
	createErr  error
}

func (s *fakeComponentStore) ProjectKey() string { return "OPS" }

func (s *fakeComponentStore) ListComponents(ctx context.Context) ([]model.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]model.Component(nil), s.components...), nil
}

func (s *fakeComponentStore) CreateComponent(ctx context.Context, name string) (*model.Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.creates++
	component := model.Component{ID: strconv.Itoa(20000 + s.creates), Name: name, ProjectKey: "OPS"}
	s.components = append(s.components, component)
	return &component, nil
}
