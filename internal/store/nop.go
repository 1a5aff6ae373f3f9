package store

import "github.com/amishk599/resumetailor/internal/model"

// NopStore is used when history is disabled. It records nothing and finds nothing.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Save(c model.Completion) error { return nil }
func (s *NopStore) List(limit int) ([]model.Completion, error) { return nil, nil }
func (s *NopStore) Get(id string) (model.Completion, error) {
	return model.Completion{}, ErrNotFound
}
