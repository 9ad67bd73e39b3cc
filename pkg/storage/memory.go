package storage

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/structlearn/structlearn/pkg/errors"
)

type inMemoryStorage struct {
	sync.Mutex

	data map[string][]byte
}

func NewInMemoryStorage() Storage {
	return &inMemoryStorage{
		data: make(map[string][]byte),
	}
}

func (s *inMemoryStorage) Put(_ context.Context, key string, value []byte) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	s.data[key] = append([]byte(nil), value...)

	return nil
}

func (s *inMemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if val, ok := s.data[key]; ok {
		return append([]byte(nil), val...), nil
	}

	return nil, errors.ErrNotFound
}

func (s *inMemoryStorage) Keys(_ context.Context, prefix string) ([]string, error) {
	s.Lock()
	defer s.Unlock()

	keys := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

func (s *inMemoryStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.ErrEmptyKey
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.data[key]; !ok {
		return errors.ErrNotFound
	}
	delete(s.data, key)

	return nil
}

func (s *inMemoryStorage) Close() error {
	return nil
}
