package blob

import (
	"context"
	"io"
	"io/fs"
	"os"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, key string, contentType string, data io.Reader) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockStore) Open(key string) (*os.File, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*os.File), args.Error(1)
}

func (m *MockStore) Stat(key string) (fs.FileInfo, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(fs.FileInfo), args.Error(1)
}

func (m *MockStore) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockStore) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockStore) Bucket() string {
	args := m.Called()
	return args.String(0)
}
