package app_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"transportschedule/internal/schedule/domain/entities"
	svc "transportschedule/internal/schedule/ports/services"
)

type mockBusRepository struct {
	mock.Mock
}

func (m *mockBusRepository) Create(ctx context.Context, entry *entities.Bus) (*entities.Bus, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bus), args.Error(1)
}

func (m *mockBusRepository) FindByID(ctx context.Context, id int64) (*entities.Bus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bus), args.Error(1)
}

func (m *mockBusRepository) Update(ctx context.Context, id int64, entry *entities.Bus) (*entities.Bus, error) {
	args := m.Called(ctx, id, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bus), args.Error(1)
}

func (m *mockBusRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBusRepository) ListPage(ctx context.Context, pageNumber, pageSize int) (*entities.Page[*entities.Bus], error) {
	args := m.Called(ctx, pageNumber, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Page[*entities.Bus]), args.Error(1)
}

func (m *mockBusRepository) FindByOrigin(ctx context.Context, city string) ([]*entities.Bus, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bus), args.Error(1)
}

type mockTrainRepository struct {
	mock.Mock
}

func (m *mockTrainRepository) Create(ctx context.Context, entry *entities.Train) (*entities.Train, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Train), args.Error(1)
}

func (m *mockTrainRepository) FindByID(ctx context.Context, id int64) (*entities.Train, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Train), args.Error(1)
}

func (m *mockTrainRepository) Update(ctx context.Context, id int64, entry *entities.Train) (*entities.Train, error) {
	args := m.Called(ctx, id, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Train), args.Error(1)
}

func (m *mockTrainRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockTrainRepository) ListPage(ctx context.Context, pageNumber, pageSize int) (*entities.Page[*entities.Train], error) {
	args := m.Called(ctx, pageNumber, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Page[*entities.Train]), args.Error(1)
}

func (m *mockTrainRepository) FindByOrigin(ctx context.Context, city string) ([]*entities.Train, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Train), args.Error(1)
}

func (m *mockTrainRepository) FindByCityPair(ctx context.Context, cityFrom, cityTo string) ([]*entities.Train, error) {
	args := m.Called(ctx, cityFrom, cityTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Train), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPasswordService struct {
	mock.Mock
}

func (m *mockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateAccessToken(ctx context.Context, user *entities.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(ctx context.Context, token string) (*svc.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*svc.Claims), args.Error(1)
}
