package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/internal/schedule/ports/services"
)

type mockSchedule[T any] struct {
	mock.Mock
}

func (m *mockSchedule[T]) Get(ctx context.Context, id int64) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockSchedule[T]) List(ctx context.Context, pageNumber, pageSize int) (*entities.Page[*T], error) {
	args := m.Called(ctx, pageNumber, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Page[*T]), args.Error(1)
}

func (m *mockSchedule[T]) Add(ctx context.Context, entry *T) (*T, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockSchedule[T]) Update(ctx context.Context, id int64, entry *T) (*T, error) {
	args := m.Called(ctx, id, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockSchedule[T]) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSchedule[T]) RoutesFromCity(ctx context.Context, city string) ([]string, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockSchedule[T]) CachedPages(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockBusUseCase struct {
	mockSchedule[entities.Bus]
}

type mockTrainUseCase struct {
	mockSchedule[entities.Train]
}

func (m *mockTrainUseCase) FindByCityPair(ctx context.Context, cityFrom, cityTo string) ([]*entities.Train, error) {
	args := m.Called(ctx, cityFrom, cityTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Train), args.Error(1)
}

type mockUserUseCase struct {
	mock.Mock
}

func (m *mockUserUseCase) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserUseCase) ListUsers(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *mockUserUseCase) Register(ctx context.Context, input api.UserInput) (*entities.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserUseCase) UpdateUser(ctx context.Context, id int64, input api.UserInput) (*entities.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockUserUseCase) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockAuthUseCase struct {
	mock.Mock
}

func (m *mockAuthUseCase) Authenticate(ctx context.Context, username, password string) (*entities.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *mockAuthUseCase) IssueToken(ctx context.Context, username, password string) (string, time.Time, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockAuthUseCase) ValidateToken(ctx context.Context, token string) (*services.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.Claims), args.Error(1)
}
