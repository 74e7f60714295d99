package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"transportschedule/internal/schedule/adapters/cache"
	"transportschedule/internal/schedule/app"
	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
)

var errDatabaseOperation = errors.New("database error")

func newTrainUseCase(t *testing.T) (*miniredis.Miniredis, *mockTrainRepository, api.TrainUseCase) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	store := cache.NewRedisStore(client)
	t.Cleanup(func() { _ = store.Close() })

	repo := new(mockTrainRepository)
	settings := app.CacheSettings{
		Keys: app.CacheKeys{EntityPrefix: "Train:", PagePrefix: "trainsPage:"},
		TTL:  30 * time.Minute,
	}
	return srv, repo, app.NewTrainUseCase(repo, store, settings)
}

func sampleTrain(id int64, stops ...string) *entities.Train {
	return &entities.Train{
		ID:          id,
		CityFrom:    "Moscow",
		CityTo:      "Kazan",
		Price:       2500,
		DepartureAt: time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC),
		ArrivalAt:   time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		Stops:       stops,
	}
}

func TestTrainUseCase_CachesWithOwnKeys(t *testing.T) {
	ctx := context.Background()
	srv, repo, uc := newTrainUseCase(t)

	train := sampleTrain(1, "Vladimir", "Nizhny Novgorod")
	repo.On("FindByID", mock.Anything, int64(1)).Return(train, nil).Once()

	first, err := uc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, train, first)
	assert.True(t, srv.Exists("Train:1"))

	second, err := uc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vladimir", "Nizhny Novgorod"}, second.Stops)
	repo.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestTrainUseCase_AddRejectsTooManyStops(t *testing.T) {
	ctx := context.Background()
	_, repo, uc := newTrainUseCase(t)

	stops := make([]string, entities.MaxStops+1)
	for i := range stops {
		stops[i] = "Stop"
	}

	_, err := uc.Add(ctx, sampleTrain(0, stops...))
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrTooManyStops)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTrainUseCase_FindByCityPair(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		setupMocks  func(repo *mockTrainRepository)
		expectedLen int
		expectedErr error
	}{
		{
			name: "success - matching trains returned",
			setupMocks: func(repo *mockTrainRepository) {
				repo.On("FindByCityPair", mock.Anything, "Vladimir", "Kazan").
					Return([]*entities.Train{sampleTrain(1, "Vladimir")}, nil).Once()
			},
			expectedLen: 1,
		},
		{
			name: "success - no match gives empty list",
			setupMocks: func(repo *mockTrainRepository) {
				repo.On("FindByCityPair", mock.Anything, "Vladimir", "Kazan").
					Return(nil, nil).Once()
			},
			expectedLen: 0,
		},
		{
			name: "error - store failure",
			setupMocks: func(repo *mockTrainRepository) {
				repo.On("FindByCityPair", mock.Anything, "Vladimir", "Kazan").
					Return(nil, errDatabaseOperation).Once()
			},
			expectedErr: errDatabaseOperation,
		},
	}

	for _, ttt := range tests {
		t.Run(ttt.name, func(t *testing.T) {
			srv, repo, uc := newTrainUseCase(t)
			ttt.setupMocks(repo)

			trains, err := uc.FindByCityPair(ctx, "Vladimir", "Kazan")
			if ttt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, ttt.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, trains)
			assert.Len(t, trains, ttt.expectedLen)
			assert.Empty(t, srv.Keys())
			repo.AssertExpectations(t)
		})
	}
}
