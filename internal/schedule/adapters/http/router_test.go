package http_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	schedulehttp "transportschedule/internal/schedule/adapters/http"
	"transportschedule/internal/schedule/adapters/http/middleware"
	"transportschedule/internal/schedule/domain/entities"
	"transportschedule/internal/schedule/ports/api"
	"transportschedule/internal/schedule/ports/services"
)

type testServer struct {
	app    *fiber.App
	buses  *mockBusUseCase
	trains *mockTrainUseCase
	users  *mockUserUseCase
	auth   *mockAuthUseCase
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	srv := &testServer{
		app:    fiber.New(),
		buses:  new(mockBusUseCase),
		trains: new(mockTrainUseCase),
		users:  new(mockUserUseCase),
		auth:   new(mockAuthUseCase),
	}

	srv.auth.On("Authenticate", mock.Anything, "admin", "admin-pass").
		Return(&entities.User{ID: 1, Username: "admin", Role: entities.RoleAdmin}, nil).Maybe()
	srv.auth.On("Authenticate", mock.Anything, "ivan", "ivan-pass").
		Return(&entities.User{ID: 2, Username: "ivan", Role: entities.RoleUser}, nil).Maybe()
	srv.auth.On("Authenticate", mock.Anything, "admin", "wrong").
		Return(nil, entities.ErrInvalidCredentials).Maybe()
	srv.auth.On("ValidateToken", mock.Anything, "admin-token").
		Return(&services.Claims{UserID: 1, Username: "admin", Role: entities.RoleAdmin}, nil).Maybe()
	srv.auth.On("ValidateToken", mock.Anything, "expired").
		Return(nil, entities.ErrInvalidToken).Maybe()

	schedulehttp.SetupRouter(srv.app, schedulehttp.Services{
		Buses:  srv.buses,
		Trains: srv.trains,
		Users:  srv.users,
		Auth:   srv.auth,
	}, schedulehttp.PageSettings{DefaultSize: 10, MaxSize: 100})

	return srv
}

func (s *testServer) do(t *testing.T, method, target, body string, headers ...string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(data)
}

func basic(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func testBus(id int64) *entities.Bus {
	return &entities.Bus{
		ID:          id,
		CityFrom:    "Moscow",
		CityTo:      "Tver",
		Price:       750,
		DepartureAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		ArrivalAt:   time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC),
	}
}

const validBusBody = `{
	"cityFrom": "Moscow",
	"cityTo": "Tver",
	"price": 750,
	"departureAt": "01.06.2025 09:00",
	"arrivalAt": "01.06.2025 12:30"
}`

func TestBusRoutes_Read(t *testing.T) {
	t.Run("get by id uses wire timestamp format", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("Get", mock.Anything, int64(1)).Return(testBus(1), nil).Once()

		resp, body := srv.do(t, http.MethodGet, "/api/buses/1", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{
			"id": 1, "cityFrom": "Moscow", "cityTo": "Tver", "price": 750,
			"departureAt": "01.06.2025 09:00", "arrivalAt": "01.06.2025 12:30"
		}`, body)
		assert.NotEmpty(t, resp.Header.Get(middleware.HeaderRequestID))
	})

	t.Run("request id is echoed", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("Get", mock.Anything, int64(1)).Return(testBus(1), nil).Once()

		resp, _ := srv.do(t, http.MethodGet, "/api/buses/1", "", middleware.HeaderRequestID, "req-42")
		assert.Equal(t, "req-42", resp.Header.Get(middleware.HeaderRequestID))
	})

	t.Run("oversized request id is replaced", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("Get", mock.Anything, int64(1)).Return(testBus(1), nil).Once()

		incoming := strings.Repeat("x", 200)
		resp, _ := srv.do(t, http.MethodGet, "/api/buses/1", "", middleware.HeaderRequestID, incoming)
		got := resp.Header.Get(middleware.HeaderRequestID)
		assert.NotEmpty(t, got)
		assert.NotEqual(t, incoming, got)
	})

	t.Run("non numeric id", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodGet, "/api/buses/abc", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing bus", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("Get", mock.Anything, int64(9)).
			Return(nil, entities.NewNotFoundError(entities.KindBus, 9)).Once()

		resp, body := srv.do(t, http.MethodGet, "/api/buses/9", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "bus with id 9 not found")
	})

	t.Run("page defaults and size cap", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("List", mock.Anything, 0, 10).Return(&entities.Page[*entities.Bus]{
			Items: []*entities.Bus{testBus(1)}, Number: 0, Size: 10, Total: 11,
		}, nil).Once()
		srv.buses.On("List", mock.Anything, 2, 100).Return(&entities.Page[*entities.Bus]{
			Items: []*entities.Bus{}, Number: 2, Size: 100, Total: 11,
		}, nil).Once()

		resp, body := srv.do(t, http.MethodGet, "/api/buses", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page map[string]any
		require.NoError(t, json.Unmarshal([]byte(body), &page))
		assert.EqualValues(t, 11, page["totalElements"])
		assert.EqualValues(t, 2, page["totalPages"])
		assert.Len(t, page["content"], 1)

		resp, body = srv.do(t, http.MethodGet, "/api/buses?page=2&size=500", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `"content":[]`)
		srv.buses.AssertExpectations(t)
	})

	t.Run("negative page", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodGet, "/api/buses?page=-1", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("routes from city", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("RoutesFromCity", mock.Anything, "Moscow").
			Return([]string{"Moscow - Tver", "Moscow - Kazan"}, nil).Once()

		resp, body := srv.do(t, http.MethodGet, "/api/buses/route?city=Moscow", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `["Moscow - Tver", "Moscow - Kazan"]`, body)
	})
}

func TestBusRoutes_Write(t *testing.T) {
	t.Run("anonymous write is rejected", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodPost, "/api/buses", validBusBody)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderWWWAuthenticate))
		srv.buses.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodPost, "/api/buses", validBusBody,
			fiber.HeaderAuthorization, basic("admin", "wrong"))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("plain user is forbidden", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodPost, "/api/buses", validBusBody,
			fiber.HeaderAuthorization, basic("ivan", "ivan-pass"))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin creates bus", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("Add", mock.Anything, mock.MatchedBy(func(b *entities.Bus) bool {
			return b.CityFrom == "Moscow" && b.DepartureAt.Equal(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
		})).Return(testBus(5), nil).Once()

		resp, body := srv.do(t, http.MethodPost, "/api/buses", validBusBody,
			fiber.HeaderAuthorization, basic("admin", "admin-pass"))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Contains(t, body, `"id":5`)
	})

	t.Run("invalid body reports field errors", func(t *testing.T) {
		srv := newTestServer(t)
		body := strings.Replace(validBusBody, `"Moscow"`, `"Moscow1"`, 1)

		resp, respBody := srv.do(t, http.MethodPost, "/api/buses", body,
			fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, respBody, "cityFrom")
		srv.buses.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("price beyond column range is a bad request", func(t *testing.T) {
		srv := newTestServer(t)
		body := strings.Replace(validBusBody, `"price": 750`, `"price": 10000000000`, 1)

		resp, respBody := srv.do(t, http.MethodPost, "/api/buses", body,
			fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, respBody, "price")
		srv.buses.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodDelete, "/api/buses/3", "",
			fiber.HeaderAuthorization, "Bearer expired")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("update missing bus", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("Update", mock.Anything, int64(8), mock.Anything).
			Return(nil, entities.NewNotFoundError(entities.KindBus, 8)).Once()

		resp, _ := srv.do(t, http.MethodPut, "/api/buses/8", validBusBody,
			fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete then delete again", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("Delete", mock.Anything, int64(3)).Return(nil).Once()
		srv.buses.On("Delete", mock.Anything, int64(3)).
			Return(entities.NewNotFoundError(entities.KindBus, 3)).Once()

		resp, _ := srv.do(t, http.MethodDelete, "/api/buses/3", "",
			fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = srv.do(t, http.MethodDelete, "/api/buses/3", "",
			fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestTrainRoutes(t *testing.T) {
	train := &entities.Train{
		ID:          2,
		CityFrom:    "Moscow",
		CityTo:      "Kazan",
		Price:       2500,
		DepartureAt: time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC),
		ArrivalAt:   time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
		Stops:       []string{"Vladimir", "Nizhny Novgorod"},
	}

	t.Run("search by city pair", func(t *testing.T) {
		srv := newTestServer(t)
		srv.trains.On("FindByCityPair", mock.Anything, "Vladimir", "Kazan").
			Return([]*entities.Train{train}, nil).Once()

		resp, body := srv.do(t, http.MethodGet, "/api/trains/search?cityFrom=Vladimir&cityTo=Kazan", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `"stops":["Vladimir","Nizhny Novgorod"]`)
	})

	t.Run("search without match gives empty list", func(t *testing.T) {
		srv := newTestServer(t)
		srv.trains.On("FindByCityPair", mock.Anything, "Omsk", "Kazan").
			Return([]*entities.Train{}, nil).Once()

		resp, body := srv.do(t, http.MethodGet, "/api/trains/search?cityFrom=Omsk&cityTo=Kazan", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `[]`, body)
	})

	t.Run("search needs both cities", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodGet, "/api/trains/search?cityFrom=Moscow", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("too many stops", func(t *testing.T) {
		srv := newTestServer(t)
		stops := make([]string, entities.MaxStops+1)
		for i := range stops {
			stops[i] = `"Vladimir"`
		}
		body := `{"cityFrom":"Moscow","cityTo":"Kazan","price":1,` +
			`"departureAt":"01.06.2025 22:00","arrivalAt":"02.06.2025 09:00",` +
			`"stops":[` + strings.Join(stops, ",") + `]}`

		resp, respBody := srv.do(t, http.MethodPost, "/api/trains", body,
			fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, respBody, "stops")
	})
}

func TestUserRoutes(t *testing.T) {
	t.Run("self registration is public and forced to USER", func(t *testing.T) {
		srv := newTestServer(t)
		srv.users.On("Register", mock.Anything, api.UserInput{Username: "petr", Password: "pw", Role: entities.RoleAdmin}).
			Return(&entities.User{ID: 3, Username: "petr", PasswordHash: "hash", Role: entities.RoleUser}, nil).Once()

		resp, body := srv.do(t, http.MethodPost, "/api/users", `{"username":"petr","password":"pw","role":"ADMIN"}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.JSONEq(t, `{"id":3,"username":"petr","role":"USER"}`, body)
	})

	t.Run("taken username conflicts", func(t *testing.T) {
		srv := newTestServer(t)
		srv.users.On("Register", mock.Anything, mock.Anything).Return(nil, entities.ErrUsernameTaken).Once()

		resp, _ := srv.do(t, http.MethodPost, "/api/users", `{"username":"petr","password":"pw"}`)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("listing users needs admin", func(t *testing.T) {
		srv := newTestServer(t)
		srv.users.On("ListUsers", mock.Anything).
			Return([]*entities.User{{ID: 1, Username: "admin", PasswordHash: "h", Role: entities.RoleAdmin}}, nil).Once()

		resp, _ := srv.do(t, http.MethodGet, "/api/users", "", fiber.HeaderAuthorization, basic("ivan", "ivan-pass"))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, body := srv.do(t, http.MethodGet, "/api/users", "", fiber.HeaderAuthorization, basic("admin", "admin-pass"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotContains(t, body, "password")
	})

	t.Run("delete missing user", func(t *testing.T) {
		srv := newTestServer(t)
		srv.users.On("DeleteUser", mock.Anything, int64(7)).
			Return(entities.NewNotFoundError(entities.KindUser, 7)).Once()

		resp, _ := srv.do(t, http.MethodDelete, "/api/users/7", "", fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAuthAndCacheRoutes(t *testing.T) {
	t.Run("token exchange", func(t *testing.T) {
		srv := newTestServer(t)
		expiresAt := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		srv.auth.On("IssueToken", mock.Anything, "ivan", "ivan-pass").Return("jwt-value", expiresAt, nil).Once()

		resp, body := srv.do(t, http.MethodPost, "/api/auth/token", "", fiber.HeaderAuthorization, basic("ivan", "ivan-pass"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, `"access_token":"jwt-value"`)
		assert.Contains(t, body, `"token_type":"Bearer"`)
	})

	t.Run("token exchange without credentials", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodPost, "/api/auth/token", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("cached pages per kind", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("CachedPages", mock.Anything).Return(2, nil).Once()
		srv.trains.On("CachedPages", mock.Anything).Return(0, nil).Once()

		resp, body := srv.do(t, http.MethodGet, "/api/cache/pages", "", fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"buses":2,"trains":0}`, body)
	})

	t.Run("cache down", func(t *testing.T) {
		srv := newTestServer(t)
		srv.buses.On("CachedPages", mock.Anything).Return(0, entities.ErrCacheUnavailable).Maybe()
		srv.trains.On("CachedPages", mock.Anything).Return(0, entities.ErrCacheUnavailable).Maybe()

		resp, _ := srv.do(t, http.MethodGet, "/api/cache/pages", "", fiber.HeaderAuthorization, "Bearer admin-token")
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("unknown route", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := srv.do(t, http.MethodGet, "/api/planes", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
