package dto

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"transportschedule/internal/schedule/domain/entities"
)

var cityPattern = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё]+(?:[ -][A-Za-zА-Яа-яЁё]+)*$`)

func cityRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.RuneLength(1, 100),
		validation.Match(cityPattern).Error("must contain only letters, spaces and hyphens"),
	}
}

// BusRequest - тело запроса на создание или изменение автобусного рейса.
type BusRequest struct {
	CityFrom    string     `json:"cityFrom"`
	CityTo      string     `json:"cityTo"`
	Price       *float64   `json:"price"`
	DepartureAt *Timestamp `json:"departureAt"`
	ArrivalAt   *Timestamp `json:"arrivalAt"`
}

// Validate проверяет поля запроса.
func (r BusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CityFrom, cityRules()...),
		validation.Field(&r.CityTo, cityRules()...),
		validation.Field(&r.Price, validation.NotNil, validation.Min(0.0), validation.Max(entities.MaxPrice)),
		validation.Field(&r.DepartureAt, validation.NotNil),
		validation.Field(&r.ArrivalAt, validation.NotNil),
	)
}

// ToEntity преобразует проверенный запрос в доменную сущность.
func (r BusRequest) ToEntity() *entities.Bus {
	return &entities.Bus{
		CityFrom:    r.CityFrom,
		CityTo:      r.CityTo,
		Price:       *r.Price,
		DepartureAt: r.DepartureAt.Time(),
		ArrivalAt:   r.ArrivalAt.Time(),
	}
}

// TrainRequest - тело запроса на создание или изменение поезда.
type TrainRequest struct {
	CityFrom    string     `json:"cityFrom"`
	CityTo      string     `json:"cityTo"`
	Price       *float64   `json:"price"`
	DepartureAt *Timestamp `json:"departureAt"`
	ArrivalAt   *Timestamp `json:"arrivalAt"`
	Stops       []string   `json:"stops"`
}

// Validate проверяет поля запроса, включая остановки.
func (r TrainRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CityFrom, cityRules()...),
		validation.Field(&r.CityTo, cityRules()...),
		validation.Field(&r.Price, validation.NotNil, validation.Min(0.0), validation.Max(entities.MaxPrice)),
		validation.Field(&r.DepartureAt, validation.NotNil),
		validation.Field(&r.ArrivalAt, validation.NotNil),
		validation.Field(&r.Stops,
			validation.Length(0, entities.MaxStops),
			validation.Each(cityRules()...)),
	)
}

// ToEntity преобразует проверенный запрос в доменную сущность.
func (r TrainRequest) ToEntity() *entities.Train {
	stops := make([]string, len(r.Stops))
	copy(stops, r.Stops)

	return &entities.Train{
		CityFrom:    r.CityFrom,
		CityTo:      r.CityTo,
		Price:       *r.Price,
		DepartureAt: r.DepartureAt.Time(),
		ArrivalAt:   r.ArrivalAt.Time(),
		Stops:       stops,
	}
}

// BusResponse - представление автобусного рейса.
type BusResponse struct {
	ID          int64     `json:"id"`
	CityFrom    string    `json:"cityFrom"`
	CityTo      string    `json:"cityTo"`
	Price       float64   `json:"price"`
	DepartureAt Timestamp `json:"departureAt"`
	ArrivalAt   Timestamp `json:"arrivalAt"`
}

// NewBusResponse строит ответ из сущности.
func NewBusResponse(bus *entities.Bus) BusResponse {
	return BusResponse{
		ID:          bus.ID,
		CityFrom:    bus.CityFrom,
		CityTo:      bus.CityTo,
		Price:       bus.Price,
		DepartureAt: NewTimestamp(bus.DepartureAt),
		ArrivalAt:   NewTimestamp(bus.ArrivalAt),
	}
}

// TrainResponse - представление поезда.
type TrainResponse struct {
	ID          int64     `json:"id"`
	CityFrom    string    `json:"cityFrom"`
	CityTo      string    `json:"cityTo"`
	Price       float64   `json:"price"`
	DepartureAt Timestamp `json:"departureAt"`
	ArrivalAt   Timestamp `json:"arrivalAt"`
	Stops       []string  `json:"stops"`
}

// NewTrainResponse строит ответ из сущности.
func NewTrainResponse(train *entities.Train) TrainResponse {
	stops := train.Stops
	if stops == nil {
		stops = []string{}
	}
	return TrainResponse{
		ID:          train.ID,
		CityFrom:    train.CityFrom,
		CityTo:      train.CityTo,
		Price:       train.Price,
		DepartureAt: NewTimestamp(train.DepartureAt),
		ArrivalAt:   NewTimestamp(train.ArrivalAt),
		Stops:       stops,
	}
}

// PageResponse - страница результатов.
type PageResponse[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPageResponse преобразует доменную страницу, применяя convert к каждому элементу.
func NewPageResponse[E any, T any](page *entities.Page[E], convert func(E) T) PageResponse[T] {
	content := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		content = append(content, convert(item))
	}
	return PageResponse[T]{
		Content:       content,
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: page.Total,
		TotalPages:    page.TotalPages(),
	}
}
