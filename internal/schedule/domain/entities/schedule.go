package entities

import (
	"strings"
	"time"
)

// MaxStops - максимальное число промежуточных остановок поезда.
const MaxStops = 10

// MaxPrice - наибольшая цена, которую вмещает колонка NUMERIC(12, 2).
const MaxPrice = 9999999999.99

// Bus - рейс автобуса.
type Bus struct {
	ID          int64     `json:"id"`
	CityFrom    string    `json:"cityFrom"`
	CityTo      string    `json:"cityTo"`
	Price       float64   `json:"price"`
	DepartureAt time.Time `json:"departureAt"`
	ArrivalAt   time.Time `json:"arrivalAt"`
}

// Train - рейс поезда с упорядоченным списком промежуточных остановок.
type Train struct {
	ID          int64     `json:"id"`
	CityFrom    string    `json:"cityFrom"`
	CityTo      string    `json:"cityTo"`
	Price       float64   `json:"price"`
	DepartureAt time.Time `json:"departureAt"`
	ArrivalAt   time.Time `json:"arrivalAt"`
	Stops       []string  `json:"stops"`
}

// FormatRoute возвращает маршрут в виде "откуда - куда".
func FormatRoute(cityFrom, cityTo string) string {
	return cityFrom + " - " + cityTo
}

// Route возвращает маршрут автобуса.
func (b *Bus) Route() string {
	return FormatRoute(b.CityFrom, b.CityTo)
}

// Route возвращает маршрут поезда.
func (t *Train) Route() string {
	return FormatRoute(t.CityFrom, t.CityTo)
}

// Validate проверяет поля рейса автобуса.
func (b *Bus) Validate() error {
	return validateTrip(b.CityFrom, b.CityTo, b.Price)
}

// Validate проверяет поля рейса поезда, включая остановки.
func (t *Train) Validate() error {
	if err := validateTrip(t.CityFrom, t.CityTo, t.Price); err != nil {
		return err
	}
	if len(t.Stops) > MaxStops {
		return &ValidationError{Field: "stops", Err: ErrTooManyStops}
	}
	for _, stop := range t.Stops {
		if strings.TrimSpace(stop) == "" {
			return &ValidationError{Field: "stops", Err: ErrEmptyCity}
		}
	}
	return nil
}

func validateTrip(cityFrom, cityTo string, price float64) error {
	if strings.TrimSpace(cityFrom) == "" {
		return &ValidationError{Field: "cityFrom", Err: ErrEmptyCity}
	}
	if strings.TrimSpace(cityTo) == "" {
		return &ValidationError{Field: "cityTo", Err: ErrEmptyCity}
	}
	if price < 0 {
		return &ValidationError{Field: "price", Err: ErrNegativePrice}
	}
	if price > MaxPrice {
		return &ValidationError{Field: "price", Err: ErrPriceTooHigh}
	}
	return nil
}

// Page - страница результатов постраничного запроса.
type Page[T any] struct {
	Items  []T   `json:"items"`
	Number int   `json:"number"`
	Size   int   `json:"size"`
	Total  int64 `json:"total"`
}

// TotalPages возвращает число страниц при текущем размере.
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
