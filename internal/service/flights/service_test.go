package flights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tmarkov/flightdesk/internal/apperr"
	"github.com/tmarkov/flightdesk/internal/domain"
)

type mockFlightRepo struct{ mock.Mock }

func (m *mockFlightRepo) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *mockFlightRepo) Create(ctx context.Context, flight *domain.Flight) (int64, error) {
	args := m.Called(ctx, flight)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockFlightRepo) Update(ctx context.Context, id int64, fields map[string]any) error {
	return m.Called(ctx, id, fields).Error(0)
}

func (m *mockFlightRepo) ListByAirline(ctx context.Context, airlineID int64, limit, offset int) ([]domain.Flight, error) {
	args := m.Called(ctx, airlineID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *mockFlightRepo) CountByAirline(ctx context.Context, airlineID int64) (int, error) {
	args := m.Called(ctx, airlineID)
	return args.Int(0), args.Error(1)
}

func (m *mockFlightRepo) Search(ctx context.Context, departureAirportID, arrivalAirportID int64, date time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, departureAirportID, arrivalAirportID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type mockPlaneRepo struct{ mock.Mock }

func (m *mockPlaneRepo) GetByID(ctx context.Context, id int64) (*domain.Plane, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plane), args.Error(1)
}

func (m *mockPlaneRepo) Create(ctx context.Context, plane *domain.Plane) (int64, error) {
	args := m.Called(ctx, plane)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPlaneRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockAirportRepo struct{ mock.Mock }

func (m *mockAirportRepo) GetByID(ctx context.Context, id int64) (*domain.Airport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *mockAirportRepo) List(ctx context.Context, limit, offset int) ([]domain.Airport, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *mockAirportRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockAirportRepo) Search(ctx context.Context, query string, limit, offset int) ([]domain.Airport, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *mockAirportRepo) SearchCount(ctx context.Context, query string) (int, error) {
	args := m.Called(ctx, query)
	return args.Int(0), args.Error(1)
}

type mockReservationLister struct{ mock.Mock }

func (m *mockReservationLister) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *mockReservationLister) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *mockReservationLister) CountByUser(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockReservationLister) ListByFlight(ctx context.Context, flightID int64) ([]domain.Reservation, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *mockReservationLister) Create(ctx context.Context, reservation *domain.Reservation) (int64, error) {
	args := m.Called(ctx, reservation)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReservationLister) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReservationLister) FlownFlightsByUser(ctx context.Context, userID int64) ([]domain.FlownFlight, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlownFlight), args.Error(1)
}

type fixture struct {
	flights      *mockFlightRepo
	planes       *mockPlaneRepo
	airports     *mockAirportRepo
	reservations *mockReservationLister
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		flights:      new(mockFlightRepo),
		planes:       new(mockPlaneRepo),
		airports:     new(mockAirportRepo),
		reservations: new(mockReservationLister),
	}
	f.svc = NewService(f.flights, f.planes, f.airports, f.reservations)
	return f
}

func (f *fixture) expectDetails() {
	f.planes.On("GetByID", mock.Anything, mock.AnythingOfType("int64")).Return(&domain.Plane{ID: 7, AirlineID: 2}, nil)
	f.airports.On("GetByID", mock.Anything, mock.AnythingOfType("int64")).Return(&domain.Airport{ID: 1}, nil)
}

func TestCreateRejectsInvalidPrice(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), CreateInput{
		Price:              "cheap",
		DepartureTime:      "2026-09-01 10:00:00",
		ArrivalTime:        "2026-09-01 12:00:00",
		PlaneID:            7,
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	f.flights.AssertNotCalled(t, "Create")
}

func TestCreateRejectsArrivalBeforeDeparture(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), CreateInput{
		Price:              "[Economy 100.00]",
		DepartureTime:      "2026-09-01 12:00:00",
		ArrivalTime:        "2026-09-01 10:00:00",
		PlaneID:            7,
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateRejectsSameAirports(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), CreateInput{
		Price:              "[Economy 100.00]",
		DepartureTime:      "2026-09-01 10:00:00",
		ArrivalTime:        "2026-09-01 12:00:00",
		PlaneID:            7,
		DepartureAirportID: 1,
		ArrivalAirportID:   1,
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreatePersistsFlight(t *testing.T) {
	f := newFixture()
	f.expectDetails()

	f.flights.On("Create", mock.Anything, mock.MatchedBy(func(fl *domain.Flight) bool {
		return fl.Price == "[Economy 100.00] [Business 250.00]" && fl.ArrivalTime.After(fl.DepartureTime)
	})).Return(int64(12), nil)

	details, err := f.svc.Create(context.Background(), CreateInput{
		Price:              "[Economy 100.00] [Business 250.00]",
		DepartureTime:      "2026-09-01 10:00:00",
		ArrivalTime:        "2026-09-01 12:00:00",
		PlaneID:            7,
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), details.ID)
}

func TestUpdateIgnoresUnknownFields(t *testing.T) {
	f := newFixture()
	f.expectDetails()

	f.flights.On("Update", mock.Anything, int64(12), map[string]any{"cancelled": true}).Return(nil)
	f.flights.On("GetByID", mock.Anything, int64(12)).Return(&domain.Flight{ID: 12, PlaneID: 7, DepartureAirportID: 1, ArrivalAirportID: 2, Cancelled: true}, nil)

	details, err := f.svc.Update(context.Background(), 12, map[string]any{
		"cancelled": true,
		"bogus":     "ignored",
	})
	require.NoError(t, err)
	assert.True(t, details.Cancelled)
}

func TestUpdateRejectsBadFieldValue(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), 12, map[string]any{"departureTime": "not a time"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	f.flights.AssertNotCalled(t, "Update")
}

func TestUpdateConvertsJSONNumbers(t *testing.T) {
	f := newFixture()
	f.expectDetails()

	f.flights.On("Update", mock.Anything, int64(12), map[string]any{"plane_id": int64(9)}).Return(nil)
	f.flights.On("GetByID", mock.Anything, int64(12)).Return(&domain.Flight{ID: 12, PlaneID: 9, DepartureAirportID: 1, ArrivalAirportID: 2}, nil)

	_, err := f.svc.Update(context.Background(), 12, map[string]any{"planeId": float64(9)})
	require.NoError(t, err)
	f.flights.AssertExpectations(t)
}

func TestSearchOneWay(t *testing.T) {
	f := newFixture()
	f.expectDetails()

	date, _ := time.Parse("2006-01-02", "2026-09-01")
	f.flights.On("Search", mock.Anything, int64(1), int64(2), date).
		Return([]domain.Flight{{ID: 12, PlaneID: 7, DepartureAirportID: 1, ArrivalAirportID: 2}}, nil)

	result, err := f.svc.Search(context.Background(), SearchParams{
		Type:               "oneway",
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
		DepartureDate:      "2026-09-01",
	})
	require.NoError(t, err)
	assert.Len(t, result.DepartureFlights, 1)
	assert.Empty(t, result.ReturnFlights)
}

func TestSearchReturnRequiresReturnDate(t *testing.T) {
	f := newFixture()
	f.expectDetails()

	date, _ := time.Parse("2006-01-02", "2026-09-01")
	f.flights.On("Search", mock.Anything, int64(1), int64(2), date).Return([]domain.Flight{}, nil)

	_, err := f.svc.Search(context.Background(), SearchParams{
		Type:               "return",
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
		DepartureDate:      "2026-09-01",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestSearchReturnQueriesReversedRoute(t *testing.T) {
	f := newFixture()
	f.expectDetails()

	out, _ := time.Parse("2006-01-02", "2026-09-01")
	back, _ := time.Parse("2006-01-02", "2026-09-08")
	f.flights.On("Search", mock.Anything, int64(1), int64(2), out).
		Return([]domain.Flight{{ID: 12, PlaneID: 7, DepartureAirportID: 1, ArrivalAirportID: 2}}, nil)
	f.flights.On("Search", mock.Anything, int64(2), int64(1), back).
		Return([]domain.Flight{{ID: 13, PlaneID: 7, DepartureAirportID: 2, ArrivalAirportID: 1}}, nil)

	result, err := f.svc.Search(context.Background(), SearchParams{
		Type:               "return",
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
		DepartureDate:      "2026-09-01",
		ReturnDate:         "2026-09-08",
	})
	require.NoError(t, err)
	assert.Len(t, result.DepartureFlights, 1)
	assert.Len(t, result.ReturnFlights, 1)
}

func TestSearchRejectsUnknownType(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Search(context.Background(), SearchParams{Type: "multi"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestTakenSeats(t *testing.T) {
	f := newFixture()

	f.flights.On("GetByID", mock.Anything, int64(3)).Return(&domain.Flight{ID: 3}, nil)
	f.reservations.On("ListByFlight", mock.Anything, int64(3)).
		Return([]domain.Reservation{{Seat: "1A"}, {Seat: "11B"}}, nil)

	seats, err := f.svc.TakenSeats(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"1A", "11B"}, seats)
}

func TestTakenSeatsUnknownFlight(t *testing.T) {
	f := newFixture()

	f.flights.On("GetByID", mock.Anything, int64(3)).Return(nil, apperr.NotFound("flight not found"))

	_, err := f.svc.TakenSeats(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
