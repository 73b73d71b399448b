// Package allocation assembles the claim stores, the shared conflict
// detector and every command service into one engine.
package allocation

import (
	availabilityhandler "turfslot/internal/availability/handler"
	availabilityservice "turfslot/internal/availability/service"
	bookinghandler "turfslot/internal/bookings/handler"
	bookingrepository "turfslot/internal/bookings/repository"
	bookingservice "turfslot/internal/bookings/service"
	bookingvalidator "turfslot/internal/bookings/validator"
	cataloghandler "turfslot/internal/catalog/handler"
	catalogrepository "turfslot/internal/catalog/repository"
	catalogservice "turfslot/internal/catalog/service"
	catalogvalidator "turfslot/internal/catalog/validator"
	"turfslot/internal/claims"
	directoryrepository "turfslot/internal/directory/repository"
	directoryservice "turfslot/internal/directory/service"
	eventhandler "turfslot/internal/events/handler"
	eventrepository "turfslot/internal/events/repository"
	eventservice "turfslot/internal/events/service"
	eventvalidator "turfslot/internal/events/validator"
	"turfslot/internal/memstore"
	programhandler "turfslot/internal/programs/handler"
	programrepository "turfslot/internal/programs/repository"
	programservice "turfslot/internal/programs/service"
	programvalidator "turfslot/internal/programs/validator"
	reservationhandler "turfslot/internal/reservations/handler"
	reservationrepository "turfslot/internal/reservations/repository"
	reservationservice "turfslot/internal/reservations/service"
	reservationvalidator "turfslot/internal/reservations/validator"
	"turfslot/internal/settlement"
	"turfslot/pkg/config"
	"turfslot/pkg/contracts"
	mongotx "turfslot/pkg/db/mongo"
	"turfslot/pkg/lock"
	"turfslot/pkg/model"
)

// Stores is one backend for every repository plus its transaction manager.
type Stores struct {
	Catalog      catalogrepository.CatalogRepository
	Directory    directoryrepository.DirectoryRepository
	Bookings     bookingrepository.BookingRepository
	Reservations reservationrepository.ReservationRepository
	Programs     programrepository.ProgramRepository
	Events       eventrepository.EventRepository
	Tx           mongotx.TransactionManager
}

func MongoStores(cfg *config.Config) Stores {
	return Stores{
		Catalog:      catalogrepository.NewMongoCatalogRepository(cfg),
		Directory:    directoryrepository.NewMongoDirectoryRepository(cfg),
		Bookings:     bookingrepository.NewMongoBookingRepository(cfg),
		Reservations: reservationrepository.NewMongoReservationRepository(cfg),
		Programs:     programrepository.NewMongoProgramRepository(cfg),
		Events:       eventrepository.NewMongoEventRepository(cfg),
		Tx:           mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func MemoryStores(store *memstore.Store) Stores {
	return Stores{
		Catalog:      store.Catalog(),
		Directory:    store.Directory(),
		Bookings:     store.Bookings(),
		Reservations: store.Reservations(),
		Programs:     store.Programs(),
		Events:       store.Events(),
		Tx:           store,
	}
}

// Sources lists the five claim stores in the order availability folds them.
func (s Stores) Sources() []claims.Source {
	return []claims.Source{
		bookingrepository.NewClaimSource(s.Bookings),
		reservationrepository.NewClaimSource(s.Reservations),
		programrepository.NewClaimSource(s.Programs, model.ProgramAcademy),
		programrepository.NewClaimSource(s.Programs, model.ProgramMembership),
		eventrepository.NewClaimSource(s.Events),
	}
}

type Engine struct {
	Coordinator  *claims.Coordinator
	Catalog      catalogservice.CatalogService
	Directory    directoryservice.DirectoryService
	Availability availabilityservice.AvailabilityService
	Bookings     bookingservice.BookingService
	Reservations reservationservice.ReservationService
	Programs     programservice.ProgramService
	Events       eventservice.EventService

	cfg *config.Config
}

// New wires every service over stores. A nil publisher announces nothing.
func New(cfg *config.Config, stores Stores, locker lock.Locker, publisher claims.Publisher, horizon claims.Horizon) *Engine {
	detector := claims.NewDetector(stores.Sources()...)
	coord := claims.NewCoordinator(detector, horizon, locker, stores.Tx, publisher, cfg.Log)

	catalog := catalogservice.NewCatalogService(stores.Catalog, catalogvalidator.NewCatalogValidator(cfg.Log), stores.Tx, cfg)
	directory := directoryservice.NewDirectoryService(stores.Directory, cfg.Log)

	e := &Engine{
		Coordinator:  coord,
		Catalog:      catalog,
		Directory:    directory,
		Availability: availabilityservice.NewAvailabilityService(catalog, detector, cfg),
		Bookings: bookingservice.NewBookingService(
			stores.Bookings, catalog, directory, coord, bookingvalidator.NewBookingValidator(cfg.Log), cfg,
		),
		Reservations: reservationservice.NewReservationService(
			stores.Reservations, catalog, coord, reservationvalidator.NewReservationValidator(cfg.Log), cfg,
		),
		Programs: programservice.NewProgramService(
			stores.Programs, catalog, directory, coord, programvalidator.NewProgramValidator(cfg.Log), cfg,
		),
		Events: eventservice.NewEventService(
			stores.Events, catalog, coord, eventvalidator.NewEventValidator(cfg.Log), cfg,
		),
		cfg: cfg,
	}

	cfg.Log.Info("Allocation engine initialized",
		"sources", len(detector.Sources()),
		"horizon_days", horizon.Days,
		"program_overlap_scope", cfg.ProgramOverlapScope,
		"event_duplicate_policy", cfg.EventDuplicatePolicy,
	)
	return e
}

func (e *Engine) Handlers() []contracts.Handler {
	return []contracts.Handler{
		cataloghandler.NewCatalogHandler(e.Catalog, e.cfg.Log),
		availabilityhandler.NewAvailabilityHandler(e.Availability, e.cfg.Log),
		bookinghandler.NewBookingHandler(e.Bookings, e.cfg.Log),
		reservationhandler.NewReservationHandler(e.Reservations, e.cfg.Log),
		programhandler.NewProgramHandler(model.ProgramAcademy, e.Programs, e.cfg.Log),
		programhandler.NewProgramHandler(model.ProgramMembership, e.Programs, e.cfg.Log),
		eventhandler.NewEventHandler(e.Events, e.cfg.Log),
	}
}

// Settlement is the consumer handler that completes settled dated claims.
func (e *Engine) Settlement() *settlement.Handler {
	return settlement.NewHandler(e.Bookings, e.Reservations, e.cfg.Log)
}
