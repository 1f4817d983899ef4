// Package httpapi is the HTTP/JSON binding of the booking operation surface.
package httpapi

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aam9063/dogwalk/internal/repository"
	"github.com/aam9063/dogwalk/internal/service"
)

type API struct {
	availability *service.AvailabilityService
	reservations *service.ReservationService
	pricing      *service.PricingService
	users        *repository.UserRepository
	dogs         *repository.DogRepository
	services     *repository.ServiceRepository
	jwtSecret    string
	logger       *zap.Logger
}

func NewAPI(
	availability *service.AvailabilityService,
	reservations *service.ReservationService,
	pricing *service.PricingService,
	users *repository.UserRepository,
	dogs *repository.DogRepository,
	services *repository.ServiceRepository,
	jwtSecret string,
	logger *zap.Logger,
) *API {
	return &API{
		availability: availability,
		reservations: reservations,
		pricing:      pricing,
		users:        users,
		dogs:         dogs,
		services:     services,
		jwtSecret:    jwtSecret,
		logger:       logger,
	}
}

// Router builds the gin engine with all routes registered.
func (a *API) Router(env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(RequestID())
	r.Use(RequestLogger(a.logger))

	v1 := r.Group("/api/v1")

	// Public.
	v1.POST("/users", a.registerUser)
	v1.GET("/services", a.listServices)
	v1.GET("/walkers/:id/slots", a.listSlots)
	v1.GET("/walkers/:id/prices", a.listPrices)
	v1.GET("/walkers/:id/prices/:serviceID", a.getPrice)

	// Authenticated.
	auth := v1.Group("")
	auth.Use(JWTAuth(a.jwtSecret))
	{
		auth.POST("/services", a.createService)

		auth.POST("/dogs", a.createDog)
		auth.GET("/dogs", a.listDogs)

		auth.POST("/walkers/:id/slots/generate", a.generateSlots)
		auth.PATCH("/slots/:id", a.setSlotState)
		auth.DELETE("/slots/:id", a.deleteSlot)

		auth.PUT("/walkers/:id/prices/:serviceID", a.setPrice)

		auth.POST("/reservations", a.book)
		auth.POST("/reservations/:id/confirm", a.confirm)
		auth.POST("/reservations/:id/complete", a.complete)
		auth.POST("/reservations/:id/cancel", a.cancel)
		auth.GET("/reservations", a.listReservations)
		auth.GET("/customers/:id/reservations", a.listForCustomer)
		auth.GET("/walkers/:id/reservations", a.listForWalker)
	}

	return r
}
