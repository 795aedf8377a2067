package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/feed"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/repository"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, hub *feed.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSAllowedOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).RateLimit())

	reservationRepo := repository.NewReservationRepository(db)
	customerRepo := repository.NewCustomerRepository(db, reservationRepo)

	customerCtrl := controllers.NewCustomerController(customerRepo, hub)
	reservationCtrl := controllers.NewReservationController(customerRepo, reservationRepo, hub)
	feedCtrl := controllers.NewFeedController(reservationRepo, hub, cfg.CORSAllowedOrigin)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// CUSTOMERS
	r.GET("/customers", customerCtrl.GetAllCustomers)
	r.GET("/customers/best", customerCtrl.GetBestCustomers)
	r.POST("/customers", customerCtrl.CreateCustomer)
	r.GET("/customers/:customer_id", customerCtrl.GetCustomerByID)
	r.PUT("/customers/:customer_id", customerCtrl.UpdateCustomer)

	// RESERVATIONS
	r.GET("/customers/:customer_id/reservations", reservationCtrl.GetCustomerReservations)
	r.POST("/customers/:customer_id/reservations", reservationCtrl.CreateReservation)
	r.GET("/reservations/upcoming", reservationCtrl.GetUpcomingReservations)
	r.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	r.PUT("/reservations/:reservation_id", reservationCtrl.UpdateReservation)

	// Host stand feed
	r.GET("/ws/feed", feedCtrl.FeedHandler)

	return r
}
