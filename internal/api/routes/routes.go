// server/internal/api/routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medcamp-api-server/config"
	"medcamp-api-server/internal/api/handlers"
	"medcamp-api-server/internal/api/middleware"
	"medcamp-api-server/internal/auth"
	"medcamp-api-server/internal/database"
	"medcamp-api-server/internal/media"
	"medcamp-api-server/internal/payment"
	"medcamp-api-server/internal/socket"
	"medcamp-api-server/internal/store"
)

// Dependencies are the collaborators the router wires into handlers. Cache,
// Uploader and Payments are optional and may be left nil.
type Dependencies struct {
	Store    store.Store
	Tokens   *auth.TokenService
	Cache    handlers.ListingCache
	Uploader media.Uploader
	Payments payment.IntentCreator
	Hub      *socket.Hub
}

// SetupRouter builds the HTTP surface.
func SetupRouter(cfg config.Config, deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.CORS)))

	users := deps.Store.Collection(database.UsersCollection)
	gate := auth.NewGate(users)

	authenticated := middleware.Authenticate(deps.Tokens)
	adminOnly := middleware.RequireAdmin(gate)

	userHandler := &handlers.UserHandler{Users: users, Gate: gate}
	campHandler := &handlers.CampHandler{
		Camps: deps.Store.Collection(database.CampsCollection),
		Cache: deps.Cache,
	}
	if deps.Hub != nil {
		campHandler.Notifier = deps.Hub
	}
	participantHandler := &handlers.ParticipantHandler{
		Registrations: deps.Store.Collection(database.ParticipantsCollection),
		Gate:          gate,
	}
	reviewHandler := &handlers.ReviewHandler{Reviews: deps.Store.Collection(database.ReviewsCollection)}
	historyHandler := &handlers.HistoryHandler{Histories: deps.Store.Collection(database.HistoriesCollection)}
	storyHandler := &handlers.StoryHandler{Stories: deps.Store.Collection(database.SuccessCollection)}
	paymentHandler := &handlers.PaymentHandler{Gateway: deps.Payments}
	tokenHandler := &handlers.TokenHandler{Tokens: deps.Tokens}
	uploadHandler := &handlers.UploadHandler{Uploader: deps.Uploader}

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Medical camp server is running")
	})
	router.POST("/jwt", tokenHandler.IssueToken)
	router.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	router.GET("/successStory", storyHandler.ListStories)
	router.POST("/uploads/image", authenticated, uploadHandler.UploadImage)

	if deps.Hub != nil {
		wsHandler := &handlers.WebSocketHandler{Hub: deps.Hub, Tokens: deps.Tokens}
		router.GET("/ws", wsHandler.ServeWs)
	}

	usersGroup := router.Group("/users")
	{
		usersGroup.POST("", userHandler.CreateUser)
		usersGroup.GET("", authenticated, adminOnly, userHandler.ListUsers)
		usersGroup.GET("/:email", authenticated, userHandler.GetUserByEmail)
		usersGroup.PATCH("/:id", authenticated, userHandler.UpdateUser)
		usersGroup.DELETE("/:id", authenticated, adminOnly, userHandler.DeleteUser)
		usersGroup.GET("/admin/:email", authenticated, userHandler.CheckAdmin)
		usersGroup.PATCH("/admin/:id", authenticated, adminOnly, userHandler.MakeAdmin)
	}

	camps := router.Group("/allCamps")
	{
		camps.GET("", campHandler.ListCamps)
		camps.POST("", campHandler.CreateCamp)
		camps.GET("/:id", campHandler.GetCamp)
		camps.PATCH("/:id", campHandler.PatchCamp)
		camps.PUT("/:id", campHandler.ReplaceCamp)
		camps.DELETE("/:id", campHandler.DeleteCamp)
	}

	participants := router.Group("/participantCamps")
	{
		participants.GET("", authenticated, participantHandler.ListMine)
		participants.GET("/all", authenticated, adminOnly, participantHandler.ListAll)
		participants.GET("/:id", participantHandler.GetRegistration)
		participants.POST("", participantHandler.CreateRegistration)
		participants.PATCH("/:id", participantHandler.MarkPaid)
		participants.DELETE("/:id", authenticated, participantHandler.CancelRegistration)
	}

	router.GET("/reviews", reviewHandler.ListReviews)
	router.POST("/reviews", reviewHandler.CreateReview)

	router.GET("/histories", authenticated, historyHandler.ListHistory)
	router.POST("/histories", historyHandler.CreateHistory)

	return router
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	origins := cfg.Origins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}
