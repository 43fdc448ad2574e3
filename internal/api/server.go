package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/manqala/community-events-api/internal/api/handler/v1"
	"github.com/manqala/community-events-api/internal/api/middleware"
	"github.com/manqala/community-events-api/internal/config"
	"github.com/manqala/community-events-api/internal/repository"
	"github.com/manqala/community-events-api/internal/repository/dao"
	"github.com/manqala/community-events-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	authHandler := s.initAuthHandler(db)
	eventHandler := s.initEventHandler(db)
	contactHandler := s.initContactHandler(db)
	leaderboardHandler := s.initLeaderboardHandler(db)
	s.MountHandlers(authHandler, eventHandler, contactHandler, leaderboardHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	grantRepo := repository.NewGrantRepository(dao.NewGrantDAO(db))

	eventSvc := service.NewEventService(eventRepo, s.Config.API.SuperAdmins)
	registrySvc := service.NewRegistryService(participantRepo)
	distributionSvc := service.NewDistributionService(eventSvc, registrySvc, grantRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))

	return v1.NewEventHandler(eventSvc, registrySvc, distributionSvc, uSvc)
}

func (s *Server) initContactHandler(db *gorm.DB) *v1.ContactHandler {
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))

	registrySvc := service.NewRegistryService(participantRepo)
	scoringSvc := service.NewScoringService(registrySvc, scoreRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))

	return v1.NewContactHandler(registrySvc, scoringSvc, uSvc)
}

func (s *Server) initLeaderboardHandler(db *gorm.DB) *v1.LeaderboardHandler {
	participantRepo := repository.NewParticipantRepository(dao.NewParticipantDAO(db))
	scoreRepo := repository.NewScoreRepository(dao.NewScoreDAO(db))

	leaderboardSvc := service.NewLeaderboardService(scoreRepo)
	registrySvc := service.NewRegistryService(participantRepo)
	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))

	return v1.NewLeaderboardHandler(leaderboardSvc, registrySvc, uSvc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, eventHandler *v1.EventHandler, contactHandler *v1.ContactHandler, leaderboardHandler *v1.LeaderboardHandler) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	events := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		events.GET("/events", eventHandler.HandleGetEvents)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)
		events.POST("/events", eventHandler.HandleCreateEvent)
		events.POST("/events/:eventID/register", eventHandler.HandleRegisterInterest)
		events.GET("/events/:eventID/participants/:identity/verify", eventHandler.HandleVerifyParticipant)
		events.POST("/events/:eventID/distribute", eventHandler.HandleDistribute)
		events.GET("/events/:eventID/leaderboard", leaderboardHandler.HandleLeaderboard)
		// Contacts
		events.POST("/contacts/share", contactHandler.HandleShareContact)
		events.POST("/contacts/score", contactHandler.HandleScoreInteraction)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
