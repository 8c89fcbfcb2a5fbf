package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arsalan-d/MomentumBack/internal/config"
	"github.com/arsalan-d/MomentumBack/internal/handlers"
	"github.com/arsalan-d/MomentumBack/internal/middleware"
	"github.com/arsalan-d/MomentumBack/internal/repository"
	"github.com/arsalan-d/MomentumBack/internal/services"
	chatws "github.com/arsalan-d/MomentumBack/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	accountRepo := repository.NewAccountRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	authHandler := handlers.NewAuthHandler(accountRepo, cfg.JWTSecret)

	connectionService := services.NewConnectionService(connectionRepo, accountRepo)
	connectionHandler := handlers.NewConnectionHandler(connectionService)

	chatHub := chatws.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(connectionRepo, messageRepo, connectionRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)
	messageHandler := handlers.NewMessageHandler(chatService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	connections := authProtected.Group("/connections")
	connections.Post("", connectionHandler.RequestConnection)
	connections.Get("", connectionHandler.ListConnections)
	connections.Put("/:userId/status", connectionHandler.DecideConnection)

	authProtected.Get("/contacts", messageHandler.ListContacts)
	authProtected.Get("/messages/:otherId", messageHandler.GetConversation)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}
