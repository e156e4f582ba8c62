package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/beka-birhanu/vinom-pathfinder/api"
	api_i "github.com/beka-birhanu/vinom-pathfinder/api/i"
	"github.com/beka-birhanu/vinom-pathfinder/api/identity"
	journeyapi "github.com/beka-birhanu/vinom-pathfinder/api/journey"
	"github.com/beka-birhanu/vinom-pathfinder/api/middleware"
	"github.com/beka-birhanu/vinom-pathfinder/config"
	logger "github.com/beka-birhanu/vinom-pathfinder/infrastruture/log"
	"github.com/beka-birhanu/vinom-pathfinder/infrastruture/repo"
	"github.com/beka-birhanu/vinom-pathfinder/infrastruture/routeboard"
	"github.com/beka-birhanu/vinom-pathfinder/infrastruture/token"
	"github.com/beka-birhanu/vinom-pathfinder/service"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Global variables for dependencies
var (
	mongoClient       *mongo.Client
	redisClient       *redis.Client
	userRepo          *repo.UserRepo
	journeyRepo       *repo.JourneyRepo
	routeBoard        i.RouteBoard
	journeyManager    *service.JourneySessionManager
	journeyController api_i.Controller
	jwtTokenizer      i.Tokenizer
	authService       i.Authenticator
	authController    api_i.Controller
	router            *api.Router
	appLogger         i.Logger
)

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating %s logger: %v", prefix, err))
		os.Exit(1)
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initRepos(ctx context.Context, client *mongo.Client) {
	userRepo = repo.NewUserRepo(client, config.Envs.DBName, "users")
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Warning(fmt.Sprintf("Creating user indexes: %v", err))
	}
	appLogger.Info("User repository initialized")

	journeyRepo = repo.NewJourneyRepo(client, config.Envs.DBName, "journeys")
	if err := journeyRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Warning(fmt.Sprintf("Creating journey indexes: %v", err))
	}
	appLogger.Info("Journey repository initialized")
}

func initRouteBoard(client *redis.Client) {
	var err error
	routeBoard, err = routeboard.New(routeboard.Config{
		Client:     client,
		Size:       int64(config.Envs.RouteBoardSize),
		TTLSeconds: config.Envs.RouteBoardTTLSeconds,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating route board: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Route board initialized")
}

func initJourneyManager() {
	var err error
	journeyManager, err = service.NewJourneySessionManager(&service.JourneyConfig{
		GridSize:         config.Envs.GridSize,
		PlaybackInterval: time.Duration(config.Envs.PlaybackIntervalMS) * time.Millisecond,
		JourneyLog:       journeyRepo,
		RouteBoard:       routeBoard,
		Logger:           newLogger("JOURNEY", config.ColorCyan),
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating journey session manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Journey session manager initialized")
}

func initJourneyController() {
	var err error
	journeyController, err = journeyapi.NewJourneyController(journeyManager)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating journey controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Journey controller initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	authService = service.NewAuth(userRepo, jwtTokenizer)
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, journeyController},
		AuthorizationMiddleware: identity.Authorize(t),
		LogWriter:               newLogger("HTTP", config.ColorBlue).Writer(),
		Middlewares: []gin.HandlerFunc{
			middleware.CORS(config.Envs.AllowedOrigin),
			middleware.Brotli(brotli.DefaultCompression),
		},
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	initRedis(ctx)
	defer redisClient.Close()

	initRepos(ctx, mongoClient)
	initRouteBoard(redisClient)
	initJourneyManager()
	defer journeyManager.StopAll()

	initJourneyController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	// Run HTTP server
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- router.Run()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
	case sig := <-stop:
		appLogger.Info(fmt.Sprintf("Received %s, stopping journeys", sig))
	}
}
