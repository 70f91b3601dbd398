package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"task-manager/backend/handlers"
	"task-manager/backend/logging"
	"task-manager/backend/middleware"
	"task-manager/backend/models"
	"task-manager/backend/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// route is one row of the declarative routing table: which handler serves
// a path, and which roles may call it. A nil role list means the route is
// public; an empty list admits any authenticated caller.
type route struct {
	method  string
	path    string
	handler http.HandlerFunc
	roles   []string
}

var (
	public        []string = nil
	authenticated          = []string{}
	adminOnly              = []string{models.RoleAdmin}
)

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Task Manager backend...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	jwtSecret := os.Getenv("JWT_SECRET")
	if mongoURI == "" || mongoDBName == "" || jwtSecret == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: MONGO_URI, MONGO_DB_NAME and JWT_SECRET must be set.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	usersCollection := db.Collection("users")
	tasksCollection := db.Collection("tasks")
	invitationsCollection := db.Collection("invitations")

	blackList := map[string]bool{}
	if blacklistFile := os.Getenv("BLACKLIST_FILE"); blacklistFile != "" {
		blackList, err = services.LoadBlackList(blacklistFile)
		if err != nil {
			logging.Logger.Fatalf("Event ID: BLACKLIST_LOAD_FAILED, Description: Failed to load password blacklist: %v", err)
		}
		logging.Logger.Infof("Event ID: BLACKLIST_LOADED, Description: Loaded %d blacklisted passwords.", len(blackList))
	}

	emailBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "EmailCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0700); err != nil {
		logging.Logger.Fatalf("Event ID: UPLOAD_DIR_CREATE_FAILED, Description: Failed to create upload directory: %v", err)
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}

	jwtService := services.NewJWTService(jwtSecret)
	userService := services.NewUserService(usersCollection, tasksCollection, jwtService, blackList, os.Getenv("ADMIN_JOIN_CODE"))
	taskService := services.NewTaskService(tasksCollection, usersCollection)
	invitationService := services.NewInvitationService(invitationsCollection, usersCollection, jwtService, emailBreaker, blackList, frontendURL)
	reportService := services.NewReportService(tasksCollection, usersCollection)

	authHandler := handlers.NewAuthHandler(userService, uploadDir)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService)
	inviteHandler := handlers.NewInviteHandler(invitationService)
	reportHandler := handlers.NewReportHandler(reportService)

	routes := []route{
		{http.MethodPost, "/api/auth/register", authHandler.Register, public},
		{http.MethodPost, "/api/auth/login", authHandler.Login, public},
		{http.MethodGet, "/api/auth/profile", authHandler.Profile, authenticated},
		{http.MethodPut, "/api/auth/profile", authHandler.UpdateProfile, authenticated},
		{http.MethodPost, "/api/auth/upload-image", authHandler.UploadImage, authenticated},

		{http.MethodPost, "/api/invite/send", inviteHandler.Send, adminOnly},
		{http.MethodGet, "/api/invite/verify", inviteHandler.Verify, public},
		{http.MethodPost, "/api/invite/accept", inviteHandler.Accept, public},
		{http.MethodGet, "/api/invite/all", inviteHandler.GetAll, adminOnly},

		{http.MethodPost, "/api/tasks/create", taskHandler.CreateTask, adminOnly},
		{http.MethodGet, "/api/tasks", taskHandler.GetTasks, authenticated},
		{http.MethodGet, "/api/tasks/dashboard-data", taskHandler.DashboardData, adminOnly},
		{http.MethodGet, "/api/tasks/user-dashboard-data", taskHandler.UserDashboardData, authenticated},
		{http.MethodGet, "/api/tasks/{id}", taskHandler.GetTaskByID, authenticated},
		{http.MethodPut, "/api/tasks/{id}", taskHandler.UpdateTask, authenticated},
		{http.MethodPut, "/api/tasks/{id}/status", taskHandler.UpdateTaskStatus, authenticated},
		{http.MethodPut, "/api/tasks/{id}/todo", taskHandler.UpdateTaskChecklist, authenticated},
		{http.MethodDelete, "/api/tasks/{id}", taskHandler.DeleteTask, adminOnly},

		{http.MethodGet, "/api/users/get-users", userHandler.GetUsers, adminOnly},
		{http.MethodGet, "/api/users/{id}", userHandler.GetUserByID, authenticated},

		{http.MethodGet, "/api/reports/export/tasks", reportHandler.ExportTasks, adminOnly},
		{http.MethodGet, "/api/reports/export/users", reportHandler.ExportUsers, adminOnly},
	}

	r := mux.NewRouter()
	for _, rt := range routes {
		var h http.Handler = rt.handler
		if rt.roles != nil {
			h = middleware.Authenticate(jwtService, middleware.RequireRole(rt.roles, h))
		}
		r.Handle(rt.path, h).Methods(rt.method)
	}

	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Task Manager backend is running"))
	}).Methods(http.MethodGet)

	corsRouter := middleware.EnableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}
	serverAddress := fmt.Sprintf(":%s", serverPort)

	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
