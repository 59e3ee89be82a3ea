package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayfinder-backend/config"
	"stayfinder-backend/handlers"
	"stayfinder-backend/mailer"
	"stayfinder-backend/repository"
	"stayfinder-backend/services"
	"stayfinder-backend/storage"
	"stayfinder-backend/ws"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	slog.Info("starting stayfinder server", "port", cfg.Port)

	// --- storage ---
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := storage.New(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		slog.Error("failed to connect to storage", "err", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(context.Background()); err != nil {
		slog.Error("failed to ensure indexes", "err", err)
		os.Exit(1)
	}

	// --- repos ---
	userRepo := repository.NewMongoUserRepo(store.Users())
	otpRepo := repository.NewMongoOtpRepo(store.Otps())
	chatRepo := repository.NewMongoChatRoomRepo(store.ChatRooms())
	msgRepo := repository.NewMongoMessageRepo(store.Messages())
	postRepo := repository.NewMongoPostRepo(store.Posts())

	// --- hub ---
	hub := ws.NewHub()

	// --- services ---
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	authSvc := services.NewAuthService(userRepo, otpRepo, mail, &cfg)
	chatSvc := services.NewChatService(chatRepo, userRepo, msgRepo)
	msgSvc := services.NewMessageService(msgRepo, userRepo, chatSvc, hub, &cfg)
	postSvc := services.NewPostService(postRepo)
	uploadSvc := services.NewUploadService(&cfg)

	// --- handlers ---
	authH := handlers.NewAuthHandler(authSvc)
	chatH := handlers.NewChatHandler(hub, chatSvc, msgSvc)
	msgH := handlers.NewMessageHandler(msgSvc)
	postH := handlers.NewPostHandler(postSvc)
	uploadH := handlers.NewUploadHandler(uploadSvc)

	// --- routes ---
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
	}).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", authH.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify-otp", authH.VerifyOtp).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", authH.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", handlers.WithAuth(authSvc, authH.Me)).Methods(http.MethodGet)
	r.HandleFunc("/auth/profile", handlers.WithAuth(authSvc, authH.UpdateProfile)).Methods(http.MethodPut)

	r.HandleFunc("/chatroom/create", handlers.WithAuth(authSvc, chatH.CreateRoom)).Methods(http.MethodPost)
	r.HandleFunc("/chatrooms/{userId}", handlers.WithAuth(authSvc, chatH.ListForUser)).Methods(http.MethodGet)
	r.HandleFunc("/messages/send", handlers.WithAuth(authSvc, msgH.Send)).Methods(http.MethodPost)
	r.HandleFunc("/messages/{chatRoomId}", handlers.WithAuth(authSvc, msgH.List)).Methods(http.MethodGet)

	r.HandleFunc("/posts", postH.List).Methods(http.MethodGet)
	r.HandleFunc("/posts", handlers.WithAuth(authSvc, postH.Create)).Methods(http.MethodPost)
	r.HandleFunc("/posts/user/{userId}", postH.ListByUser).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}", postH.Get).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}", handlers.WithAuth(authSvc, postH.Update)).Methods(http.MethodPut)
	r.HandleFunc("/posts/{id}", handlers.WithAuth(authSvc, postH.Delete)).Methods(http.MethodDelete)

	r.HandleFunc("/upload/signature", handlers.WithAuth(authSvc, uploadH.Signature)).Methods(http.MethodGet)

	r.HandleFunc("/ws", handlers.WithAuth(authSvc, chatH.WS)).Methods(http.MethodGet)

	// --- middleware ---
	limiter := handlers.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()
	handler := handlers.WithCORS(handlers.WithLogging(limiter.Middleware(r)))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
	}

	slog.Info("server exited")
}
