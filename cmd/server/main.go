package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/sortflow/sortflow/internal/api"
	"github.com/sortflow/sortflow/internal/auth"
	"github.com/sortflow/sortflow/internal/config"
	"github.com/sortflow/sortflow/internal/crypto"
	"github.com/sortflow/sortflow/internal/mailbox"
	"github.com/sortflow/sortflow/internal/session"
	ws "github.com/sortflow/sortflow/internal/websocket"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	encryptor, err := crypto.NewEncryptor(cfg.EncryptionKeyBase64)
	if err != nil {
		log.Fatalf("Failed to create encryptor: %v", err)
	}

	sessions, err := session.Open(cfg.IdentityDBPath, encryptor)
	if err != nil {
		log.Fatalf("Failed to open identity store: %v", err)
	}
	defer func() { _ = sessions.Close() }()

	log.Printf("Identity store ready at %s", cfg.IdentityDBPath)

	hub := ws.NewHub(10)
	ctrl := mailbox.NewController(
		mailbox.SeedMessages(),
		nil, // real clock
		crypto.NewMessageCodec(),
		api.NewEventBroadcaster(hub),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := mailbox.NewSweeper(ctrl, cfg.SweepInterval, nil)
	go sweeper.Run(ctx)

	server := NewServer(cfg, sessions, ctrl, hub)

	address := ":" + cfg.Port
	log.Printf("SortFlow API server starting on %s (environment: %s)", address, cfg.Environment)

	if err := http.ListenAndServe(address, server); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

// NewServer creates and returns the HTTP handler for the SortFlow API.
func NewServer(cfg *config.Config, sessions *session.Store, ctrl *mailbox.Controller, hub *ws.Hub) http.Handler {
	authHandler := api.NewAuthHandler(sessions)
	accountsHandler := api.NewAccountsHandler(sessions)
	mailboxHandler := api.NewMailboxHandler(sessions, ctrl)
	composeHandler := api.NewComposeHandler(sessions, ctrl, cfg.SendLatency)
	teamHandler := api.NewTeamHandler(sessions, cfg.SendLatency)
	wsHandler := api.NewWebSocketHandler(sessions, hub)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return auth.RequireAuth(sessions, h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)

	mux.Handle("POST /api/v1/auth/signup", http.HandlerFunc(authHandler.SignUp))
	mux.Handle("POST /api/v1/auth/signin", http.HandlerFunc(authHandler.SignIn))
	mux.Handle("POST /api/v1/auth/signout", requireAuth(authHandler.SignOut))
	mux.Handle("GET /api/v1/auth/me", requireAuth(authHandler.Me))
	mux.Handle("POST /api/v1/auth/upgrade", requireAuth(authHandler.Upgrade))

	mux.Handle("POST /api/v1/accounts", requireAuth(accountsHandler.Add))
	mux.Handle("POST /api/v1/accounts/switch", requireAuth(accountsHandler.Switch))
	mux.Handle("POST /api/v1/accounts/remove", requireAuth(accountsHandler.Remove))

	mux.Handle("GET /api/v1/mailbox/counts", requireAuth(mailboxHandler.GetCounts))
	mux.Handle("GET /api/v1/messages", requireAuth(mailboxHandler.GetMessages))
	mux.Handle("GET /api/v1/message/{id}", requireAuth(mailboxHandler.GetMessage))
	mux.Handle("POST /api/v1/message/{id}/star", requireAuth(mailboxHandler.Star))
	mux.Handle("POST /api/v1/message/{id}/trash", requireAuth(mailboxHandler.Trash))
	mux.Handle("POST /api/v1/message/{id}/read", requireAuth(mailboxHandler.MarkRead))
	mux.Handle("POST /api/v1/message/{id}/move", requireAuth(mailboxHandler.Move))

	mux.Handle("POST /api/v1/compose", requireAuth(composeHandler.Send))
	mux.Handle("POST /api/v1/message/{id}/reply", requireAuth(composeHandler.Reply))
	mux.Handle("POST /api/v1/message/{id}/smart-reply", requireAuth(composeHandler.SmartReply))

	mux.Handle("GET /api/v1/team", requireAuth(teamHandler.List))
	mux.Handle("POST /api/v1/team/invite", requireAuth(teamHandler.Invite))
	mux.Handle("POST /api/v1/team/remove", requireAuth(teamHandler.Remove))

	// WebSocket handler handles its own authentication via query parameter
	// (browsers can't set headers on WebSocket connections).
	mux.Handle("GET /api/v1/ws", http.HandlerFunc(wsHandler.Handle))

	if cfg.Environment == "test" {
		importHandler := api.NewImportHandler(sessions, ctrl)
		mux.Handle("POST /test/import-message", requireAuth(importHandler.ImportMessage))
	}

	return mux
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "SortFlow API is running")
}
