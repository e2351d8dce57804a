package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/loaniq/loaniq-go/api/controllers"
	"github.com/loaniq/loaniq-go/api/middlewares"
	"github.com/loaniq/loaniq-go/api/models"
	"github.com/loaniq/loaniq-go/api/notifyhub"
	"github.com/loaniq/loaniq-go/notify"
	"github.com/loaniq/loaniq-go/tool"
)

// Server is the local HTTP API the dashboard talks to.
type Server struct {
	port   int
	app    *models.App
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

func NewServer(port int, app *models.App) *Server {
	return &Server{
		port: port,
		app:  app,
	}
}

// Handler builds the routes; Start uses the same engine.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(middlewares.AllowLocalCORS)

	uploadCtrl := controllers.NewUploadSessionController(s.app)
	documentCtrl := controllers.NewDocumentController(s.app)
	chatCtrl := controllers.NewChatController(s.app)
	compareCtrl := controllers.NewCompareController(s.app)
	glossaryCtrl := controllers.NewGlossaryController(s.app)
	preferencesCtrl := controllers.NewPreferencesController(s.app)
	statusCtrl := controllers.NewStatusController(s.app)

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.GET("/upload-sessions", uploadCtrl.HandleList)
		self.POST("/upload-sessions", uploadCtrl.HandleCreate)                        // New empty batch
		self.GET("/upload-sessions/:id", uploadCtrl.HandleGet)                        // Items + pending/done flags
		self.DELETE("/upload-sessions/:id", uploadCtrl.HandleDelete)                  // Forget an idle session
		self.POST("/upload-sessions/:id/files", uploadCtrl.HandleAddFiles)            // multipart or file:// JSON
		self.DELETE("/upload-sessions/:id/files/:index", uploadCtrl.HandleRemoveFile) // Pending items only
		self.POST("/upload-sessions/:id/start", uploadCtrl.HandleStart)               // ?async=true answers 202
		self.POST("/upload-sessions/:id/reset", uploadCtrl.HandleReset)

		self.GET("/documents", documentCtrl.HandleList)
		self.GET("/documents/count", documentCtrl.HandleCount)
		self.DELETE("/documents/:id", documentCtrl.HandleDelete)

		self.POST("/chat/ask", chatCtrl.HandleAsk)
		self.GET("/chat/history", chatCtrl.HandleHistory)
		self.DELETE("/chat/history", chatCtrl.HandleClear)

		self.POST("/compare", compareCtrl.HandleCompare)
		self.GET("/compare/sample", compareCtrl.HandleSample) // Demo data, no backend needed

		self.GET("/glossary", glossaryCtrl.HandleSearch)
		self.GET("/preferences", preferencesCtrl.HandleGet)
		self.PATCH("/preferences", preferencesCtrl.HandlePatch)

		self.GET("/status", statusCtrl.HandleStatus)
		self.GET("/config", statusCtrl.HandleConfig)
		self.GET("/create-qr-code", controllers.GenerateQRCode) // QR code PNG (same params as api.qrserver.com)
		if s.app.Hub != nil {
			self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.app.Hub))
		}
	}
	return engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	engine := s.setupRoutes()

	s.mu.Lock()
	s.engine = engine
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: engine,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting API server on http://%s", srv.Addr)
	if err := notify.SendSimpleNotification("API server", "Listening on http://"+srv.Addr); err != nil {
		tool.DefaultLogger.Debugf("Failed to send startup notification: %v", err)
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if n := controllers.CancelUploadRuns(); n > 0 {
		tool.DefaultLogger.Infof("Aborted %d running upload batch(es)", n)
	}
	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	if waitErr := controllers.WaitUploadRuns(ctx); waitErr != nil && err == nil {
		err = waitErr
	}
	return err
}
