// Package httpapi serves the tree, report and settings operations over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tyemirov/folder2chat/internal/commands"
	"github.com/tyemirov/folder2chat/internal/config"
	"github.com/tyemirov/folder2chat/internal/services/picker"
	"github.com/tyemirov/folder2chat/internal/utils"
)

const (
	defaultListenAddress    = config.DefaultServerAddress
	defaultShutdownDuration = 5 * time.Second
	defaultRequestTimeout   = 30 * time.Second

	headerContentType = "Content-Type"
	headerRequestID   = "X-Request-ID"
	mimeTypeJSON      = "application/json"
	errorFieldName    = "error"

	logServerListening = "HTTP server listening"
	logRequestHandled  = "Handled request"
)

// Config defines runtime options for the HTTP server.
type Config struct {
	Address         string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	Store           *config.SettingsStore
	Picker          picker.Picker
	Logger          *zap.Logger
	ItemLimit       int
	Ordering        commands.Ordering
	Policy          commands.ExtensionPolicy
}

// Server exposes the core operations as JSON endpoints.
type Server struct {
	config Config
}

// NewServer creates a new Server with defaults applied.
func NewServer(serverConfig Config) Server {
	normalized := serverConfig
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.RequestTimeout <= 0 {
		normalized.RequestTimeout = defaultRequestTimeout
	}
	if normalized.Store == nil {
		normalized.Store = config.NewSettingsStore("", normalized.Logger)
	}
	if normalized.Picker == nil {
		normalized.Picker = picker.NewDialogPicker()
	}
	if normalized.ItemLimit == 0 {
		normalized.ItemLimit = commands.DefaultItemLimit
	}
	normalized.Logger = utils.LoggerOrNop(normalized.Logger)
	return Server{config: normalized}
}

// Handler returns the routed handler with request logging and the per-request time budget applied.
func (server Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc("GET /{$}", server.handleRoot)
	router.HandleFunc("GET "+configPath, server.handleGetConfig)
	router.HandleFunc("POST "+configPath, server.handleUpdateConfig)
	router.HandleFunc("GET "+browseFolderPath, server.handleBrowseFolder)
	router.HandleFunc("GET "+directoryTreePath, server.handleDirectoryTree)
	router.HandleFunc("POST "+generateReportPath, server.handleGenerateReport)
	return server.withRequestScope(router)
}

// Run starts the HTTP server and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	httpServer := &http.Server{Handler: server.Handler(), ReadHeaderTimeout: server.config.RequestTimeout}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", serveErr)
		}
		return nil
	})

	server.config.Logger.Info(logServerListening, zap.String("address", actualAddress))
	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown HTTP: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

// withRequestScope tags every request with an id, bounds it by the request
// timeout and logs its outcome.
func (server Server) withRequestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestID := request.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		writer.Header().Set(headerRequestID, requestID)

		scopedContext, cancel := context.WithTimeout(request.Context(), server.config.RequestTimeout)
		defer cancel()

		startedAt := time.Now()
		recorder := &statusRecorder{ResponseWriter: writer, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, request.WithContext(scopedContext))

		server.config.Logger.Info(logRequestHandled,
			zap.String("request_id", requestID),
			zap.String("method", request.Method),
			zap.String("path", request.URL.Path),
			zap.Int("status", recorder.statusCode),
			zap.Duration("duration", time.Since(startedAt)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (recorder *statusRecorder) WriteHeader(statusCode int) {
	recorder.statusCode = statusCode
	recorder.ResponseWriter.WriteHeader(statusCode)
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := map[string]string{errorFieldName: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}

func (server Server) writeError(writer http.ResponseWriter, err error) {
	server.writeJSON(writer, statusCodeFromError(err), map[string]string{errorFieldName: err.Error()})
}
