package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPServer - часть *http.Server, нужная сервису.
type HTTPServer interface {
	ListenAndServe() error
	ListenAndServeTLS(certFile, keyFile string) error
	Shutdown(ctx context.Context) error
}

// HTTPServerService запускает HTTP сервер и останавливает его при отмене контекста.
type HTTPServerService struct {
	server          HTTPServer
	certFile        string
	keyFile         string
	shutdownTimeout time.Duration
}

// NewHTTPServerService создает сервис. При заданных certFile и keyFile сервер работает по HTTPS.
func NewHTTPServerService(server HTTPServer, certFile, keyFile string, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		server:          server,
		certFile:        certFile,
		keyFile:         keyFile,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve реализует suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if h.certFile != "" && h.keyFile != "" {
			err = h.server.ListenAndServeTLS(h.certFile, h.keyFile)
		} else {
			err = h.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("[HTTPServer] Остановка сервера...")
		// Исходный контекст уже отменен.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("ошибка остановки HTTP сервера: %w", err)
		}
		<-errCh
		log.Info().Msg("[HTTPServer] Сервер остановлен")
		return ctx.Err()
	}
}

func (h *HTTPServerService) String() string {
	return "http-server"
}
