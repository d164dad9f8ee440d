package server

import (
	"context"
	"encoding/json"
	"net/http"
	_ "net/http/pprof" // Profiling
	"time"

	"blockrooms-client/internal/store"
	"blockrooms-client/internal/version"
	"blockrooms-client/internal/world"
	"blockrooms-client/pkg/logger"
)

// Server — локальный debug-листенер клиента: здоровье, версия и
// просмотр внутреннего состояния сессии. Наружу не выставляется.
type Server struct {
	Store *store.Store
	Table *world.Table
	Port  string

	httpSrv *http.Server
}

func New(st *store.Store, table *world.Table, port string) *Server {
	return &Server{
		Store: st,
		Table: table,
		Port:  port,
	}
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	// Регистрируем роуты
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Store, s.Table)
	debugHandler.RegisterRoutes(mux)

	s.httpSrv = &http.Server{Addr: ":" + s.Port, Handler: mux}
	logger.Log.Infof("Blockrooms client debug listener on :%s", s.Port)
	return s.httpSrv.ListenAndServe()
}

// Shutdown мягко гасит листенер.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.httpSrv.Shutdown(c)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с локальных инструментов
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Log.WithError(err).Debug("health write failed")
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(version.Info()); err != nil {
		logger.Log.WithError(err).Debug("version write failed")
	}
}

// RunDetached крутит листенер на фоне, ошибки кроме штатного закрытия
// уходят в лог.
func (s *Server) RunDetached() {
	go func() {
		if err := s.Run(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Error("debug listener failed")
		}
	}()
}
