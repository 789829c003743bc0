// Package web is the JSON and WebSocket serving surface over the matchup
// data store.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/unrolled/render"

	"github.com/Grant-Perry/BigWarRoom-sub012/config"
	"github.com/Grant-Perry/BigWarRoom-sub012/settings"
	"github.com/Grant-Perry/BigWarRoom-sub012/store"
)

type Server struct {
	server *http.Server
	log    *logrus.Logger
}

func NewServer(cfg config.ServerConfig, st store.Store, prefs *settings.Prefs, season int, log *logrus.Logger) (*Server, error) {
	if st == nil {
		return nil, errors.New("server requires a store")
	}
	if prefs == nil {
		return nil, errors.New("server requires a settings store")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	render := newRender()
	router := getRouter(st, prefs, season, render, log)

	s := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
	return s, nil
}

func (s *Server) ListenAndServe(shutdown chan bool, wg *sync.WaitGroup) {
	go func() {
		defer wg.Done()

		// Wait for the shutdown signal and safely close the server.
		<-shutdown

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.server.Shutdown(ctx); err != nil {
			s.log.WithError(err).Fatal("error shutting down server")
		}
	}()

	s.log.WithField("addr", s.server.Addr).Info("web server is listening")
	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.log.WithError(err).Fatal("error running server")
	}
}

func newRender() *render.Render {
	return render.New(render.Options{
		IndentJSON: true,
	})
}
