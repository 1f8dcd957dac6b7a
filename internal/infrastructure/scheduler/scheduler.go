// Package scheduler corre las tareas periódicas del servidor.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// purgeTimeout límite de cada purga de sesiones.
const purgeTimeout = 30 * time.Second

// Scheduler envuelve cron.Cron con logging de cada ejecución.
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// New crea un scheduler detenido. Si una ejecución sigue en curso, la siguiente se omite.
func New(log *logger.Logger) *Scheduler {
	log = log.Component("scheduler")
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{log}))),
		log:  log,
	}
}

// AddSessionPurge registra la purga de sesiones vencidas con la expresión dada (ej. "@every 30m").
func (s *Scheduler) AddSessionPurge(spec string, purger repository.SessionPurger) error {
	_, err := s.cron.AddFunc(spec, func() { s.purgeSessions(purger) })
	if err != nil {
		return fmt.Errorf("session purge schedule %q: %w", spec, err)
	}
	s.log.Debug().Str("schedule", spec).Msg("purga de sesiones programada")
	return nil
}

func (s *Scheduler) purgeSessions(purger repository.SessionPurger) {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()
	n, err := purger.PurgeExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("falló la purga de sesiones")
		return
	}
	if n > 0 {
		s.log.Info().Int64("eliminadas", n).Msg("sesiones vencidas eliminadas")
	}
}

// Start arranca el scheduler en su propia goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop detiene el scheduler y espera las tareas en curso o la cancelación de ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler detenido con tareas en curso")
	}
}

// cronLogger adapta logger.Logger a cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
