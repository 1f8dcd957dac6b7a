package usecase

import (
	"context"
	"runtime"
	"time"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
)

// dbProbeTimeout tiempo máximo del ping a la DB en el health check.
const dbProbeTimeout = 2 * time.Second

// HealthUseCase reporta el estado del proceso y de la base de datos.
type HealthUseCase struct {
	db      DBPinger
	service string
	started time.Time
}

// NewHealthUseCase construye el caso de uso; started se toma al construirlo.
func NewHealthUseCase(db DBPinger, service string) *HealthUseCase {
	return &HealthUseCase{db: db, service: service, started: time.Now()}
}

// Check devuelve el estado y si el servicio está sano (DB alcanzable).
func (uc *HealthUseCase) Check(ctx context.Context) (*dto.HealthResponse, bool) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	out := &dto.HealthResponse{
		Status:    "ok",
		Service:   uc.service,
		Uptime:    time.Since(uc.started).Seconds(),
		Timestamp: time.Now().UTC(),
		Memory: dto.MemoryStats{
			Alloc:     mem.Alloc,
			Sys:       mem.Sys,
			HeapInUse: mem.HeapInuse,
		},
		Database: dto.DatabaseHealth{Status: "up"},
	}

	probeCtx, cancel := context.WithTimeout(ctx, dbProbeTimeout)
	defer cancel()
	start := time.Now()
	err := uc.db.Ping(probeCtx)
	out.Database.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		out.Status = "degraded"
		out.Database.Status = "down"
		return out, false
	}
	return out, true
}
