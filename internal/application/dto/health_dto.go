package dto

import "time"

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status    string         `json:"status"` // ok | degraded
	Service   string         `json:"service"`
	Uptime    float64        `json:"uptime"` // segundos
	Timestamp time.Time      `json:"timestamp"`
	Memory    MemoryStats    `json:"memory"`
	Database  DatabaseHealth `json:"database"`
}

// MemoryStats uso de memoria del proceso en bytes.
type MemoryStats struct {
	Alloc     uint64 `json:"alloc"`
	Sys       uint64 `json:"sys"`
	HeapInUse uint64 `json:"heapInUse"`
}

// DatabaseHealth resultado del ping a PostgreSQL.
type DatabaseHealth struct {
	Status    string `json:"status"` // up | down
	LatencyMs int64  `json:"latencyMs"`
}
