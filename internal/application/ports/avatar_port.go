package ports

import "context"

// AvatarStorage define el puerto de salida para guardar imágenes de perfil.
// Cualquier adaptador (S3, R2, MinIO, mock) debe implementar esta interfaz.
type AvatarStorage interface {
	// Upload guarda data bajo key y devuelve la URL pública del objeto.
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
