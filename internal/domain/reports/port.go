package reports

import "context"

// ArtifactStore port (interface for exported report storage)
type ArtifactStore interface {
	UploadBytes(ctx context.Context, data []byte, key, contentType string) (string, error)
}
