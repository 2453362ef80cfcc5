package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEmbedding is one indexed passage produced by the upstream
// ingestion pipeline. The Auth* flags mark which permission levels may see
// it at retrieval time.
type DocumentEmbedding struct {
	Id            uuid.UUID
	FileName      string
	Content       string
	ChatType      string
	AuthExecutive bool
	AuthManager   bool
	AuthEmployee  bool
	AuthContract  bool
	Embedding     []float32
	CreatedAt     time.Time
}
