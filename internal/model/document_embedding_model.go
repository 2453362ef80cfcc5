package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileName       string          `gorm:"type:text;not null"`
	Content        string          `gorm:"type:text;not null"`
	ChatType       string          `gorm:"type:varchar(50);not null;index"`
	AuthExecutive  bool            `gorm:"not null;default:false"`
	AuthManager    bool            `gorm:"not null;default:false"`
	AuthEmployee   bool            `gorm:"not null;default:false"`
	AuthContract   bool            `gorm:"not null;default:false"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (DocumentEmbedding) TableName() string {
	return "document_embeddings"
}
