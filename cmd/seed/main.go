package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"faq-chat-be/internal/config"
	"faq-chat-be/internal/entity"
	"faq-chat-be/internal/repository/implementation"
	"faq-chat-be/pkg/database"
	"faq-chat-be/pkg/embedding"
	"faq-chat-be/pkg/utils"

	"github.com/google/uuid"
)

// Seeds the document_embeddings table from a directory of text files. Each
// file is chunked, embedded and stored with the given chat type and the
// lowest role that may read it (every role above it is granted too).
func main() {
	dir := flag.String("dir", "./documents", "directory of .txt/.md files to ingest")
	chatType := flag.String("chat-type", "faq", "document class tag (web, faq, data)")
	minRole := flag.String("min-role", "Contract", "lowest role allowed to read these documents")
	chunkSize := flag.Int("chunk-size", 1000, "chunk size in characters")
	overlap := flag.Int("overlap", 100, "chunk overlap in characters")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	repo := implementation.NewDocumentEmbeddingRepository(db)
	provider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatal("Error: Failed to read documents directory:", err)
	}

	ctx := context.Background()
	total := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(*dir, entry.Name()))
		if err != nil {
			log.Printf("Warn: Skipping %s: %v", entry.Name(), err)
			continue
		}

		chunks := utils.SplitText(string(raw), *chunkSize, *overlap)
		docs := make([]*entity.DocumentEmbedding, 0, len(chunks))
		for _, chunk := range chunks {
			resp, err := provider.Generate(chunk, "RETRIEVAL_DOCUMENT")
			if err != nil {
				log.Fatalf("Error: Embedding failed for %s: %v", entry.Name(), err)
			}

			doc := &entity.DocumentEmbedding{
				Id:        uuid.New(),
				FileName:  entry.Name(),
				Content:   chunk,
				ChatType:  *chatType,
				Embedding: resp.Embedding.Values,
			}
			grantRoles(doc, *minRole)
			docs = append(docs, doc)
		}

		if err := repo.CreateBulk(ctx, docs); err != nil {
			log.Fatalf("Error: Insert failed for %s: %v", entry.Name(), err)
		}
		log.Printf("Seeded %s (%d chunks)", entry.Name(), len(chunks))
		total += len(docs)
	}

	log.Printf("Done: %d chunks seeded", total)
}

// grantRoles marks the document visible to minRole and every wider role.
func grantRoles(doc *entity.DocumentEmbedding, minRole string) {
	switch minRole {
	case "Contract":
		doc.AuthContract = true
		fallthrough
	case "Employee":
		doc.AuthEmployee = true
		fallthrough
	case "Manager":
		doc.AuthManager = true
		fallthrough
	case "Executive":
		doc.AuthExecutive = true
	default:
		doc.AuthExecutive = true
	}
}
