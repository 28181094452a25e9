package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/voicedesk-team/voicedesk/internal/adapter/repository"
	"github.com/voicedesk-team/voicedesk/internal/domain/repositories"
	"github.com/voicedesk-team/voicedesk/internal/infrastructure/database"
	"github.com/voicedesk-team/voicedesk/internal/infrastructure/storage"
	"github.com/voicedesk-team/voicedesk/internal/usecase/repair"
	"github.com/voicedesk-team/voicedesk/pkg/config"
)

// Backfills contact details and topics on records ingested before the
// current extraction rules existed. Safe to re-run; it never overwrites a
// field that already has a value.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	var persistence repositories.RecordPersistence
	if cfg.Storage.Type == "postgres" {
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.CloseDB(db)
		persistence = storage.NewPostgresStore(db)
	} else {
		persistence = storage.NewFileStore(cfg.Storage.ConversationsPath())
	}

	repo := repository.NewConversationStore(persistence, logger)

	report, err := repair.Run(context.Background(), repo, logger)
	if err != nil {
		log.Fatalf("Repair pass failed: %v", err)
	}

	log.Printf("✅ Repair complete: scanned=%d updated=%d names=%d emails=%d phones=%d times=%d topics=%d",
		report.Scanned, report.Updated, report.FilledNames, report.FilledEmails,
		report.FilledPhones, report.FilledTimes, report.UpdatedTopics)
}
