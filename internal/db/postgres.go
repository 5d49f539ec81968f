package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	types "github.com/talkbase/talkbase-backend/internal/domain"
	"github.com/talkbase/talkbase-backend/internal/platform/envutil"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := envutil.Get("POSTGRES_HOST", "localhost", log)
	postgresPort := envutil.Get("POSTGRES_PORT", "5432", log)
	postgresUser := envutil.Get("POSTGRES_USER", "postgres", log)
	postgresPassword := envutil.Get("POSTGRES_PASSWORD", "", log)
	postgresName := envutil.Get("POSTGRES_NAME", "talkbase", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Contact{},
		&types.Tag{},
		&types.ContactGroup{},
		&types.ContactTag{},
		&types.ContactGroupMember{},
		&types.DuplicateDismissal{},
		&types.ContactMergeLog{},
		&types.Inbox{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring indexes and foreign key relationships for postgres tables...")
	ddl := []string{
		// Partial so soft-deleted contacts release their phone slot.
		`CREATE UNIQUE INDEX IF NOT EXISTS "idx_contact_account_phone"
		 ON "contact" ("account_id", "phone") WHERE "deleted_at" IS NULL`,
		`ALTER TABLE "contact_tag"
		 ADD CONSTRAINT "fk_contact_tag_contact_id"
		 FOREIGN KEY ("contact_id") REFERENCES "contact"("id") ON DELETE CASCADE`,
		`ALTER TABLE "contact_tag"
		 ADD CONSTRAINT "fk_contact_tag_tag_id"
		 FOREIGN KEY ("tag_id") REFERENCES "tag"("id") ON DELETE CASCADE`,
		`ALTER TABLE "contact_group_member"
		 ADD CONSTRAINT "fk_contact_group_member_contact_id"
		 FOREIGN KEY ("contact_id") REFERENCES "contact"("id") ON DELETE CASCADE`,
		`ALTER TABLE "contact_group_member"
		 ADD CONSTRAINT "fk_contact_group_member_group_id"
		 FOREIGN KEY ("group_id") REFERENCES "contact_group"("id") ON DELETE CASCADE`,
	}
	for _, stmt := range ddl {
		if err := s.db.Exec(stmt).Error; err != nil {
			// Re-running migrations hits "already exists"; only that is tolerated.
			s.log.Warn("FK DDL statement failed (continuing if already exists)", "error", err)
		}
	}
	return nil
}
