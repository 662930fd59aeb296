package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/database"
	"ai-assistant-be/pkg/stepmode"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ChatSessionRepository())
	assert.NotNil(t, uow.MessageEmbeddingRepository())
	assert.NotNil(t, uow.SideChatRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Chat Session Repository", func(t *testing.T) {
		count, err := uow.ChatSessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ChatSession count: %d", count)
	})

	t.Run("Check Message Embedding Repository", func(t *testing.T) {
		// Count implies the vector table exists
		embeddings, err := uow.MessageEmbeddingRepository().FindAll(context.Background(), specification.Limit{N: 1})
		assert.NoError(t, err)
		t.Logf("MessageEmbedding sample size: %d", len(embeddings))
	})

	t.Run("Check Transactional Session With Messages", func(t *testing.T) {
		userId := uuid.New()
		sessionId := uuid.New()

		session := &entity.ChatSession{
			Id:          sessionId,
			UserId:      userId,
			Title:       "Integration Session " + uuid.New().String(),
			StepContext: stepmode.NewContext(),
		}

		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		err = uow.ChatSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		messages := []*entity.ChatMessage{
			{Id: uuid.New(), Chat: "Hello there", Role: constant.RoleUser, ChatSessionId: sessionId},
			{Id: uuid.New(), Chat: "Hi! How can I help?", Role: constant.RoleAssistant, ChatSessionId: sessionId},
		}
		err = uow.ChatMessageRepository().CreateBulk(ctx, messages)
		assert.NoError(t, err)

		boundary := &entity.TopicBoundary{
			Id:                uuid.New(),
			OriginalChatId:    sessionId,
			NewChatId:         uuid.New(),
			TriggeringMessage: "Switching topics now",
			OldTopic:          "greetings",
			NewTopic:          "deployment",
			Confidence:        0.91,
		}
		err = uow.TopicBoundaryRepository().Create(ctx, boundary)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		// Read back through specifications
		found, err := uow.ChatMessageRepository().FindAll(ctx, specification.ByChatSessionID{ChatSessionID: sessionId})
		assert.NoError(t, err)
		assert.Len(t, found, 2)

		t.Log("Successfully created Session with Messages and Boundary in Transaction")
	})
}
