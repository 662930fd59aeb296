package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/database"
	"ai-assistant-be/pkg/stepmode"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestSideChatDiscardFlow(t *testing.T) {
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

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	sideChatService := service.NewSideChatService(
		uowFactory,
		nil, // combine is not exercised here
		nil,
		logger.NewIsolatedLogger("logs/integration_test.log"),
	)

	ctx := context.Background()
	uow := uowFactory.NewUnitOfWork(ctx)

	userId := uuid.New()
	sessionId := uuid.New()
	session := &entity.ChatSession{
		Id:          sessionId,
		UserId:      userId,
		Title:       "Discard Flow " + uuid.New().String(),
		StepContext: stepmode.NewContext(),
	}
	err = uow.ChatSessionRepository().Create(ctx, session)
	assert.NoError(t, err)

	created, err := sideChatService.Create(ctx, userId, &dto.CreateSideChatRequest{
		ParentChatId: sessionId,
		StepNumber:   1,
		StepContent:  "Install the CLI",
	})
	assert.NoError(t, err)
	assert.Equal(t, "open", created.Status)

	_, err = sideChatService.AddMessage(ctx, userId, created.Id, &dto.AddSideChatMessageRequest{
		Role: "user",
		Chat: "Which version should I install?",
	})
	assert.NoError(t, err)

	err = sideChatService.Discard(ctx, userId, created.Id)
	assert.NoError(t, err)

	// The soft delete hides the side chat from every subsequent read.
	_, err = sideChatService.GetMessages(ctx, userId, created.Id)
	assert.Error(t, err)

	found, err := uow.SideChatRepository().FindOne(ctx, specification.ByID{ID: created.Id})
	assert.NoError(t, err)
	assert.Nil(t, found)

	t.Log("Discarded side chat is gone from all default-scope queries")
}
