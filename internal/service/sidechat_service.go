package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"
	pkgNats "ai-assistant-be/pkg/nats"
	"ai-assistant-be/pkg/sidechat"

	"github.com/google/uuid"
)

// ISideChatService manages step-scoped side discussions.
type ISideChatService interface {
	Create(ctx context.Context, userId uuid.UUID, request *dto.CreateSideChatRequest) (*dto.SideChatResponse, error)
	GetByParentChat(ctx context.Context, userId uuid.UUID, parentChatId uuid.UUID) ([]*dto.SideChatResponse, error)
	GetMessages(ctx context.Context, userId uuid.UUID, sideChatId uuid.UUID) ([]*dto.SideChatMessageResponse, error)
	AddMessage(ctx context.Context, userId uuid.UUID, sideChatId uuid.UUID, request *dto.AddSideChatMessageRequest) (*dto.SideChatMessageResponse, error)
	Combine(ctx context.Context, userId uuid.UUID, sideChatId uuid.UUID) (*dto.CombineSideChatResponse, error)
	Discard(ctx context.Context, userId uuid.UUID, sideChatId uuid.UUID) error
}

type sideChatService struct {
	uowFactory unitofwork.RepositoryFactory
	combiner   *sidechat.Combiner
	natsPub    *pkgNats.Publisher
	sysLogger  logger.ILogger
}

func NewSideChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	natsPub *pkgNats.Publisher,
	sysLogger logger.ILogger,
) ISideChatService {
	return &sideChatService{
		uowFactory: uowFactory,
		combiner:   sidechat.NewCombiner(llmProvider, initSideChatLogger()),
		natsPub:    natsPub,
		sysLogger:  sysLogger,
	}
}

func initSideChatLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_sidechat.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[SIDECHAT] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

func (ss *sideChatService) Create(ctx context.Context, userId uuid.UUID, request *dto.CreateSideChatRequest) (*dto.SideChatResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	parent, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: request.ParentChatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("parent chat not found or access denied")
	}

	sideChat := entity.SideChat{
		Id:           uuid.New(),
		UserId:       userId,
		ParentChatId: parent.Id,
		StepNumber:   request.StepNumber,
		StepContent:  request.StepContent,
		Status:       constant.SideChatStatusOpen,
		CreatedAt:    time.Now(),
	}

	if err := uow.SideChatRepository().Create(ctx, &sideChat); err != nil {
		return nil, err
	}

	return sideChatToResponse(&sideChat), nil
}

func (ss *sideChatService) GetByParentChat(ctx context.Context, userId uuid.UUID, parentChatId uuid.UUID) ([]*dto.SideChatResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	sideChats, err := uow.SideChatRepository().FindAll(ctx,
		specification.ByParentChatID{ParentChatID: parentChatId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SideChatResponse, 0, len(sideChats))
	for _, sc := range sideChats {
		response = append(response, sideChatToResponse(sc))
	}
	return response, nil
}

func (ss *sideChatService) GetMessages(ctx context.Context, userId uuid.UUID, sideChatId uuid.UUID) ([]*dto.SideChatMessageResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	sideChat, err := ss.findOwnedSideChat(ctx, uow, userId, sideChatId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.SideChatMessageRepository().FindAll(ctx,
		specification.BySideChatID{SideChatID: sideChat.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SideChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, &dto.SideChatMessageResponse{
			Id:         msg.Id,
			SideChatId: msg.SideChatId,
			Role:       msg.Role,
			Chat:       msg.Chat,
			CreatedAt:  msg.CreatedAt,
		})
	}
	return response, nil
}

func (ss *sideChatService) AddMessage(ctx context.Context, userId uuid.UUID, sideChatId uuid.UUID, request *dto.AddSideChatMessageRequest) (*dto.SideChatMessageResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	sideChat, err := ss.findOwnedSideChat(ctx, uow, userId, sideChatId)
	if err != nil {
		return nil, err
	}
	if sideChat.Status != constant.SideChatStatusOpen {
		return nil, fmt.Errorf("side chat is %s, only open side chats accept messages", sideChat.Status)
	}

	message := entity.SideChatMessage{
		Id:         uuid.New(),
		SideChatId: sideChat.Id,
		Role:       request.Role,
		Chat:       request.Chat,
		CreatedAt:  time.Now(),
	}

	if err := uow.SideChatMessageRepository().Create(ctx, &message); err != nil {
		return nil, err
	}

	return &dto.SideChatMessageResponse{
		Id:         message.Id,
		SideChatId: message.SideChatId,
		Role:       message.Role,
		Chat:       message.Chat,
		CreatedAt:  message.CreatedAt,
	}, nil
}

// Combine rewrites the anchored step from the side discussion and
// posts the result into the parent chat.
func (ss *sideChatService) Combine(ctx context.Context, userId uuid.UUID, sideChatId uuid.UUID) (*dto.CombineSideChatResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	sideChat, err := ss.findOwnedSideChat(ctx, uow, userId, sideChatId)
	if err != nil {
		return nil, err
	}
	if sideChat.Status != constant.SideChatStatusOpen {
		return nil, fmt.Errorf("side chat is %s, only open side chats can be combined", sideChat.Status)
	}

	messages, err := uow.SideChatMessageRepository().FindAll(ctx,
		specification.BySideChatID{SideChatID: sideChat.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	sideMessages := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		sideMessages = append(sideMessages, llm.Message{Role: msg.Role, Content: msg.Chat})
	}

	combined, ok := ss.combiner.GenerateCombinedStep(ctx, sideChat.StepContent, sideMessages)
	if !ok {
		return nil, fmt.Errorf("failed to generate combined step")
	}

	now := time.Now()
	reply := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          combined,
		Role:          constant.RoleAssistant,
		ChatSessionId: sideChat.ParentChatId,
		CreatedAt:     now,
	}
	sideChat.Status = constant.SideChatStatusCombined

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().Create(ctx, &reply); err != nil {
		return nil, err
	}
	if err := uow.SideChatRepository().Update(ctx, sideChat); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if ss.natsPub != nil {
		event := events.NewSideChatCombinedEvent(sideChat.Id, sideChat.ParentChatId, userId)
		if err := ss.natsPub.Publish(ctx, event); err != nil {
			ss.sysLogger.Warn("SideChatService", "Failed to publish combine event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.CombineSideChatResponse{
		SideChatId:     sideChat.Id,
		ParentChatId:   sideChat.ParentChatId,
		CombinedStep:   combined,
		ReplyMessageId: reply.Id,
	}, nil
}

func (ss *sideChatService) Discard(ctx context.Context, userId uuid.UUID, sideChatId uuid.UUID) error {
	uow := ss.uowFactory.NewUnitOfWork(ctx)

	sideChat, err := ss.findOwnedSideChat(ctx, uow, userId, sideChatId)
	if err != nil {
		return err
	}

	// The soft delete hides the row from every query, so a status
	// write alongside it would never be observable.
	return uow.SideChatRepository().Delete(ctx, sideChat.Id)
}

func (ss *sideChatService) findOwnedSideChat(ctx context.Context, uow unitofwork.UnitOfWork, userId, sideChatId uuid.UUID) (*entity.SideChat, error) {
	sideChat, err := uow.SideChatRepository().FindOne(ctx,
		specification.ByID{ID: sideChatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if sideChat == nil {
		return nil, fmt.Errorf("side chat not found or access denied")
	}
	return sideChat, nil
}

func sideChatToResponse(sc *entity.SideChat) *dto.SideChatResponse {
	return &dto.SideChatResponse{
		Id:           sc.Id,
		ParentChatId: sc.ParentChatId,
		StepNumber:   sc.StepNumber,
		StepContent:  sc.StepContent,
		Status:       sc.Status,
		CreatedAt:    sc.CreatedAt,
		UpdatedAt:    sc.UpdatedAt,
	}
}
