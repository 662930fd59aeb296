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
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/memory"
	pkgNats "ai-assistant-be/pkg/nats"
	"ai-assistant-be/pkg/splitter"
	"ai-assistant-be/pkg/stepmode"
	"ai-assistant-be/pkg/topic"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// IChatService defines the chat service interface
type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error

	NextStep(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NextStepResponse, error)
	AllSteps(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.AllStepsResponse, error)
	ToggleStepMode(ctx context.Context, userId uuid.UUID, request *dto.ToggleStepModeRequest) (*dto.StepStatusResponse, error)

	GetTopicBoundaries(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.TopicBoundaryResponse, error)
}

// chatService coordinates the segmentation domain components around
// the persistence and messaging layers.
type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	llmProvider       llm.LLMProvider
	publisherService  IPublisherService
	natsPub           *pkgNats.Publisher
	sysLogger         logger.ILogger

	classifier   *topic.Classifier
	orchestrator *splitter.Orchestrator
	extractor    *memory.Extractor

	// recentCache holds per-session embedding windows and per-user
	// memory facts so hot sessions skip the vector table.
	recentCache *gocache.Cache

	topicConfig topic.Config
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	llmProvider llm.LLMProvider,
	publisherService IPublisherService,
	natsPub *pkgNats.Publisher,
	sysLogger logger.ILogger,
	topicConfig topic.Config,
	splitConfig splitter.Config,
) IChatService {
	domainLogger := initDomainLogger()

	return &chatService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		publisherService:  publisherService,
		natsPub:           natsPub,
		sysLogger:         sysLogger,
		classifier:        topic.NewClassifier(topicConfig, llmProvider, domainLogger),
		orchestrator:      splitter.NewOrchestrator(splitConfig, llmProvider, domainLogger),
		extractor:         memory.NewExtractor(llmProvider, domainLogger),
		recentCache:       gocache.New(10*time.Minute, 30*time.Minute),
		topicConfig:       topicConfig,
	}
}

func initDomainLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_segmentation.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[SEGMENTATION] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// CreateSession creates a new chat session
func (cs *chatService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.CreateSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chatSession := entity.ChatSession{
		Id:          uuid.New(),
		UserId:      userId,
		Title:       "Unnamed session",
		StepContext: stepmode.NewContext(),
		CreatedAt:   now,
	}

	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          fmt.Sprintf("Hi, I'm %s. How can I help you?", constant.PersonaName),
		Role:          constant.RoleAssistant,
		ChatSessionId: chatSession.Id,
		CreatedAt:     now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: chatSession.Id}, nil
}

// GetAllSessions retrieves all chat sessions
func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetAllSessionsResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.GetAllSessionsResponse{
			Id:           s.Id,
			Title:        s.Title,
			ParentChatId: s.ParentChatId,
			TopicSummary: s.TopicSummary,
			CreatedAt:    s.CreatedAt,
			UpdatedAt:    s.UpdatedAt,
		})
	}

	return response, nil
}

// GetChatHistory retrieves chat history for a session
func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sess, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sess.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.GetChatHistoryResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		response = append(response, &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Chat:      msg.Chat,
			CreatedAt: msg.CreatedAt,
		})
	}

	return response, nil
}

// SendChat handles one user turn: topic classification, optional chat
// split, step-mode intents, model reply, leak repair, persistence.
func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	// Step-mode intent short-circuits never reach the model.
	if session.StepContext.StepModeEnabled && session.StepContext.ActivePlan {
		if stepmode.IsAdvanceRequest(request.Chat) {
			return cs.handleAdvanceIntent(ctx, uow, session, request.Chat)
		}
		if stepmode.IsFullPlanRequest(request.Chat) {
			return cs.handleFullPlanIntent(ctx, uow, session, request.Chat)
		}
	}

	// Classify the incoming message against the session's recent
	// embedding window.
	decision := cs.classifyMessage(ctx, uow, session, request.Chat)

	var splitInfo *dto.SplitInfo
	targetSession := session
	var sentMessage *entity.ChatMessage

	if decision.ShouldSplit {
		newSession, sent, info, splitErr := cs.executeSplit(ctx, session, request.Chat, decision)
		if splitErr != nil {
			// A failed split must not lose the user's message; fall
			// back to continuing in the original session.
			cs.sysLogger.Error("ChatService", "Split failed, continuing in original session", map[string]interface{}{
				"error":   splitErr.Error(),
				"session": session.Id,
			})
		} else {
			targetSession = newSession
			sentMessage = sent
			splitInfo = info
		}
	}

	if sentMessage == nil {
		sentMessage = &entity.ChatMessage{
			Id:            uuid.New(),
			Chat:          request.Chat,
			Role:          constant.RoleUser,
			ChatSessionId: targetSession.Id,
			CreatedAt:     time.Now(),
		}
		if err := uow.ChatMessageRepository().Create(ctx, sentMessage); err != nil {
			return nil, err
		}
	}

	// Build model history: persona system prompt, user memories, prior
	// turns, the new message.
	history, err := cs.buildModelHistory(ctx, uow, targetSession, request.Chat)
	if err != nil {
		return nil, err
	}

	replyContent, err := cs.llmProvider.Chat(ctx, history)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}

	replyContent, stepCtx := cs.applyStepModePostProcessing(replyContent, targetSession.StepContext)
	targetSession.StepContext = stepCtx

	replyMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          replyContent,
		Role:          constant.RoleAssistant,
		ChatSessionId: targetSession.Id,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &replyMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Update(ctx, targetSession); err != nil {
		return nil, err
	}

	cs.publishEmbedEvents(ctx, targetSession.Id, sentMessage.Id, replyMessage.Id)
	go cs.extractMemories(userId, history, replyContent)

	return &dto.SendChatResponse{
		ChatSessionId:    targetSession.Id,
		ChatSessionTitle: targetSession.Title,
		Sent: &dto.SendChatResponseChat{
			Id:        sentMessage.Id,
			Chat:      sentMessage.Chat,
			Role:      sentMessage.Role,
			CreatedAt: sentMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        replyMessage.Id,
			Chat:      replyMessage.Chat,
			Role:      replyMessage.Role,
			CreatedAt: replyMessage.CreatedAt,
		},
		Split: splitInfo,
	}, nil
}

// DeleteSession removes a session with its messages and embeddings.
func (cs *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, request *dto.DeleteSessionRequest) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageEmbeddingRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	cs.recentCache.Delete(embeddingCacheKey(session.Id))
	return nil
}

// NextStep advances the session's plan by one step.
func (cs *chatService) NextStep(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.NextStepResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	result := stepmode.NextStep(&session.StepContext)
	if result == nil {
		return nil, fmt.Errorf("no active plan")
	}
	session.StepContext = result.Context

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.NextStepResponse{
		Content: result.Content,
		Status:  stepStatus(session.StepContext),
	}, nil
}

// AllSteps returns the remaining plan without advancing the counter.
func (cs *chatService) AllSteps(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.AllStepsResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	overview := stepmode.AllSteps(session.StepContext)
	if overview == nil {
		return nil, fmt.Errorf("no active plan")
	}

	return &dto.AllStepsResponse{
		PlanSummary:         overview.PlanSummary,
		FullPlan:            overview.FullPlan,
		CurrentStep:         overview.CurrentStep,
		TotalStepsEstimated: overview.TotalStepsEstimated,
	}, nil
}

// ToggleStepMode flips step mode for a session. Disabling clears any
// active plan.
func (cs *chatService) ToggleStepMode(ctx context.Context, userId uuid.UUID, request *dto.ToggleStepModeRequest) (*dto.StepStatusResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, request.ChatSessionId)
	if err != nil {
		return nil, err
	}

	session.StepContext.StepModeEnabled = request.Enabled
	if !request.Enabled {
		session.StepContext = stepmode.Context{StepModeEnabled: false}
	}

	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	status := stepStatus(session.StepContext)
	return &status, nil
}

// GetTopicBoundaries lists splits recorded for a session.
func (cs *chatService) GetTopicBoundaries(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]*dto.TopicBoundaryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := cs.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	boundaries, err := uow.TopicBoundaryRepository().FindAll(ctx,
		specification.ByOriginalChatID{OriginalChatID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.TopicBoundaryResponse, 0, len(boundaries))
	for _, b := range boundaries {
		response = append(response, &dto.TopicBoundaryResponse{
			Id:                b.Id,
			OriginalChatId:    b.OriginalChatId,
			NewChatId:         b.NewChatId,
			TriggeringMessage: b.TriggeringMessage,
			OldTopic:          b.OldTopic,
			NewTopic:          b.NewTopic,
			Confidence:        b.Confidence,
			CreatedAt:         b.CreatedAt,
		})
	}

	return response, nil
}

// --- internals ---

func (cs *chatService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}
	return session, nil
}

func embeddingCacheKey(sessionId uuid.UUID) string {
	return "embeddings:" + sessionId.String()
}

func memoriesCacheKey(userId uuid.UUID) string {
	return "memories:" + userId.String()
}

// classifyMessage embeds the incoming message and runs the topic shift
// classifier. Any infrastructure failure resolves to no-split.
func (cs *chatService) classifyMessage(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, chat string) topic.Decision {
	noSplit := topic.Decision{ShouldSplit: false, SimilarityScore: 1.0}

	res, err := cs.embeddingProvider.Generate(chat, embedding.TaskTypeQuery)
	if err != nil {
		cs.sysLogger.Warn("ChatService", "Embedding failed, skipping classification", map[string]interface{}{
			"error":   err.Error(),
			"session": session.Id,
		})
		return noSplit
	}

	recent := cs.loadRecentEmbeddings(ctx, uow, session.Id)

	messageCount, err := uow.ChatMessageRepository().Count(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
	)
	if err != nil {
		messageCount = int64(len(recent))
	}

	decision := cs.classifier.Classify(ctx, topic.Input{
		NewMessage:       chat,
		NewEmbedding:     res.Embedding.Values,
		RecentEmbeddings: recent,
		TopicSummary:     session.TopicSummary,
		MessageCount:     int(messageCount),
	})

	// Keep the window warm for the next turn.
	updated := append(recent, res.Embedding.Values)
	if len(updated) > cs.topicConfig.EmbeddingWindow {
		updated = updated[len(updated)-cs.topicConfig.EmbeddingWindow:]
	}
	cs.recentCache.Set(embeddingCacheKey(session.Id), updated, gocache.DefaultExpiration)

	return decision
}

func (cs *chatService) loadRecentEmbeddings(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) [][]float32 {
	if cached, found := cs.recentCache.Get(embeddingCacheKey(sessionId)); found {
		if vectors, ok := cached.([][]float32); ok {
			return vectors
		}
	}

	stored, err := uow.MessageEmbeddingRepository().FindRecentBySession(ctx, sessionId, cs.topicConfig.EmbeddingWindow)
	if err != nil {
		cs.sysLogger.Warn("ChatService", "Failed to load recent embeddings", map[string]interface{}{
			"error":   err.Error(),
			"session": sessionId,
		})
		return nil
	}

	vectors := make([][]float32, 0, len(stored))
	for _, e := range stored {
		vectors = append(vectors, e.EmbeddingValue)
	}
	return vectors
}

// executeSplit runs the orchestrator and persists the new session,
// the boundary record and the carried messages in one transaction.
func (cs *chatService) executeSplit(ctx context.Context, session *entity.ChatSession, chat string, decision topic.Decision) (*entity.ChatSession, *entity.ChatMessage, *dto.SplitInfo, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	recentMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, nil, nil, err
	}

	contextMessages := make([]llm.Message, 0, len(recentMessages))
	for _, msg := range recentMessages {
		contextMessages = append(contextMessages, llm.Message{Role: msg.Role, Content: msg.Chat})
	}

	outcome := cs.orchestrator.ExecuteSplit(ctx, splitter.Request{
		OriginalChatID: session.Id,
		UserID:         session.UserId,
		Messages:       contextMessages,
		TriggeringMessage: llm.Message{
			Role:    constant.RoleUser,
			Content: chat,
		},
		NewTopicName: decision.NewTopicName,
		OldTopicName: session.TopicSummary,
		Confidence:   decision.Confidence,
	})

	now := time.Now()
	newSession := &entity.ChatSession{
		Id:           outcome.NewChat.ID,
		UserId:       session.UserId,
		Title:        outcome.Result.NewChatTitle,
		ParentChatId: &session.Id,
		TopicSummary: decision.NewTopicName,
		SplitSummary: outcome.Result.ContextSummary,
		StepContext:  stepmode.NewContext(),
		CreatedAt:    now,
	}

	boundary := &entity.TopicBoundary{
		Id:                uuid.New(),
		OriginalChatId:    outcome.Boundary.OriginalChatID,
		NewChatId:         outcome.Boundary.NewChatID,
		TriggeringMessage: outcome.Boundary.TriggeringMessage,
		OldTopic:          outcome.Boundary.OldTopic,
		NewTopic:          outcome.Boundary.NewTopic,
		Confidence:        outcome.Boundary.Confidence,
		CreatedAt:         outcome.Boundary.SplitTimestamp,
	}

	if outcome.Result.OriginalChatNewTitle != "" {
		session.Title = outcome.Result.OriginalChatNewTitle
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, nil, nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatSessionRepository().Create(ctx, newSession); err != nil {
		return nil, nil, nil, err
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, nil, nil, err
	}
	if err := uow.TopicBoundaryRepository().Create(ctx, boundary); err != nil {
		return nil, nil, nil, err
	}

	// Carry the synthesized context message and the verbatim
	// triggering message into the new session.
	var sentMessage *entity.ChatMessage
	for i, msg := range outcome.NewChat.Messages {
		carried := &entity.ChatMessage{
			Id:            uuid.New(),
			Chat:          msg.Content,
			Role:          msg.Role,
			ChatSessionId: newSession.Id,
			CreatedAt:     now.Add(time.Duration(i) * time.Millisecond),
		}
		if err := uow.ChatMessageRepository().Create(ctx, carried); err != nil {
			return nil, nil, nil, err
		}
		if msg.Role == constant.RoleUser {
			sentMessage = carried
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, nil, nil, err
	}

	// The old embedding window belongs to the old topic.
	cs.recentCache.Delete(embeddingCacheKey(session.Id))

	// The alert service picks this event up off the bus and pushes the
	// websocket banner to the owning user.
	if cs.natsPub != nil {
		event := events.NewChatSplitEvent(session.Id, newSession.Id, session.UserId, newSession.Title, decision.Confidence)
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			cs.sysLogger.Warn("ChatService", "Failed to publish split event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	info := &dto.SplitInfo{
		NewChatId:       newSession.Id,
		NewChatTitle:    newSession.Title,
		OriginalRenamed: outcome.Result.OriginalChatNewTitle,
		Confidence:      decision.Confidence,
	}

	return newSession, sentMessage, info, nil
}

func (cs *chatService) buildModelHistory(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, chat string) ([]llm.Message, error) {
	stored, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(stored)+2)

	if memories := cs.loadMemories(session.UserId); memories != "" {
		history = append(history, llm.Message{Role: constant.RoleSystem, Content: memories})
	}

	for _, msg := range stored {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Chat})
	}

	// The triggering message is already persisted (and thus part of
	// stored) only after a split; otherwise append it.
	if len(history) == 0 || history[len(history)-1].Content != chat || history[len(history)-1].Role != constant.RoleUser {
		history = append(history, llm.Message{Role: constant.RoleUser, Content: chat})
	}

	return stepmode.InjectSystemPrompt(history, session.StepContext), nil
}

// applyStepModePostProcessing consumes step metadata and repairs
// multi-step leaks in the model reply.
func (cs *chatService) applyStepModePostProcessing(reply string, stepCtx stepmode.Context) (string, stepmode.Context) {
	meta := stepmode.ExtractMetadata(reply)
	reply = stepmode.StripMetadata(reply)

	if meta != nil {
		stepCtx.CurrentStep = meta.Current
		stepCtx.TotalStepsEstimated = meta.TotalEstimated
		stepCtx.PlanSummary = meta.PlanSummary
		// Metadata-driven plans advance through the conversation, not
		// from a cached remainder. An active plan always has a cache,
		// so NextStep and the advance intents stay consistent with the
		// status endpoint.
		stepCtx.ActivePlan = stepCtx.FullPlanCache != nil && *stepCtx.FullPlanCache != ""
		return reply, stepCtx
	}

	if stepCtx.StepModeEnabled && stepmode.DetectMultiStepLeak(reply) {
		first, remaining := stepmode.SplitFirstStep(reply)
		if remaining != "" {
			stepCtx.ActivePlan = true
			stepCtx.CurrentStep = 1
			stepCtx.FullPlanCache = &remaining
			if stepCtx.PlanSummary == "" {
				stepCtx.PlanSummary = "multi-step plan"
			}
			return first, stepCtx
		}
	}

	return reply, stepCtx
}

func (cs *chatService) handleAdvanceIntent(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, chat string) (*dto.SendChatResponse, error) {
	result := stepmode.NextStep(&session.StepContext)

	var replyContent string
	if result == nil {
		replyContent = "There are no more steps in the current plan."
	} else {
		session.StepContext = result.Context
		replyContent = result.Content
	}

	return cs.persistIntentTurn(ctx, uow, session, chat, replyContent)
}

func (cs *chatService) handleFullPlanIntent(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, chat string) (*dto.SendChatResponse, error) {
	overview := stepmode.AllSteps(session.StepContext)

	var replyContent string
	if overview == nil || overview.FullPlan == "" {
		replyContent = "There is no remaining plan to show."
	} else {
		replyContent = fmt.Sprintf("Here is the remaining plan for %s (you are on step %d of ~%d):\n\n%s",
			overview.PlanSummary, overview.CurrentStep, overview.TotalStepsEstimated, overview.FullPlan)
	}

	return cs.persistIntentTurn(ctx, uow, session, chat, replyContent)
}

func (cs *chatService) persistIntentTurn(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.ChatSession, chat, replyContent string) (*dto.SendChatResponse, error) {
	now := time.Now()

	sentMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          chat,
		Role:          constant.RoleUser,
		ChatSessionId: session.Id,
		CreatedAt:     now,
	}
	replyMessage := entity.ChatMessage{
		Id:            uuid.New(),
		Chat:          replyContent,
		Role:          constant.RoleAssistant,
		ChatSessionId: session.Id,
		CreatedAt:     now.Add(time.Millisecond),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().CreateBulk(ctx, []*entity.ChatMessage{&sentMessage, &replyMessage}); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Sent: &dto.SendChatResponseChat{
			Id:        sentMessage.Id,
			Chat:      sentMessage.Chat,
			Role:      sentMessage.Role,
			CreatedAt: sentMessage.CreatedAt,
		},
		Reply: &dto.SendChatResponseChat{
			Id:        replyMessage.Id,
			Chat:      replyMessage.Chat,
			Role:      replyMessage.Role,
			CreatedAt: replyMessage.CreatedAt,
		},
	}, nil
}

func (cs *chatService) publishEmbedEvents(ctx context.Context, sessionId uuid.UUID, messageIds ...uuid.UUID) {
	if cs.publisherService == nil {
		return
	}
	for _, id := range messageIds {
		payload := dto.PublishEmbedChatMessage{
			ChatMessageId: id,
			ChatSessionId: sessionId,
		}
		if err := cs.publisherService.PublishEmbedChatMessage(ctx, payload); err != nil {
			cs.sysLogger.Warn("ChatService", "Failed to publish embed event", map[string]interface{}{
				"error":      err.Error(),
				"message_id": id,
			})
		}
	}
}

func (cs *chatService) loadMemories(userId uuid.UUID) string {
	cached, found := cs.recentCache.Get(memoriesCacheKey(userId))
	if !found {
		return ""
	}
	memories, ok := cached.([]string)
	if !ok || len(memories) == 0 {
		return ""
	}
	return memory.FormatMemoriesForPrompt(memories, memory.DefaultMaxMemories)
}

// extractMemories runs fact extraction off the request path.
func (cs *chatService) extractMemories(userId uuid.UUID, history []llm.Message, replyContent string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var existing []string
	if cached, found := cs.recentCache.Get(memoriesCacheKey(userId)); found {
		if memories, ok := cached.([]string); ok {
			existing = memories
		}
	}

	conversation := append(append([]llm.Message{}, history...), llm.Message{
		Role:    constant.RoleAssistant,
		Content: replyContent,
	})

	facts := cs.extractor.ExtractFacts(ctx, conversation, existing)
	if len(facts) == 0 {
		return
	}

	updated := existing
	for _, f := range facts {
		if !f.IsNew {
			continue
		}
		updated = append(updated, f.Content)
	}
	if len(updated) == len(existing) {
		return
	}
	cs.recentCache.Set(memoriesCacheKey(userId), updated, gocache.NoExpiration)
}

func stepStatus(c stepmode.Context) dto.StepStatusResponse {
	return dto.StepStatusResponse{
		ActivePlan:          c.ActivePlan,
		CurrentStep:         c.CurrentStep,
		TotalStepsEstimated: c.TotalStepsEstimated,
		PlanSummary:         c.PlanSummary,
		StepModeEnabled:     c.StepModeEnabled,
	}
}
