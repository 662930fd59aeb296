package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService computes and stores message embeddings off the
// request path so SendChat latency stays bounded.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedChatMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatMessage, err := uow.ChatMessageRepository().FindOne(ctx, specification.ByID{ID: payload.ChatMessageId})
	if err != nil {
		log.Printf("[ERROR] Failed to get chat message %s: %v", payload.ChatMessageId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if chatMessage == nil {
		log.Printf("[ERROR] Chat message not found: %s", payload.ChatMessageId)
		msg.Ack() // Message deleted? Ack.
		return
	}

	res, err := cs.embeddingProvider.Generate(chatMessage.Chat, embedding.TaskTypeDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for message %s: %v", payload.ChatMessageId, err)
		msg.Nack()
		return
	}

	newEmbedding := &entity.MessageEmbedding{
		Id:             uuid.New(),
		ChatMessageId:  chatMessage.Id,
		ChatSessionId:  payload.ChatSessionId,
		EmbeddingValue: res.Embedding.Values,
		CreatedAt:      time.Now(),
	}

	if err := uow.MessageEmbeddingRepository().Create(ctx, newEmbedding); err != nil {
		log.Printf("[ERROR] Failed to store embedding for message %s: %v", payload.ChatMessageId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
