package services

import (
	"context"
	"strconv"
	"time"

	"stayfinder-backend/config"
	"stayfinder-backend/models"
	"stayfinder-backend/pkg/apperrors"
	"stayfinder-backend/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Broadcaster fans a stored message out to connected sockets. Declared here
// to avoid an import cycle with the ws package; the hub implements it.
type Broadcaster interface {
	BroadcastMessage(msg models.Message, senderName string)
}

type MessageService struct {
	msgs     repository.MessageRepository
	users    repository.UserRepository
	registry *ChatService
	hub      Broadcaster
	config   *config.Config
}

func NewMessageService(msgs repository.MessageRepository, users repository.UserRepository, registry *ChatService, hub Broadcaster, cfg *config.Config) *MessageService {
	return &MessageService{msgs: msgs, users: users, registry: registry, hub: hub, config: cfg}
}

// Send persists the message first and broadcasts only on success, so a
// transcript a client sees over the socket is always durably recorded.
// The latest-message pointer update stays best-effort.
func (s *MessageService) Send(ctx context.Context, roomID, senderID bson.ObjectID, content string) (*models.Message, error) {
	if content == "" {
		return nil, apperrors.ErrEmptyContent
	}
	if len(content) > s.config.MaxMessageLength {
		return nil, apperrors.InvalidArg("message too long (max " + strconv.Itoa(s.config.MaxMessageLength) + " characters)")
	}

	if _, err := s.registry.Get(ctx, roomID); err != nil {
		return nil, err
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err == repository.ErrNotFound {
		return nil, apperrors.InvalidArg("sender does not exist")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load sender", err)
	}

	msg := &models.Message{
		ChatRoomID: roomID,
		SenderID:   senderID,
		Content:    content,
		Timestamp:  time.Now(),
	}
	saved, err := s.msgs.Insert(ctx, msg)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to store message", err)
	}

	s.registry.RecordLatestMessage(ctx, roomID, saved.ID)

	pub := sender.Public()
	saved.Sender = &pub
	s.hub.BroadcastMessage(*saved, sender.Name)
	return saved, nil
}

// ListByRoom returns the full transcript, oldest first, with sender
// identities resolved. No pagination.
func (s *MessageService) ListByRoom(ctx context.Context, roomID bson.ObjectID) ([]models.Message, error) {
	if _, err := s.registry.Get(ctx, roomID); err != nil {
		return nil, err
	}

	msgs, err := s.msgs.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list messages", err)
	}

	userCache := make(map[bson.ObjectID]*models.PublicUser)
	for i := range msgs {
		pub, ok := userCache[msgs[i].SenderID]
		if !ok {
			user, err := s.users.FindByID(ctx, msgs[i].SenderID)
			if err != nil {
				continue
			}
			p := user.Public()
			pub = &p
			userCache[msgs[i].SenderID] = pub
		}
		msgs[i].Sender = pub
	}
	return msgs, nil
}
