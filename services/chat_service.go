package services

import (
	"context"
	"log/slog"

	"stayfinder-backend/models"
	"stayfinder-backend/pkg/apperrors"
	"stayfinder-backend/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ChatService is the chat room registry: it owns room creation, lookup and
// the latest-message pointer.
type ChatService struct {
	rooms repository.ChatRoomRepository
	users repository.UserRepository
	msgs  repository.MessageRepository
}

func NewChatService(rooms repository.ChatRoomRepository, users repository.UserRepository, msgs repository.MessageRepository) *ChatService {
	return &ChatService{rooms: rooms, users: users, msgs: msgs}
}

// CreateOrGet returns the room for the unordered pair (userA, userB),
// creating it if absent. The pair is normalized first, so argument order
// never produces a second room. postID, when non-zero, records the listing
// the conversation started from (only stamped at creation).
func (s *ChatService) CreateOrGet(ctx context.Context, userA, userB, postID bson.ObjectID) (*models.ChatRoom, error) {
	if userA == userB {
		return nil, apperrors.InvalidArg("cannot open a chat room with yourself")
	}
	for _, id := range []bson.ObjectID{userA, userB} {
		if _, err := s.users.FindByID(ctx, id); err == repository.ErrNotFound {
			return nil, apperrors.InvalidArg("participant " + id.Hex() + " does not exist")
		} else if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to check participant", err)
		}
	}

	pair := models.NormalizePair(userA, userB)

	room, err := s.rooms.FindByParticipants(ctx, pair)
	if err == nil {
		return room, nil
	}
	if err != repository.ErrNotFound {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to look up room", err)
	}

	room, err = s.rooms.Create(ctx, &models.ChatRoom{
		Participants: pair,
		PostID:       postID,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create room", err)
	}
	return room, nil
}

func (s *ChatService) Get(ctx context.Context, roomID bson.ObjectID) (*models.ChatRoom, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err == repository.ErrNotFound {
		return nil, apperrors.ErrRoomNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load room", err)
	}
	return room, nil
}

// RecordLatestMessage is best-effort: an unknown room or a store failure is
// logged and swallowed, callers never fail a send on it.
func (s *ChatService) RecordLatestMessage(ctx context.Context, roomID, messageID bson.ObjectID) {
	if err := s.rooms.SetLatestMessage(ctx, roomID, messageID); err != nil {
		slog.Warn("failed to record latest message",
			"room", roomID.Hex(), "message", messageID.Hex(), "err", err)
	}
}

// ListForUser resolves the user's conversations for the chat-list view,
// newest activity first.
func (s *ChatService) ListForUser(ctx context.Context, userID bson.ObjectID) ([]models.Conversation, error) {
	rooms, err := s.rooms.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list rooms", err)
	}

	userCache := make(map[bson.ObjectID]*models.User)
	convos := make([]models.Conversation, 0, len(rooms))
	for _, room := range rooms {
		convo := models.Conversation{
			ID:        room.ID,
			PostID:    room.PostID,
			UpdatedAt: room.UpdatedAt,
		}
		for _, pid := range room.Participants {
			u, ok := userCache[pid]
			if !ok {
				u, err = s.users.FindByID(ctx, pid)
				if err != nil {
					// A deleted participant should not hide the conversation.
					slog.Warn("failed to resolve participant", "user", pid.Hex(), "err", err)
					continue
				}
				userCache[pid] = u
			}
			convo.Participants = append(convo.Participants, u.Public())
		}
		if !room.LatestMessage.IsZero() {
			if msg, err := s.msgs.FindByID(ctx, room.LatestMessage); err == nil {
				convo.LatestMessage = msg
			}
		}
		convos = append(convos, convo)
	}
	return convos, nil
}
