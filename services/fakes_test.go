package services

import (
	"context"
	"sort"

	"stayfinder-backend/models"
	"stayfinder-backend/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory stand-ins for the mongo repositories.

type fakeUserRepo struct {
	users map[bson.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[bson.ObjectID]models.User)}
}

func (r *fakeUserRepo) add(name, email string) *models.User {
	u := models.User{ID: bson.NewObjectID(), Name: name, Email: email}
	r.users[u.ID] = u
	return &u
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = bson.NewObjectID()
	r.users[user.ID] = *user
	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByName(_ context.Context, name string) (*models.User, error) {
	for _, u := range r.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, id bson.ObjectID, name, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if name != "" {
		u.Name = name
	}
	if passwordHash != "" {
		u.Password = passwordHash
	}
	r.users[id] = u
	return nil
}

type fakeOtpRepo struct {
	otps map[string]models.Otp
}

func newFakeOtpRepo() *fakeOtpRepo {
	return &fakeOtpRepo{otps: make(map[string]models.Otp)}
}

func (r *fakeOtpRepo) Upsert(_ context.Context, otp *models.Otp) error {
	r.otps[otp.Email] = *otp
	return nil
}

func (r *fakeOtpRepo) FindByEmail(_ context.Context, email string) (*models.Otp, error) {
	o, ok := r.otps[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOtpRepo) DeleteByEmail(_ context.Context, email string) error {
	delete(r.otps, email)
	return nil
}

type fakeChatRoomRepo struct {
	rooms map[bson.ObjectID]models.ChatRoom
}

func newFakeChatRoomRepo() *fakeChatRoomRepo {
	return &fakeChatRoomRepo{rooms: make(map[bson.ObjectID]models.ChatRoom)}
}

func (r *fakeChatRoomRepo) Create(_ context.Context, room *models.ChatRoom) (*models.ChatRoom, error) {
	room.ID = bson.NewObjectID()
	r.rooms[room.ID] = *room
	return room, nil
}

func (r *fakeChatRoomRepo) FindByID(_ context.Context, id bson.ObjectID) (*models.ChatRoom, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

func (r *fakeChatRoomRepo) FindByParticipants(_ context.Context, pair []bson.ObjectID) (*models.ChatRoom, error) {
	for _, room := range r.rooms {
		if len(room.Participants) == 2 && room.Participants[0] == pair[0] && room.Participants[1] == pair[1] {
			return &room, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeChatRoomRepo) ListByParticipant(_ context.Context, userID bson.ObjectID) ([]models.ChatRoom, error) {
	var out []models.ChatRoom
	for _, room := range r.rooms {
		for _, pid := range room.Participants {
			if pid == userID {
				out = append(out, room)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *fakeChatRoomRepo) SetLatestMessage(_ context.Context, roomID, messageID bson.ObjectID) error {
	room, ok := r.rooms[roomID]
	if !ok {
		return repository.ErrNotFound
	}
	room.LatestMessage = messageID
	r.rooms[roomID] = room
	return nil
}

type fakeMessageRepo struct {
	msgs []models.Message
}

func newFakeMessageRepo() *fakeMessageRepo { return &fakeMessageRepo{} }

func (r *fakeMessageRepo) Insert(_ context.Context, msg *models.Message) (*models.Message, error) {
	msg.ID = bson.NewObjectID()
	r.msgs = append(r.msgs, *msg)
	return msg, nil
}

func (r *fakeMessageRepo) ListByRoom(_ context.Context, roomID bson.ObjectID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.msgs {
		if m.ChatRoomID == roomID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *fakeMessageRepo) FindByID(_ context.Context, id bson.ObjectID) (*models.Message, error) {
	for _, m := range r.msgs {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

type sentMail struct {
	to, name, code string
}

type fakeMailer struct {
	sent []sentMail
	fail error
}

func (m *fakeMailer) SendOtp(to, name, code string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, sentMail{to: to, name: name, code: code})
	return nil
}

type broadcastCall struct {
	msg        models.Message
	senderName string
}

type fakeBroadcaster struct {
	calls []broadcastCall
}

func (b *fakeBroadcaster) BroadcastMessage(msg models.Message, senderName string) {
	b.calls = append(b.calls, broadcastCall{msg: msg, senderName: senderName})
}
