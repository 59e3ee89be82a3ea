package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"stayfinder-backend/config"
	"stayfinder-backend/models"
	"stayfinder-backend/repository"
	"stayfinder-backend/services"
	"stayfinder-backend/ws"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// In-memory repos so the handler stack runs without mongo.

type memUserRepo struct {
	users map[bson.ObjectID]models.User
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = bson.NewObjectID()
	r.users[user.ID] = *user
	return user, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByName(_ context.Context, name string) (*models.User, error) {
	for _, u := range r.users {
		if u.Name == name {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, id bson.ObjectID, name, passwordHash string) error {
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

type memOtpRepo struct {
	otps map[string]models.Otp
}

func (r *memOtpRepo) Upsert(_ context.Context, otp *models.Otp) error {
	r.otps[otp.Email] = *otp
	return nil
}

func (r *memOtpRepo) FindByEmail(_ context.Context, email string) (*models.Otp, error) {
	o, ok := r.otps[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *memOtpRepo) DeleteByEmail(_ context.Context, email string) error {
	delete(r.otps, email)
	return nil
}

type memRoomRepo struct {
	rooms map[bson.ObjectID]models.ChatRoom
}

func (r *memRoomRepo) Create(_ context.Context, room *models.ChatRoom) (*models.ChatRoom, error) {
	room.ID = bson.NewObjectID()
	r.rooms[room.ID] = *room
	return room, nil
}

func (r *memRoomRepo) FindByID(_ context.Context, id bson.ObjectID) (*models.ChatRoom, error) {
	room, ok := r.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &room, nil
}

func (r *memRoomRepo) FindByParticipants(_ context.Context, pair []bson.ObjectID) (*models.ChatRoom, error) {
	for _, room := range r.rooms {
		if len(room.Participants) == 2 && room.Participants[0] == pair[0] && room.Participants[1] == pair[1] {
			return &room, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRoomRepo) ListByParticipant(_ context.Context, userID bson.ObjectID) ([]models.ChatRoom, error) {
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

func (r *memRoomRepo) SetLatestMessage(_ context.Context, roomID, messageID bson.ObjectID) error {
	room, ok := r.rooms[roomID]
	if !ok {
		return repository.ErrNotFound
	}
	room.LatestMessage = messageID
	r.rooms[roomID] = room
	return nil
}

type memMessageRepo struct {
	msgs []models.Message
}

func (r *memMessageRepo) Insert(_ context.Context, msg *models.Message) (*models.Message, error) {
	msg.ID = bson.NewObjectID()
	r.msgs = append(r.msgs, *msg)
	return msg, nil
}

func (r *memMessageRepo) ListByRoom(_ context.Context, roomID bson.ObjectID) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.msgs {
		if m.ChatRoomID == roomID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *memMessageRepo) FindByID(_ context.Context, id bson.ObjectID) (*models.Message, error) {
	for _, m := range r.msgs {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

type noopMailer struct{}

func (noopMailer) SendOtp(_, _, _ string) error { return nil }

type testEnv struct {
	router *mux.Router
	users  *memUserRepo
	rooms  *memRoomRepo
	alice  *models.User
	bob    *models.User
	token  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := &memUserRepo{users: make(map[bson.ObjectID]models.User)}
	otps := &memOtpRepo{otps: make(map[string]models.Otp)}
	rooms := &memRoomRepo{rooms: make(map[bson.ObjectID]models.ChatRoom)}
	msgs := &memMessageRepo{}

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: 1, MaxMessageLength: 1000}
	hub := ws.NewHub()

	authSvc := services.NewAuthService(users, otps, noopMailer{}, cfg)
	chatSvc := services.NewChatService(rooms, users, msgs)
	msgSvc := services.NewMessageService(msgs, users, chatSvc, hub, cfg)

	chatH := NewChatHandler(hub, chatSvc, msgSvc)
	msgH := NewMessageHandler(msgSvc)

	r := mux.NewRouter()
	r.HandleFunc("/chatroom/create", WithAuth(authSvc, chatH.CreateRoom)).Methods(http.MethodPost)
	r.HandleFunc("/chatrooms/{userId}", WithAuth(authSvc, chatH.ListForUser)).Methods(http.MethodGet)
	r.HandleFunc("/messages/send", WithAuth(authSvc, msgH.Send)).Methods(http.MethodPost)
	r.HandleFunc("/messages/{chatRoomId}", WithAuth(authSvc, msgH.List)).Methods(http.MethodGet)

	alice := &models.User{Name: "alice", Email: "alice@example.com"}
	alice, err := users.Create(context.Background(), alice)
	require.NoError(t, err)
	bob := &models.User{Name: "bob", Email: "bob@example.com"}
	bob, err = users.Create(context.Background(), bob)
	require.NoError(t, err)

	token, err := authSvc.CreateToken(alice.ID.Hex(), alice.Name)
	require.NoError(t, err)

	return &testEnv{router: r, users: users, rooms: rooms, alice: alice, bob: bob, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Authorization", "Bearer "+e.token)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateRoomReturnsSameRoomForBothOrders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/chatroom/create", map[string]string{
		"user1": env.alice.ID.Hex(),
		"user2": env.bob.ID.Hex(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var first struct {
		Success bool            `json:"success"`
		Data    models.ChatRoom `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.True(t, first.Success)
	assert.Len(t, first.Data.Participants, 2)

	rec = env.do(t, http.MethodPost, "/chatroom/create", map[string]string{
		"user1": env.bob.ID.Hex(),
		"user2": env.alice.ID.Hex(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var second struct {
		Data models.ChatRoom `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.Data.ID, second.Data.ID)
	assert.Len(t, env.rooms.rooms, 1)
}

func TestCreateRoomRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/chatroom/create", map[string]string{
		"user1": env.alice.ID.Hex(),
		"user2": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The invalid request must not leave a room behind.
	assert.Empty(t, env.rooms.rooms)
}

func TestCreateRoomRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/chatroom/create", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendThenListMessages(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/chatroom/create", map[string]string{
		"user1": env.alice.ID.Hex(),
		"user2": env.bob.ID.Hex(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data models.ChatRoom `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	roomID := created.Data.ID

	rec = env.do(t, http.MethodPost, "/messages/send", map[string]string{
		"chatRoomId": roomID.Hex(),
		"senderId":   env.alice.ID.Hex(),
		"content":    "hi",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var sendResp struct {
		Success bool           `json:"success"`
		Message models.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sendResp))
	assert.True(t, sendResp.Success)
	assert.Equal(t, "hi", sendResp.Message.Content)
	require.NotNil(t, sendResp.Message.Sender)
	assert.Equal(t, "alice", sendResp.Message.Sender.Name)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/messages/%s", roomID.Hex()), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Success  bool             `json:"success"`
		Messages []models.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.True(t, listResp.Success)
	require.Len(t, listResp.Messages, 1)
	assert.Equal(t, "hi", listResp.Messages[0].Content)
}

func TestSendToUnknownRoomIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/messages/send", map[string]string{
		"chatRoomId": bson.NewObjectID().Hex(),
		"senderId":   env.alice.ID.Hex(),
		"content":    "hi",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListMessagesRejectsMalformedRoomID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/messages/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListForUserIncludesLatestMessage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/chatroom/create", map[string]string{
		"user1": env.alice.ID.Hex(),
		"user2": env.bob.ID.Hex(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data models.ChatRoom `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = env.do(t, http.MethodPost, "/messages/send", map[string]string{
		"chatRoomId": created.Data.ID.Hex(),
		"senderId":   env.alice.ID.Hex(),
		"content":    "see you at six",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/chatrooms/"+env.bob.ID.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listResp struct {
		Success bool                  `json:"success"`
		Data    []models.Conversation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	require.NotNil(t, listResp.Data[0].LatestMessage)
	assert.Equal(t, "see you at six", listResp.Data[0].LatestMessage.Content)
}
