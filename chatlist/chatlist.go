// Package chatlist keeps a locally cached conversation list consistent
// with broadcast events, without refetching from the server on every
// message. It is a reducer: state plus one envelope in, updated state out,
// and applying the same envelope twice is equivalent to applying it once.
package chatlist

import (
	"time"

	"stayfinder-backend/ws"
)

type Tab string

const (
	TabMine   Tab = "mine"
	TabOthers Tab = "others"
)

// Entry is one conversation row. Placeholder entries are synthesized from
// an event for a room the cache has never seen; their participants stay
// unresolved until the next full refetch.
type Entry struct {
	RoomID        string
	Title         string
	PostID        string
	LatestContent string
	LatestSender  string
	UpdatedAt     time.Time
	Placeholder   bool
}

// List is the cached conversation list, newest activity first.
type List struct {
	userID    string
	ownPosts  map[string]bool
	ActiveTab Tab

	entries []*Entry
	index   map[string]*Entry
}

func New(userID string, ownPostIDs []string) *List {
	own := make(map[string]bool, len(ownPostIDs))
	for _, id := range ownPostIDs {
		own[id] = true
	}
	return &List{
		userID:    userID,
		ownPosts:  own,
		ActiveTab: TabOthers,
		index:     make(map[string]*Entry),
	}
}

// Seed replaces the cached list with a full server fetch. Entries arrive
// newest first.
func (l *List) Seed(entries []Entry) {
	l.entries = l.entries[:0]
	l.index = make(map[string]*Entry, len(entries))
	for i := range entries {
		e := entries[i]
		l.entries = append(l.entries, &e)
		l.index[e.RoomID] = &e
	}
}

// Apply merges one broadcast envelope into the list: a known room moves to
// the front with its preview updated, an unknown room gets a placeholder
// entry at the front. It returns the active tab after re-derivation, which
// switches when the updated conversation belongs to the other tab.
func (l *List) Apply(env ws.Envelope) Tab {
	ts, err := time.Parse(time.RFC3339, env.Timestamp)
	if err != nil {
		ts = time.Now()
	}

	entry, ok := l.index[env.ChatRoom]
	if !ok {
		entry = &Entry{
			RoomID:      env.ChatRoom,
			Title:       env.SenderName,
			Placeholder: true,
		}
		l.index[env.ChatRoom] = entry
		l.entries = append(l.entries, entry)
	}

	entry.LatestContent = env.Content
	entry.LatestSender = env.SenderName
	entry.UpdatedAt = ts
	l.moveToFront(entry)

	l.ActiveTab = DeriveTab(entry.PostID, l.ownPosts)
	return l.ActiveTab
}

// DeriveTab classifies a conversation: it belongs on the "mine" tab when
// its listing is one of the current user's own posts. Pure function of its
// arguments.
func DeriveTab(postID string, ownPosts map[string]bool) Tab {
	if postID != "" && ownPosts[postID] {
		return TabMine
	}
	return TabOthers
}

// Entries returns a snapshot in recency order, newest first.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = *e
	}
	return out
}

// Len reports the number of cached conversations.
func (l *List) Len() int { return len(l.entries) }

func (l *List) moveToFront(entry *Entry) {
	idx := -1
	for i, e := range l.entries {
		if e == entry {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return
	}
	copy(l.entries[1:idx+1], l.entries[:idx])
	l.entries[0] = entry
}
