package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/auth"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/repositories"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
)

// memStore is an in-memory stand-in for the relational store. Every method
// runs under one mutex, matching the row-level guarantees the real schema
// gives (unique pair index, conditional accept).
type memStore struct {
	mu     sync.Mutex
	nextID int64
	now    time.Time

	users         map[int64]*models.User
	admins        map[string]*models.SchoolAdmin
	education     map[int64]*models.Education
	work          map[int64]*models.WorkExperience
	connections   map[int64]*models.Connection
	mentorships   []*models.Mentorship
	messages      map[int64]*models.Message
	groups        map[int64]*models.GroupChat
	members       map[[2]int64]*models.GroupMember
	groupMessages map[int64]*models.GroupMessage
	notifications map[int64]*models.Notification

	failMessageCreate error
	failNotify        error
}

func newMemStore() *memStore {
	return &memStore{
		now:           time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		users:         map[int64]*models.User{},
		admins:        map[string]*models.SchoolAdmin{},
		education:     map[int64]*models.Education{},
		work:          map[int64]*models.WorkExperience{},
		connections:   map[int64]*models.Connection{},
		messages:      map[int64]*models.Message{},
		groups:        map[int64]*models.GroupChat{},
		members:       map[[2]int64]*models.GroupMember{},
		groupMessages: map[int64]*models.GroupMessage{},
		notifications: map[int64]*models.Notification{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// tick advances the store clock so rows get distinct timestamps
func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) addUser(id int64, first string, role models.Role) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{
		ID:        id,
		Email:     fmt.Sprintf("%s@alumni.test", first),
		FirstName: first,
		LastName:  "Test",
		Role:      role,
		IsActive:  true,
	}
	m.users[id] = u
	return u
}

func (m *memStore) connect(a, b int64, status models.ConnectionStatus) *models.Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &models.Connection{ID: m.id(), SenderID: a, ReceiverID: b, Status: status, CreatedAt: m.tick(), UpdatedAt: m.now}
	m.connections[c.ID] = c
	return c
}

func (m *memStore) connectionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.connections)
}

// fakeUserRepo implements repositories.IUserRepository
type fakeUserRepo struct{ *memStore }

func (r fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) FindByIDs(_ context.Context, ids []int64) (map[int64]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int64]*models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (r fakeUserRepo) LatestEducation(_ context.Context, ids []int64) (map[int64]*models.Education, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int64]*models.Education{}
	for _, id := range ids {
		if e, ok := r.education[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (r fakeUserRepo) CurrentWork(_ context.Context, ids []int64) (map[int64]*models.WorkExperience, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int64]*models.WorkExperience{}
	for _, id := range ids {
		if w, ok := r.work[id]; ok {
			out[id] = w
		}
	}
	return out, nil
}

// fakeAdminRepo implements repositories.ISchoolAdminRepository
type fakeAdminRepo struct{ *memStore }

func (r fakeAdminRepo) FindByEmail(_ context.Context, email string) (*models.SchoolAdmin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admins[email], nil
}

// fakeConnectionRepo implements repositories.IConnectionRepository
type fakeConnectionRepo struct{ *memStore }

func (r fakeConnectionRepo) between(a, b int64) *models.Connection {
	for _, c := range r.connections {
		if (c.SenderID == a && c.ReceiverID == b) || (c.SenderID == b && c.ReceiverID == a) {
			return c
		}
	}
	return nil
}

func (r fakeConnectionRepo) FindByID(_ context.Context, id int64) (*models.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.connections[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r fakeConnectionRepo) FindBetween(_ context.Context, a, b int64) (*models.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.between(a, b); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r fakeConnectionRepo) Create(_ context.Context, senderID, receiverID int64) (*models.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.between(senderID, receiverID) != nil {
		return nil, fmt.Errorf("unique pair: %w", apperrors.ErrConflict)
	}
	c := &models.Connection{ID: r.id(), SenderID: senderID, ReceiverID: receiverID,
		Status: models.ConnectionPending, CreatedAt: r.tick(), UpdatedAt: r.now}
	r.connections[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r fakeConnectionRepo) Accept(_ context.Context, id int64) (*models.Connection, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.connections[id]
	if !ok || c.Status != models.ConnectionPending {
		return nil, false, nil
	}
	c.Status = models.ConnectionAccepted
	c.UpdatedAt = r.tick()
	cp := *c
	return &cp, true, nil
}

func (r fakeConnectionRepo) DeleteWithStatus(_ context.Context, id int64, status models.ConnectionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.connections[id]
	if !ok || c.Status != status {
		return false, nil
	}
	delete(r.connections, id)
	return true, nil
}

func (r fakeConnectionRepo) sorted(match func(*models.Connection) bool) []*models.Connection {
	var out []*models.Connection
	for _, c := range r.connections {
		if match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r fakeConnectionRepo) ListAccepted(_ context.Context, userID int64, limit, offset uint64) ([]*models.Connection, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted(func(c *models.Connection) bool {
		return c.Status == models.ConnectionAccepted && c.Involves(userID)
	})
	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return nil, total, nil
	}
	end := offset + limit
	if end > uint64(len(all)) {
		end = uint64(len(all))
	}
	return all[offset:end], total, nil
}

func (r fakeConnectionRepo) ListPending(_ context.Context, userID int64, direction repositories.PendingDirection) ([]*models.Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(c *models.Connection) bool {
		if c.Status != models.ConnectionPending {
			return false
		}
		if direction == repositories.PendingSent {
			return c.SenderID == userID
		}
		return c.ReceiverID == userID
	}), nil
}

func (r fakeConnectionRepo) FilterAccepted(_ context.Context, userID int64, candidateIDs []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int64
	for _, id := range candidateIDs {
		if c := r.between(userID, id); c != nil && c.Status == models.ConnectionAccepted {
			out = append(out, id)
		}
	}
	return out, nil
}

// fakeMentorshipRepo implements repositories.IMentorshipRepository
type fakeMentorshipRepo struct{ *memStore }

func (r fakeMentorshipRepo) FindBetween(_ context.Context, a, b int64, statuses []models.MentorshipStatus) (*models.Mentorship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.mentorships {
		pair := (m.MentorID == a && m.MenteeID == b) || (m.MentorID == b && m.MenteeID == a)
		if !pair {
			continue
		}
		for _, s := range statuses {
			if m.Status == s {
				return m, nil
			}
		}
	}
	return nil, nil
}

// fakeMessageRepo implements repositories.IMessageRepository
type fakeMessageRepo struct{ *memStore }

func (r fakeMessageRepo) CreateWithAttachments(_ context.Context, msg *models.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failMessageCreate != nil {
		return r.failMessageCreate
	}
	msg.ID = r.id()
	msg.CreatedAt = r.tick()
	msg.HasAttachments = len(msg.Attachments) > 0
	for _, a := range msg.Attachments {
		a.ID = r.id()
		a.MessageID = msg.ID
	}
	cp := *msg
	r.messages[msg.ID] = &cp
	return nil
}

func (r fakeMessageRepo) FindByID(_ context.Context, id int64) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.messages[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r fakeMessageRepo) ListConversation(_ context.Context, viewerID, otherID int64) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Message
	for _, m := range r.messages {
		mine := m.SenderID == viewerID && m.ReceiverID == otherID && !m.DeletedForSender
		theirs := m.SenderID == otherID && m.ReceiverID == viewerID && !m.DeletedForReceiver
		if mine || theirs {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeMessageRepo) MarkConversationRead(_ context.Context, viewerID, otherID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.SenderID == otherID && m.ReceiverID == viewerID && !m.IsRead {
			m.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r fakeMessageRepo) MarkDeletedFor(_ context.Context, id int64, forSender bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.messages[id]; ok {
		if forSender {
			m.DeletedForSender = true
		} else {
			m.DeletedForReceiver = true
		}
	}
	return nil
}

func (r fakeMessageRepo) DeleteWithAttachments(_ context.Context, id int64) ([]*models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	delete(r.messages, id)
	return m.Attachments, nil
}

func (r fakeMessageRepo) ListConversations(_ context.Context, viewerID int64) ([]*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byPartner := map[int64]*models.Conversation{}
	for _, m := range r.messages {
		var partner int64
		switch {
		case m.SenderID == viewerID && !m.DeletedForSender:
			partner = m.ReceiverID
		case m.ReceiverID == viewerID && !m.DeletedForReceiver:
			partner = m.SenderID
		default:
			continue
		}
		c, ok := byPartner[partner]
		if !ok {
			c = &models.Conversation{PartnerID: partner}
			byPartner[partner] = c
		}
		if m.ID > c.LastMessageID {
			c.LastMessageID, c.LastText, c.LastSenderID, c.LastAt = m.ID, m.Text, m.SenderID, m.CreatedAt
		}
		if m.ReceiverID == viewerID && !m.IsRead {
			c.UnreadCount++
		}
	}
	out := make([]*models.Conversation, 0, len(byPartner))
	for _, c := range byPartner {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAt.After(out[j].LastAt) })
	return out, nil
}

func (r fakeMessageRepo) CountUnread(_ context.Context, viewerID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.messages {
		if m.ReceiverID == viewerID && !m.IsRead && !m.DeletedForReceiver {
			n++
		}
	}
	return n, nil
}

// fakeGroupRepo implements repositories.IGroupRepository
type fakeGroupRepo struct{ *memStore }

func (r fakeGroupRepo) CreateWithMembers(_ context.Context, g *models.GroupChat, memberIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = r.id()
	g.IsActive = true
	g.CreatedAt = r.tick()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	r.groups[g.ID] = &cp
	r.members[[2]int64{g.ID, g.CreatedBy}] = &models.GroupMember{GroupID: g.ID, UserID: g.CreatedBy,
		Role: models.GroupRoleAdmin, IsActive: true, JoinedAt: r.now, LastReadAt: r.now}
	for _, id := range memberIDs {
		r.members[[2]int64{g.ID, id}] = &models.GroupMember{GroupID: g.ID, UserID: id,
			Role: models.GroupRoleMember, IsActive: true, JoinedAt: r.now, LastReadAt: r.now}
	}
	return nil
}

func (r fakeGroupRepo) FindByID(_ context.Context, groupID int64) (*models.GroupChat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[groupID]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (r fakeGroupRepo) FindMember(_ context.Context, groupID, userID int64) (*models.GroupMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[[2]int64{groupID, userID}]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r fakeGroupRepo) ListActiveMembers(_ context.Context, groupID int64) ([]*models.GroupMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.GroupMember
	for _, m := range r.members {
		if m.GroupID == groupID && m.IsActive {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r fakeGroupRepo) FilterActiveMembers(_ context.Context, groupID int64, userIDs []int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int64
	for _, id := range userIDs {
		if m, ok := r.members[[2]int64{groupID, id}]; ok && m.IsActive {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r fakeGroupRepo) AddMembers(_ context.Context, groupID int64, userIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range userIDs {
		r.members[[2]int64{groupID, id}] = &models.GroupMember{GroupID: groupID, UserID: id,
			Role: models.GroupRoleMember, IsActive: true, JoinedAt: r.tick(), LastReadAt: r.now}
	}
	return nil
}

func (r fakeGroupRepo) DeactivateMember(_ context.Context, groupID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[[2]int64{groupID, userID}]
	if !ok || !m.IsActive {
		return false, nil
	}
	m.IsActive = false
	return true, nil
}

func (r fakeGroupRepo) UpdateMemberRole(_ context.Context, groupID, userID int64, role models.GroupRole) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[[2]int64{groupID, userID}]
	if !ok || !m.IsActive {
		return false, nil
	}
	m.Role = role
	return true, nil
}

func (r fakeGroupRepo) CountActiveAdmins(_ context.Context, groupID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.members {
		if m.GroupID == groupID && m.IsActive && m.Role == models.GroupRoleAdmin {
			n++
		}
	}
	return n, nil
}

func (r fakeGroupRepo) Deactivate(_ context.Context, groupID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[groupID]; ok {
		g.IsActive = false
	}
	return nil
}

func (r fakeGroupRepo) ListForUser(_ context.Context, userID int64) ([]*models.GroupSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.GroupSummary
	for key, me := range r.members {
		g := r.groups[key[0]]
		if key[1] != userID || !me.IsActive || g == nil || !g.IsActive {
			continue
		}
		s := &models.GroupSummary{Group: g, Role: me.Role}
		for _, m := range r.members {
			if m.GroupID == g.ID && m.IsActive {
				s.MemberCount++
			}
		}
		for _, msg := range r.groupMessages {
			if msg.GroupID == g.ID && msg.CreatedAt.After(me.LastReadAt) && msg.SenderID != userID {
				s.UnreadCount++
			}
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group.ID > out[j].Group.ID })
	return out, nil
}

func (r fakeGroupRepo) TouchLastRead(_ context.Context, groupID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.members[[2]int64{groupID, userID}]; ok {
		m.LastReadAt = r.tick()
	}
	return nil
}

func (r fakeGroupRepo) CreateMessageWithAttachments(_ context.Context, msg *models.GroupMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = r.id()
	msg.CreatedAt = r.tick()
	msg.HasAttachments = len(msg.Attachments) > 0
	cp := *msg
	r.groupMessages[msg.ID] = &cp
	return nil
}

func (r fakeGroupRepo) FindMessage(_ context.Context, groupID, messageID int64) (*models.GroupMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.groupMessages[messageID]; ok && m.GroupID == groupID {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r fakeGroupRepo) ListMessages(_ context.Context, groupID, viewerID int64, limit, offset uint64) ([]*models.GroupMessage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.GroupMessage
	for _, m := range r.groupMessages {
		if m.GroupID == groupID && !m.HiddenFor(viewerID) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r fakeGroupRepo) HideMessageForSender(_ context.Context, messageID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.groupMessages[messageID]; ok {
		m.DeletedBySender = true
	}
	return nil
}

func (r fakeGroupRepo) HideMessageForMember(_ context.Context, messageID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.groupMessages[messageID]; ok && !m.HiddenFor(userID) {
		m.DeletedByMembers = append(m.DeletedByMembers, userID)
	}
	return nil
}

func (r fakeGroupRepo) DeleteMessageWithAttachments(_ context.Context, messageID int64) ([]*models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.groupMessages[messageID]
	if !ok {
		return nil, nil
	}
	delete(r.groupMessages, messageID)
	return m.Attachments, nil
}

// fakeNotificationRepo implements repositories.INotificationRepository
type fakeNotificationRepo struct{ *memStore }

func (r fakeNotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNotify != nil {
		return r.failNotify
	}
	n.ID = r.id()
	n.CreatedAt = r.tick()
	cp := *n
	r.notifications[n.ID] = &cp
	return nil
}

func (r fakeNotificationRepo) List(_ context.Context, userID int64, unreadOnly bool, limit, offset uint64) ([]*models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (r fakeNotificationRepo) CountUnread(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			c++
		}
	}
	return c, nil
}

func (r fakeNotificationRepo) MarkRead(_ context.Context, userID, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	return true, nil
}

func (r fakeNotificationRepo) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			c++
		}
	}
	return c, nil
}

func (r fakeNotificationRepo) Delete(_ context.Context, userID, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	delete(r.notifications, id)
	return true, nil
}

func (r fakeNotificationRepo) DeleteAll(_ context.Context, userID int64, readOnly bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c int64
	for id, n := range r.notifications {
		if n.UserID == userID && (!readOnly || n.IsRead) {
			delete(r.notifications, id)
			c++
		}
	}
	return c, nil
}

func (m *memStore) notificationsFor(userID int64, typ models.NotificationType) []*models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

// memStorage implements filestorage.FileStorage without touching disk
type memStorage struct {
	mu      sync.Mutex
	files   map[string]*filestorage.StoredFile
	deleted []string
	failOn  string
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string]*filestorage.StoredFile{}}
}

func (s *memStorage) SaveFileWithPath(fh *multipart.FileHeader, subPath string) (*filestorage.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOn != "" && fh.Filename == s.failOn {
		return nil, errors.New("disk full")
	}
	mt := fh.Header.Get("Content-Type")
	if mt == "" {
		mt = "application/octet-stream"
	}
	path := fmt.Sprintf("%s/%d-%s", subPath, len(s.files)+len(s.deleted), fh.Filename)
	f := &filestorage.StoredFile{OriginalName: fh.Filename, Path: path, URL: "/uploads/" + path, MimeType: mt, Size: fh.Size}
	s.files[path] = f
	return f, nil
}

func (s *memStorage) DeleteFile(relPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, relPath)
	s.deleted = append(s.deleted, relPath)
	return nil
}

func (s *memStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

// recordingMailer implements email.EmailService
type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, template string, _ map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, template+":"+to)
	return nil
}

func upload(name, mimeType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", mimeType)
	return &multipart.FileHeader{Filename: name, Size: size, Header: h}
}

func alumni(id int64) models.Principal {
	return models.Principal{ID: id, Role: models.RoleAlumni}
}

func schoolAdmin(id int64) models.Principal {
	schoolID := int64(1)
	return models.Principal{ID: id, Role: models.RoleSchoolAdmin, SchoolID: &schoolID}
}

// harness wires every service over one memStore
type harness struct {
	store         *memStore
	storage       *memStorage
	mailer        *recordingMailer
	notifications NotificationService
	connections   ConnectionService
	messages      *messageServiceImpl
	groups        *groupServiceImpl
	auth          *AuthService
}

func newHarness() *harness {
	store := newMemStore()
	storage := newMemStorage()
	mailer := &recordingMailer{}
	logger := zerolog.Nop()

	users := fakeUserRepo{store}
	conns := fakeConnectionRepo{store}
	mentorships := fakeMentorshipRepo{store}
	groupRepo := fakeGroupRepo{store}

	notifications := NewNotificationService(fakeNotificationRepo{store}, mailer, logger)
	gate := NewMessagingGate(conns, mentorships)

	h := &harness{
		store:         store,
		storage:       storage,
		mailer:        mailer,
		notifications: notifications,
		connections:   NewConnectionService(users, conns, mentorships, notifications, logger),
		messages: NewMessageService(users, fakeMessageRepo{store}, gate, storage, notifications,
			MessagingLimits{}, logger).(*messageServiceImpl),
		groups: NewGroupService(users, groupRepo, conns, auth.NewAuthorizationService(groupRepo),
			storage, notifications, MessagingLimits{}, logger).(*groupServiceImpl),
		auth: NewAuthService(users, fakeAdminRepo{store}, nil, logger),
	}

	store.addUser(1, "ada", models.RoleAlumni)
	store.addUser(2, "grace", models.RoleAlumni)
	store.addUser(3, "linus", models.RoleAlumni)
	store.addUser(4, "ken", models.RoleAlumni)
	store.addUser(90, "sam", models.RoleSchoolAdmin)
	store.addUser(91, "root", models.RoleSuperAdmin)
	return h
}

// setClock pins both services to now
func (h *harness) setClock(now time.Time) {
	h.messages.now = func() time.Time { return now }
	h.groups.now = func() time.Time { return now }
}
