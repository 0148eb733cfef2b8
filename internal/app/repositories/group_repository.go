package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
)

const groupAttachmentsTable = "group_message_attachments"

// IGroupRepository persists group chats, their members and messages
type IGroupRepository interface {
	// CreateWithMembers inserts the group, the creator as admin and memberIDs as members in one transaction
	CreateWithMembers(ctx context.Context, group *models.GroupChat, memberIDs []int64) error
	FindByID(ctx context.Context, groupID int64) (*models.GroupChat, error)
	// FindMember returns the membership row whether active or not
	FindMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error)
	ListActiveMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error)
	FilterActiveMembers(ctx context.Context, groupID int64, userIDs []int64) ([]int64, error)
	// AddMembers inserts new rows and reactivates former members as plain members
	AddMembers(ctx context.Context, groupID int64, userIDs []int64) error
	DeactivateMember(ctx context.Context, groupID, userID int64) (bool, error)
	UpdateMemberRole(ctx context.Context, groupID, userID int64, role models.GroupRole) (bool, error)
	CountActiveAdmins(ctx context.Context, groupID int64) (int, error)
	Deactivate(ctx context.Context, groupID int64) error
	ListForUser(ctx context.Context, userID int64) ([]*models.GroupSummary, error)
	TouchLastRead(ctx context.Context, groupID, userID int64) error

	CreateMessageWithAttachments(ctx context.Context, msg *models.GroupMessage) error
	FindMessage(ctx context.Context, groupID, messageID int64) (*models.GroupMessage, error)
	// ListMessages returns messages oldest first, minus those the viewer deleted for themselves
	ListMessages(ctx context.Context, groupID, viewerID int64, limit, offset uint64) ([]*models.GroupMessage, int64, error)
	HideMessageForSender(ctx context.Context, messageID int64) error
	HideMessageForMember(ctx context.Context, messageID, userID int64) error
	DeleteMessageWithAttachments(ctx context.Context, messageID int64) ([]*models.Attachment, error)
}

// GroupRepository handles database operations for group chats
type GroupRepository struct {
	db *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{db: db}
}

var groupColumns = []string{
	"group_id", "group_name", "group_description", "group_avatar",
	"created_by", "is_active", "created_at", "updated_at",
}

var memberColumns = []string{"group_id", "user_id", "role", "is_active", "joined_at", "last_read_at"}

func scanGroup(row pgx.Row, extra ...any) (*models.GroupChat, error) {
	var g models.GroupChat
	dest := append([]any{&g.ID, &g.Name, &g.Description, &g.Avatar,
		&g.CreatedBy, &g.IsActive, &g.CreatedAt, &g.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &g, nil
}

func scanMember(row pgx.Row) (*models.GroupMember, error) {
	var m models.GroupMember
	var role string
	if err := row.Scan(&m.GroupID, &m.UserID, &role, &m.IsActive, &m.JoinedAt, &m.LastReadAt); err != nil {
		return nil, err
	}
	m.Role = models.GroupRole(role)
	return &m, nil
}

func insertMembersQuery(groupID, creatorID int64, memberIDs []int64) squirrel.InsertBuilder {
	q := psql.Insert("group_members").
		Columns("group_id", "user_id", "role").
		Values(groupID, creatorID, string(models.GroupRoleAdmin))
	for _, id := range memberIDs {
		q = q.Values(groupID, id, string(models.GroupRoleMember))
	}
	return q
}

// CreateWithMembers fills in group.ID and timestamps
func (r *GroupRepository) CreateWithMembers(ctx context.Context, group *models.GroupChat, memberIDs []int64) error {
	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := queryRowBuilder(ctx, tx, psql.Insert("group_chats").
			Columns("group_name", "group_description", "group_avatar", "created_by").
			Values(group.Name, group.Description, group.Avatar, group.CreatedBy).
			Suffix("RETURNING group_id, is_active, created_at, updated_at"),
			&group.ID, &group.IsActive, &group.CreatedAt, &group.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert group: %w", err)
		}

		if _, err := execBuilder(ctx, tx, insertMembersQuery(group.ID, group.CreatedBy, memberIDs)); err != nil {
			return fmt.Errorf("insert group members: %w", err)
		}
		return nil
	})
}

// FindByID returns the group or nil when absent
func (r *GroupRepository) FindByID(ctx context.Context, groupID int64) (*models.GroupChat, error) {
	sql, args, err := psql.Select(groupColumns...).From("group_chats").Where(squirrel.Eq{"group_id": groupID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	g, err := scanGroup(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return g, nil
}

// FindMember returns nil when the user was never a member
func (r *GroupRepository) FindMember(ctx context.Context, groupID, userID int64) (*models.GroupMember, error) {
	sql, args, err := psql.Select(memberColumns...).
		From("group_members").
		Where(squirrel.Eq{"group_id": groupID, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	m, err := scanMember(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return m, nil
}

// ListActiveMembers lists admins first, then by join time
func (r *GroupRepository) ListActiveMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error) {
	rows, err := queryBuilder(ctx, r.db, psql.Select(memberColumns...).
		From("group_members").
		Where(squirrel.Eq{"group_id": groupID, "is_active": true}).
		OrderBy("role = 'admin' DESC", "joined_at ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.GroupMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FilterActiveMembers returns the subset of userIDs that are active members
func (r *GroupRepository) FilterActiveMembers(ctx context.Context, groupID int64, userIDs []int64) ([]int64, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	rows, err := queryBuilder(ctx, r.db, psql.Select("user_id").
		From("group_members").
		Where(squirrel.Eq{"group_id": groupID, "is_active": true, "user_id": userIDs}))
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func addMembersQuery(groupID int64, userIDs []int64) squirrel.InsertBuilder {
	q := psql.Insert("group_members").Columns("group_id", "user_id", "role")
	for _, id := range userIDs {
		q = q.Values(groupID, id, string(models.GroupRoleMember))
	}
	return q.Suffix(`ON CONFLICT (group_id, user_id) DO UPDATE
		SET is_active = TRUE, role = EXCLUDED.role, joined_at = NOW(), last_read_at = NOW()`)
}

// AddMembers upserts member rows
func (r *GroupRepository) AddMembers(ctx context.Context, groupID int64, userIDs []int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := execBuilder(ctx, r.db, addMembersQuery(groupID, userIDs))
	return err
}

// DeactivateMember reports whether an active membership was ended
func (r *GroupRepository) DeactivateMember(ctx context.Context, groupID, userID int64) (bool, error) {
	n, err := execBuilder(ctx, r.db, psql.Update("group_members").
		Set("is_active", false).
		Where(squirrel.Eq{"group_id": groupID, "user_id": userID, "is_active": true}))
	return n > 0, err
}

// UpdateMemberRole reports whether an active member was updated
func (r *GroupRepository) UpdateMemberRole(ctx context.Context, groupID, userID int64, role models.GroupRole) (bool, error) {
	n, err := execBuilder(ctx, r.db, psql.Update("group_members").
		Set("role", string(role)).
		Where(squirrel.Eq{"group_id": groupID, "user_id": userID, "is_active": true}))
	return n > 0, err
}

// CountActiveAdmins counts active members holding the admin role
func (r *GroupRepository) CountActiveAdmins(ctx context.Context, groupID int64) (int, error) {
	var n int
	err := queryRowBuilder(ctx, r.db, psql.Select("COUNT(*)").
		From("group_members").
		Where(squirrel.Eq{"group_id": groupID, "is_active": true, "role": string(models.GroupRoleAdmin)}), &n)
	if err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}
	return n, nil
}

// Deactivate soft-deletes the group; memberships are left as they are
func (r *GroupRepository) Deactivate(ctx context.Context, groupID int64) error {
	_, err := execBuilder(ctx, r.db, psql.Update("group_chats").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"group_id": groupID}))
	return err
}

func groupsForUserQuery(userID int64) squirrel.SelectBuilder {
	cols := make([]string, 0, len(groupColumns)+3)
	for _, c := range groupColumns {
		cols = append(cols, "g."+c)
	}
	cols = append(cols,
		"gm.role",
		"(SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.group_id AND m.is_active)",
		"(SELECT COUNT(*) FROM group_messages gmsg WHERE gmsg.group_id = g.group_id"+
			" AND gmsg.created_at > gm.last_read_at AND gmsg.sender_id <> gm.user_id)",
	)
	return psql.Select(cols...).
		From("group_chats g").
		Join("group_members gm ON gm.group_id = g.group_id").
		Where(squirrel.Eq{"gm.user_id": userID, "gm.is_active": true, "g.is_active": true}).
		OrderBy("g.updated_at DESC", "g.group_id DESC")
}

// ListForUser lists the active groups userID is an active member of
func (r *GroupRepository) ListForUser(ctx context.Context, userID int64) ([]*models.GroupSummary, error) {
	rows, err := queryBuilder(ctx, r.db, groupsForUserQuery(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.GroupSummary
	for rows.Next() {
		var s models.GroupSummary
		var role string
		g, err := scanGroup(rows, &role, &s.MemberCount, &s.UnreadCount)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		s.Group = g
		s.Role = models.GroupRole(role)
		out = append(out, &s)
	}
	return out, rows.Err()
}

// TouchLastRead moves the member's read marker to now
func (r *GroupRepository) TouchLastRead(ctx context.Context, groupID, userID int64) error {
	_, err := execBuilder(ctx, r.db, psql.Update("group_members").
		Set("last_read_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"group_id": groupID, "user_id": userID}))
	return err
}

var groupMessageColumns = []string{
	"message_id", "group_id", "sender_id", "message_text", "has_attachments",
	"deleted_by_sender", "deleted_by_members", "created_at",
}

func scanGroupMessage(row pgx.Row) (*models.GroupMessage, error) {
	var m models.GroupMessage
	err := row.Scan(&m.ID, &m.GroupID, &m.SenderID, &m.Text, &m.HasAttachments,
		&m.DeletedBySender, &m.DeletedByMembers, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMessageWithAttachments inserts the message and its attachments and
// bumps the group's updated_at, all in one transaction
func (r *GroupRepository) CreateMessageWithAttachments(ctx context.Context, msg *models.GroupMessage) error {
	msg.HasAttachments = len(msg.Attachments) > 0

	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := queryRowBuilder(ctx, tx, psql.Insert("group_messages").
			Columns("group_id", "sender_id", "message_text", "has_attachments").
			Values(msg.GroupID, msg.SenderID, msg.Text, msg.HasAttachments).
			Suffix("RETURNING message_id, created_at"),
			&msg.ID, &msg.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert group message: %w", err)
		}

		if err := insertAttachments(ctx, tx, groupAttachmentsTable, msg.ID, msg.Attachments); err != nil {
			return err
		}

		_, err = execBuilder(ctx, tx, psql.Update("group_chats").
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"group_id": msg.GroupID}))
		return err
	})
}

// FindMessage returns nil when messageID does not belong to groupID
func (r *GroupRepository) FindMessage(ctx context.Context, groupID, messageID int64) (*models.GroupMessage, error) {
	sql, args, err := psql.Select(groupMessageColumns...).
		From("group_messages").
		Where(squirrel.Eq{"group_id": groupID, "message_id": messageID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	m, err := scanGroupMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return m, nil
}

func visibleGroupMessages(groupID, viewerID int64) squirrel.And {
	return squirrel.And{
		squirrel.Eq{"group_id": groupID},
		squirrel.Expr("NOT (sender_id = ? AND deleted_by_sender)", viewerID),
		squirrel.Expr("NOT (deleted_by_members @> jsonb_build_array(?::bigint))", viewerID),
	}
}

// ListMessages pages through the visible messages of a group
func (r *GroupRepository) ListMessages(ctx context.Context, groupID, viewerID int64, limit, offset uint64) ([]*models.GroupMessage, int64, error) {
	var total int64
	if err := queryRowBuilder(ctx, r.db, psql.Select("COUNT(*)").
		From("group_messages").
		Where(visibleGroupMessages(groupID, viewerID)), &total); err != nil {
		return nil, 0, fmt.Errorf("error counting group messages: %w", err)
	}

	// newest page first, returned in chronological order
	page := psql.Select(groupMessageColumns...).
		From("group_messages").
		Where(visibleGroupMessages(groupID, viewerID)).
		OrderBy("created_at DESC", "message_id DESC").
		Limit(limit).
		Offset(offset)
	rows, err := queryBuilder(ctx, r.db, psql.Select(groupMessageColumns...).
		FromSelect(page, "p").
		OrderBy("created_at ASC", "message_id ASC"))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var msgs []*models.GroupMessage
	var withFiles []int64
	for rows.Next() {
		m, err := scanGroupMessage(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		if m.HasAttachments {
			withFiles = append(withFiles, m.ID)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	atts, err := loadAttachments(ctx, r.db, groupAttachmentsTable, withFiles)
	if err != nil {
		return nil, 0, err
	}
	for _, m := range msgs {
		m.Attachments = atts[m.ID]
	}
	return msgs, total, nil
}

// HideMessageForSender sets deleted_by_sender
func (r *GroupRepository) HideMessageForSender(ctx context.Context, messageID int64) error {
	_, err := execBuilder(ctx, r.db, psql.Update("group_messages").
		Set("deleted_by_sender", true).
		Where(squirrel.Eq{"message_id": messageID}))
	return err
}

func hideForMemberQuery(messageID, userID int64) squirrel.UpdateBuilder {
	return psql.Update("group_messages").
		Set("deleted_by_members", squirrel.Expr("deleted_by_members || jsonb_build_array(?::bigint)", userID)).
		Where(squirrel.Eq{"message_id": messageID}).
		Where("NOT (deleted_by_members @> jsonb_build_array(?::bigint))", userID)
}

// HideMessageForMember appends userID to deleted_by_members in a single statement
func (r *GroupRepository) HideMessageForMember(ctx context.Context, messageID, userID int64) error {
	_, err := execBuilder(ctx, r.db, hideForMemberQuery(messageID, userID))
	return err
}

// DeleteMessageWithAttachments removes the message and its attachment rows together
func (r *GroupRepository) DeleteMessageWithAttachments(ctx context.Context, messageID int64) ([]*models.Attachment, error) {
	return deleteMessageWithAttachments(ctx, r.db, "group_messages", groupAttachmentsTable, messageID)
}
