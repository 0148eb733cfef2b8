package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
)

const messageAttachmentsTable = "message_attachments"

// IMessageRepository persists direct messages and their attachments
type IMessageRepository interface {
	// CreateWithAttachments inserts the message and every attachment in one transaction
	CreateWithAttachments(ctx context.Context, msg *models.Message) error
	FindByID(ctx context.Context, id int64) (*models.Message, error)
	ListConversation(ctx context.Context, viewerID, otherID int64) ([]*models.Message, error)
	MarkConversationRead(ctx context.Context, viewerID, otherID int64) (int64, error)
	MarkDeletedFor(ctx context.Context, id int64, forSender bool) error
	// DeleteWithAttachments hard-deletes the message and returns the attachment rows it had
	DeleteWithAttachments(ctx context.Context, id int64) ([]*models.Attachment, error)
	ListConversations(ctx context.Context, viewerID int64) ([]*models.Conversation, error)
	CountUnread(ctx context.Context, viewerID int64) (int64, error)
}

// MessageRepository handles database operations for direct messages
type MessageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

var messageColumns = []string{
	"message_id", "sender_id", "receiver_id", "message_text", "has_attachments",
	"is_read", "deleted_for_sender", "deleted_for_receiver", "created_at",
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Text, &m.HasAttachments,
		&m.IsRead, &m.DeletedForSender, &m.DeletedForReceiver, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateWithAttachments fills in msg.ID, msg.CreatedAt and the attachment ids
func (r *MessageRepository) CreateWithAttachments(ctx context.Context, msg *models.Message) error {
	msg.HasAttachments = len(msg.Attachments) > 0

	return db.WithTx(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		err := queryRowBuilder(ctx, tx, psql.Insert("messages").
			Columns("sender_id", "receiver_id", "message_text", "has_attachments").
			Values(msg.SenderID, msg.ReceiverID, msg.Text, msg.HasAttachments).
			Suffix("RETURNING message_id, created_at"),
			&msg.ID, &msg.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		return insertAttachments(ctx, tx, messageAttachmentsTable, msg.ID, msg.Attachments)
	})
}

// FindByID returns the message with its attachments, or nil when absent
func (r *MessageRepository) FindByID(ctx context.Context, id int64) (*models.Message, error) {
	sql, args, err := psql.Select(messageColumns...).From("messages").Where(squirrel.Eq{"message_id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	m, err := scanMessage(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	if m.HasAttachments {
		atts, err := loadAttachments(ctx, r.db, messageAttachmentsTable, []int64{m.ID})
		if err != nil {
			return nil, err
		}
		m.Attachments = atts[m.ID]
	}
	return m, nil
}

// visibleConversation selects both directions of the pair minus the rows the
// viewer deleted for themselves
func visibleConversation(viewerID, otherID int64) squirrel.Or {
	return squirrel.Or{
		squirrel.Eq{"sender_id": viewerID, "receiver_id": otherID, "deleted_for_sender": false},
		squirrel.Eq{"sender_id": otherID, "receiver_id": viewerID, "deleted_for_receiver": false},
	}
}

func conversationQuery(viewerID, otherID int64) squirrel.SelectBuilder {
	return psql.Select(messageColumns...).
		From("messages").
		Where(visibleConversation(viewerID, otherID)).
		OrderBy("created_at ASC", "message_id ASC")
}

// ListConversation returns the visible messages of the pair, oldest first
func (r *MessageRepository) ListConversation(ctx context.Context, viewerID, otherID int64) ([]*models.Message, error) {
	rows, err := queryBuilder(ctx, r.db, conversationQuery(viewerID, otherID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*models.Message
	var withFiles []int64
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		if m.HasAttachments {
			withFiles = append(withFiles, m.ID)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	atts, err := loadAttachments(ctx, r.db, messageAttachmentsTable, withFiles)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		m.Attachments = atts[m.ID]
	}
	return msgs, nil
}

// MarkConversationRead marks everything otherID sent to viewerID as read
func (r *MessageRepository) MarkConversationRead(ctx context.Context, viewerID, otherID int64) (int64, error) {
	return execBuilder(ctx, r.db, psql.Update("messages").
		Set("is_read", true).
		Where(squirrel.Eq{"sender_id": otherID, "receiver_id": viewerID, "is_read": false}))
}

// MarkDeletedFor sets the soft-delete flag of one side
func (r *MessageRepository) MarkDeletedFor(ctx context.Context, id int64, forSender bool) error {
	col := "deleted_for_receiver"
	if forSender {
		col = "deleted_for_sender"
	}
	_, err := execBuilder(ctx, r.db, psql.Update("messages").Set(col, true).Where(squirrel.Eq{"message_id": id}))
	return err
}

// DeleteWithAttachments removes the message and its attachment rows together
func (r *MessageRepository) DeleteWithAttachments(ctx context.Context, id int64) ([]*models.Attachment, error) {
	return deleteMessageWithAttachments(ctx, r.db, "messages", messageAttachmentsTable, id)
}

// deleteMessageWithAttachments is shared by direct and group messages
func deleteMessageWithAttachments(ctx context.Context, pool *pgxpool.Pool, table, attTable string, id int64) ([]*models.Attachment, error) {
	var removed []*models.Attachment
	err := db.WithTx(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		atts, err := loadAttachments(ctx, tx, attTable, []int64{id})
		if err != nil {
			return err
		}
		removed = atts[id]

		if _, err := execBuilder(ctx, tx, psql.Delete(attTable).Where(squirrel.Eq{"message_id": id})); err != nil {
			return fmt.Errorf("delete attachments: %w", err)
		}
		if _, err := execBuilder(ctx, tx, psql.Delete(table).Where(squirrel.Eq{"message_id": id})); err != nil {
			return fmt.Errorf("delete message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func latestPerPartnerQuery(viewerID int64) squirrel.SelectBuilder {
	inner := psql.Select().
		Column(squirrel.Expr("CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS partner_id", viewerID)).
		Columns("message_id", "message_text", "sender_id", "created_at").
		From("messages").
		Where(squirrel.Or{
			squirrel.Eq{"sender_id": viewerID, "deleted_for_sender": false},
			squirrel.Eq{"receiver_id": viewerID, "deleted_for_receiver": false},
		})

	return psql.Select("partner_id", "message_id", "message_text", "sender_id", "created_at").
		Options("DISTINCT ON (partner_id)").
		FromSelect(inner, "m").
		OrderBy("partner_id", "created_at DESC", "message_id DESC")
}

func unreadBySenderQuery(viewerID int64) squirrel.SelectBuilder {
	return psql.Select("sender_id", "COUNT(*)").
		From("messages").
		Where(squirrel.Eq{"receiver_id": viewerID, "is_read": false, "deleted_for_receiver": false}).
		GroupBy("sender_id")
}

// ListConversations returns one entry per partner, most recent exchange first
func (r *MessageRepository) ListConversations(ctx context.Context, viewerID int64) ([]*models.Conversation, error) {
	rows, err := queryBuilder(ctx, r.db, latestPerPartnerQuery(viewerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []*models.Conversation
	byPartner := make(map[int64]*models.Conversation)
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.PartnerID, &c.LastMessageID, &c.LastText, &c.LastSenderID, &c.LastAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		convs = append(convs, &c)
		byPartner[c.PartnerID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	unread, err := queryBuilder(ctx, r.db, unreadBySenderQuery(viewerID))
	if err != nil {
		return nil, err
	}
	defer unread.Close()
	for unread.Next() {
		var senderID int64
		var n int
		if err := unread.Scan(&senderID, &n); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		if c, ok := byPartner[senderID]; ok {
			c.UnreadCount = n
		}
	}
	if err := unread.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(convs, func(i, j int) bool { return convs[i].LastAt.After(convs[j].LastAt) })
	return convs, nil
}

// CountUnread counts unread messages addressed to viewerID
func (r *MessageRepository) CountUnread(ctx context.Context, viewerID int64) (int64, error) {
	var n int64
	err := queryRowBuilder(ctx, r.db, psql.Select("COUNT(*)").
		From("messages").
		Where(squirrel.Eq{"receiver_id": viewerID, "is_read": false, "deleted_for_receiver": false}), &n)
	if err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return n, nil
}
