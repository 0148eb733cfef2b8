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
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// PendingDirection selects which side of a pending request to list
type PendingDirection string

const (
	PendingReceived PendingDirection = "received"
	PendingSent     PendingDirection = "sent"
)

// IConnectionRepository persists connection rows
type IConnectionRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Connection, error)
	FindBetween(ctx context.Context, a, b int64) (*models.Connection, error)
	// Create inserts a pending row; a concurrent duplicate surfaces as apperrors.ErrConflict
	Create(ctx context.Context, senderID, receiverID int64) (*models.Connection, error)
	// Accept flips a pending row to accepted and reports whether it did
	Accept(ctx context.Context, id int64) (*models.Connection, bool, error)
	// DeleteWithStatus removes the row only if it is still in status
	DeleteWithStatus(ctx context.Context, id int64, status models.ConnectionStatus) (bool, error)
	ListAccepted(ctx context.Context, userID int64, limit, offset uint64) ([]*models.Connection, int64, error)
	ListPending(ctx context.Context, userID int64, direction PendingDirection) ([]*models.Connection, error)
	// FilterAccepted returns the subset of candidateIDs accepted-connected to userID
	FilterAccepted(ctx context.Context, userID int64, candidateIDs []int64) ([]int64, error)
}

// ConnectionRepository handles database operations for connections
type ConnectionRepository struct {
	db *pgxpool.Pool
}

// NewConnectionRepository creates a new ConnectionRepository
func NewConnectionRepository(db *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

var connectionColumns = []string{"connection_id", "sender_id", "receiver_id", "status", "created_at", "updated_at"}

func scanConnection(row pgx.Row) (*models.Connection, error) {
	var c models.Connection
	var status string
	if err := row.Scan(&c.ID, &c.SenderID, &c.ReceiverID, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = models.ConnectionStatus(status)
	return &c, nil
}

func (r *ConnectionRepository) findOne(ctx context.Context, where squirrel.Sqlizer) (*models.Connection, error) {
	sql, args, err := psql.Select(connectionColumns...).From("connections").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanConnection(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return c, nil
}

// FindByID returns the connection or nil when absent
func (r *ConnectionRepository) FindByID(ctx context.Context, id int64) (*models.Connection, error) {
	return r.findOne(ctx, squirrel.Eq{"connection_id": id})
}

// FindBetween returns the row for the unordered pair {a, b} or nil
func (r *ConnectionRepository) FindBetween(ctx context.Context, a, b int64) (*models.Connection, error) {
	return r.findOne(ctx, pairCondition("sender_id", "receiver_id", a, b))
}

// Create inserts a pending request
func (r *ConnectionRepository) Create(ctx context.Context, senderID, receiverID int64) (*models.Connection, error) {
	sql, args, err := psql.Insert("connections").
		Columns("sender_id", "receiver_id", "status").
		Values(senderID, receiverID, string(models.ConnectionPending)).
		Suffix("RETURNING " + joinColumns(connectionColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanConnection(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("connection %d-%d: %w", senderID, receiverID, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return c, nil
}

func acceptQuery(id int64) squirrel.UpdateBuilder {
	return psql.Update("connections").
		Set("status", string(models.ConnectionAccepted)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"connection_id": id, "status": string(models.ConnectionPending)}).
		Suffix("RETURNING " + joinColumns(connectionColumns))
}

// Accept is guarded by status = 'pending' so two racing accepts update once
func (r *ConnectionRepository) Accept(ctx context.Context, id int64) (*models.Connection, bool, error) {
	sql, args, err := acceptQuery(id).ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("error building SQL: %w", err)
	}

	c, err := scanConnection(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("error executing query: %w", err)
	}
	return c, true, nil
}

// DeleteWithStatus removes a row in the given status
func (r *ConnectionRepository) DeleteWithStatus(ctx context.Context, id int64, status models.ConnectionStatus) (bool, error) {
	n, err := execBuilder(ctx, r.db, psql.Delete("connections").
		Where(squirrel.Eq{"connection_id": id, "status": string(status)}))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func involvingAccepted(userID int64) squirrel.And {
	return squirrel.And{
		squirrel.Eq{"status": string(models.ConnectionAccepted)},
		squirrel.Or{squirrel.Eq{"sender_id": userID}, squirrel.Eq{"receiver_id": userID}},
	}
}

// ListAccepted pages through the accepted connections of userID, newest first
func (r *ConnectionRepository) ListAccepted(ctx context.Context, userID int64, limit, offset uint64) ([]*models.Connection, int64, error) {
	var total int64
	if err := queryRowBuilder(ctx, r.db, psql.Select("COUNT(*)").From("connections").Where(involvingAccepted(userID)), &total); err != nil {
		return nil, 0, fmt.Errorf("error counting connections: %w", err)
	}

	rows, err := queryBuilder(ctx, r.db, psql.Select(connectionColumns...).
		From("connections").
		Where(involvingAccepted(userID)).
		OrderBy("updated_at DESC", "connection_id DESC").
		Limit(limit).
		Offset(offset))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	conns, err := collectConnections(rows)
	return conns, total, err
}

func pendingQuery(userID int64, direction PendingDirection) squirrel.SelectBuilder {
	col := "receiver_id"
	if direction == PendingSent {
		col = "sender_id"
	}
	return psql.Select(connectionColumns...).
		From("connections").
		Where(squirrel.Eq{col: userID, "status": string(models.ConnectionPending)}).
		OrderBy("created_at DESC")
}

// ListPending lists pending requests received by or sent from userID
func (r *ConnectionRepository) ListPending(ctx context.Context, userID int64, direction PendingDirection) ([]*models.Connection, error) {
	rows, err := queryBuilder(ctx, r.db, pendingQuery(userID, direction))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectConnections(rows)
}

func filterAcceptedQuery(userID int64, candidateIDs []int64) squirrel.SelectBuilder {
	return psql.Select().
		Column(squirrel.Expr("CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END", userID)).
		From("connections").
		Where(squirrel.And{
			squirrel.Eq{"status": string(models.ConnectionAccepted)},
			squirrel.Or{
				squirrel.Eq{"sender_id": userID, "receiver_id": candidateIDs},
				squirrel.Eq{"receiver_id": userID, "sender_id": candidateIDs},
			},
		})
}

// FilterAccepted resolves set membership in a single query
func (r *ConnectionRepository) FilterAccepted(ctx context.Context, userID int64, candidateIDs []int64) ([]int64, error) {
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	rows, err := queryBuilder(ctx, r.db, filterAcceptedQuery(userID, candidateIDs))
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

func collectConnections(rows pgx.Rows) ([]*models.Connection, error) {
	var out []*models.Connection
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// IMentorshipRepository reads mentorship rows
type IMentorshipRepository interface {
	// FindBetween returns the newest mentorship of the pair whose status is in statuses
	FindBetween(ctx context.Context, a, b int64, statuses []models.MentorshipStatus) (*models.Mentorship, error)
}

// MentorshipRepository handles database reads for mentorships
type MentorshipRepository struct {
	db *pgxpool.Pool
}

// NewMentorshipRepository creates a new MentorshipRepository
func NewMentorshipRepository(db *pgxpool.Pool) *MentorshipRepository {
	return &MentorshipRepository{db: db}
}

func mentorshipBetweenQuery(a, b int64, statuses []models.MentorshipStatus) squirrel.SelectBuilder {
	st := make([]string, len(statuses))
	for i, s := range statuses {
		st[i] = string(s)
	}
	return psql.Select("mentorship_id", "mentor_id", "mentee_id", "status", "area_of_guidance", "start_date", "end_date").
		From("mentorship").
		Where(pairCondition("mentor_id", "mentee_id", a, b)).
		Where(squirrel.Eq{"status": st}).
		OrderBy("mentorship_id DESC").
		Limit(1)
}

// FindBetween returns nil when the pair has no mentorship in statuses
func (r *MentorshipRepository) FindBetween(ctx context.Context, a, b int64, statuses []models.MentorshipStatus) (*models.Mentorship, error) {
	var m models.Mentorship
	var status string
	err := queryRowBuilder(ctx, r.db, mentorshipBetweenQuery(a, b, statuses),
		&m.ID, &m.MentorID, &m.MenteeID, &status, &m.AreaOfGuidance, &m.StartDate, &m.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	m.Status = models.MentorshipStatus(status)
	return &m, nil
}
