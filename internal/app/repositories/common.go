package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/alumnihub/internal/app/models"
)

// psql builds Postgres-flavoured statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// querier is the subset shared by *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// sqlizer is implemented by every squirrel builder
type sqlizer interface {
	ToSql() (string, []interface{}, error)
}

func execBuilder(ctx context.Context, q querier, b sqlizer) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}
	return tag.RowsAffected(), nil
}

func queryBuilder(ctx context.Context, q querier, b sqlizer) (pgx.Rows, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return rows, nil
}

func queryRowBuilder(ctx context.Context, q querier, b sqlizer, dest ...any) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	return q.QueryRow(ctx, sql, args...).Scan(dest...)
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}

// collectIDs drains a single-column id result set and closes it
func collectIDs(rows pgx.Rows) ([]int64, error) {
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// pairCondition matches rows whose two columns hold a and b in either order
func pairCondition(colA, colB string, a, b int64) squirrel.Or {
	return squirrel.Or{
		squirrel.Eq{colA: a, colB: b},
		squirrel.Eq{colA: b, colB: a},
	}
}

var attachmentColumns = []string{
	"attachment_id", "message_id", "file_name", "file_path", "file_url",
	"file_type", "mime_type", "file_size", "created_at",
}

func insertAttachmentsQuery(table string, messageID int64, atts []*models.Attachment) squirrel.InsertBuilder {
	q := psql.Insert(table).
		Columns("message_id", "file_name", "file_path", "file_url", "file_type", "mime_type", "file_size").
		Suffix("RETURNING attachment_id, created_at")
	for _, a := range atts {
		q = q.Values(messageID, a.FileName, a.FilePath, a.FileURL, string(a.FileType), a.MimeType, a.FileSize)
	}
	return q
}

// insertAttachments stores atts for messageID and fills in their ids
func insertAttachments(ctx context.Context, q querier, table string, messageID int64, atts []*models.Attachment) error {
	if len(atts) == 0 {
		return nil
	}

	rows, err := queryBuilder(ctx, q, insertAttachmentsQuery(table, messageID, atts))
	if err != nil {
		return fmt.Errorf("insert attachments: %w", err)
	}
	defer rows.Close()

	// RETURNING yields rows in VALUES order for a single multi-row insert
	i := 0
	for rows.Next() {
		if i >= len(atts) {
			break
		}
		if err := rows.Scan(&atts[i].ID, &atts[i].CreatedAt); err != nil {
			return fmt.Errorf("error scanning row: %w", err)
		}
		atts[i].MessageID = messageID
		i++
	}
	return rows.Err()
}

// loadAttachments returns the attachments of messageIDs grouped by message
func loadAttachments(ctx context.Context, q querier, table string, messageIDs []int64) (map[int64][]*models.Attachment, error) {
	out := make(map[int64][]*models.Attachment)
	if len(messageIDs) == 0 {
		return out, nil
	}

	rows, err := queryBuilder(ctx, q, psql.Select(attachmentColumns...).
		From(table).
		Where(squirrel.Eq{"message_id": messageIDs}).
		OrderBy("attachment_id"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Attachment
		var fileType string
		if err := rows.Scan(&a.ID, &a.MessageID, &a.FileName, &a.FilePath, &a.FileURL,
			&fileType, &a.MimeType, &a.FileSize, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		a.FileType = models.FileCategory(fileType)
		out[a.MessageID] = append(out[a.MessageID], &a)
	}
	return out, rows.Err()
}
