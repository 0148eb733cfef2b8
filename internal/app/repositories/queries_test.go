package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
)

func TestPairConditionMatchesBothOrders(t *testing.T) {
	sql, args, err := pairCondition("sender_id", "receiver_id", 1, 2).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, " OR ")
	assert.Equal(t, []interface{}{int64(2), int64(1), int64(1), int64(2)}, args)
}

func TestAcceptQueryIsGuardedByPendingStatus(t *testing.T) {
	sql, args, err := acceptQuery(7).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "UPDATE connections SET status = $1, updated_at = NOW()")
	assert.Contains(t, sql, "WHERE connection_id = $2 AND status = $3")
	assert.Contains(t, sql, "RETURNING connection_id, sender_id, receiver_id, status")
	assert.Equal(t, []interface{}{"accepted", int64(7), "pending"}, args)
}

func TestPendingQueryDirection(t *testing.T) {
	tests := []struct {
		direction PendingDirection
		column    string
	}{
		{PendingReceived, "receiver_id = $1"},
		{PendingSent, "sender_id = $1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.direction), func(t *testing.T) {
			sql, _, err := pendingQuery(3, tt.direction).ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.column)
			assert.Contains(t, sql, "ORDER BY created_at DESC")
		})
	}
}

func TestFilterAcceptedQueryIsOneStatement(t *testing.T) {
	sql, args, err := filterAcceptedQuery(5, []int64{2, 3}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END FROM connections")
	assert.NotContains(t, sql, "?")
	assert.Equal(t, []interface{}{
		int64(5), "accepted",
		int64(2), int64(3), int64(5),
		int64(5), int64(2), int64(3),
	}, args)
}

func TestMentorshipBetweenQueryFiltersStatuses(t *testing.T) {
	sql, args, err := mentorshipBetweenQuery(1, 2, models.MessagingStatuses).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "status IN ($5,$6,$7)")
	assert.Contains(t, sql, "LIMIT 1")
	assert.Equal(t, "requested", args[4])
	assert.Equal(t, "completed", args[6])
}

func TestProfileQueriesUseDistinctOn(t *testing.T) {
	sql, _, err := latestEducationQuery([]int64{1, 2}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT DISTINCT ON (user_id) education_id")

	sql, _, err = currentWorkQuery([]int64{1}).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "SELECT DISTINCT ON (user_id) experience_id")
	assert.Contains(t, sql, "is_current DESC")
}

func TestConversationQueryHidesViewerDeletions(t *testing.T) {
	sql, args, err := conversationQuery(1, 2).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "deleted_for_sender = $1")
	assert.Contains(t, sql, "deleted_for_receiver = $4")
	assert.Contains(t, sql, "ORDER BY created_at ASC")
	assert.Equal(t, []interface{}{false, int64(2), int64(1), false, int64(1), int64(2)}, args)
}

func TestLatestPerPartnerQueryNumbersNestedPlaceholders(t *testing.T) {
	sql, args, err := latestPerPartnerQuery(4).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT DISTINCT ON (partner_id)")
	assert.Contains(t, sql, "FROM (SELECT CASE WHEN sender_id = $1")
	assert.Contains(t, sql, "$5")
	assert.NotContains(t, sql, "?")
	assert.Len(t, args, 5)
}

func TestInsertAttachmentsQueryHasOneRowPerFile(t *testing.T) {
	atts := []*models.Attachment{
		{FileName: "a.png", FilePath: "messages/1/a.png", FileURL: "/uploads/messages/1/a.png", FileType: models.FileImage, MimeType: "image/png", FileSize: 10},
		{FileName: "b.pdf", FilePath: "messages/1/b.pdf", FileURL: "/uploads/messages/1/b.pdf", FileType: models.FileDocument, MimeType: "application/pdf", FileSize: 20},
	}

	sql, args, err := insertAttachmentsQuery(messageAttachmentsTable, 9, atts).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "INSERT INTO message_attachments")
	assert.Contains(t, sql, "RETURNING attachment_id, created_at")
	assert.Len(t, args, 14)
	assert.Equal(t, int64(9), args[7])
	assert.Equal(t, "document", args[11])
}

func TestAddMembersQueryReactivatesFormerMembers(t *testing.T) {
	sql, args, err := addMembersQuery(3, []int64{10, 11}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "ON CONFLICT (group_id, user_id) DO UPDATE")
	assert.Contains(t, sql, "is_active = TRUE")
	assert.Equal(t, []interface{}{int64(3), int64(10), "member", int64(3), int64(11), "member"}, args)
}

func TestInsertMembersQueryMakesCreatorAdmin(t *testing.T) {
	_, args, err := insertMembersQuery(1, 7, []int64{8}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), int64(7), "admin", int64(1), int64(8), "member"}, args)
}

func TestHideForMemberQueryAppendsOnce(t *testing.T) {
	sql, args, err := hideForMemberQuery(9, 4).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "deleted_by_members = deleted_by_members || jsonb_build_array($1::bigint)")
	assert.Contains(t, sql, "NOT (deleted_by_members @> jsonb_build_array($3::bigint))")
	assert.Equal(t, []interface{}{int64(4), int64(9), int64(4)}, args)
}

func TestGroupsForUserQueryOnlyActive(t *testing.T) {
	sql, _, err := groupsForUserQuery(2).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "JOIN group_members gm ON gm.group_id = g.group_id")
	assert.Contains(t, sql, "g.is_active = $1")
	assert.Contains(t, sql, "gm.is_active = $2")
	assert.Contains(t, sql, "gm.last_read_at")
}

func TestDeleteAllQuery(t *testing.T) {
	sql, args, err := deleteAllQuery(5, false).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM notifications WHERE user_id = $1", sql)
	assert.Equal(t, []interface{}{int64(5)}, args)

	sql, args, err = deleteAllQuery(5, true).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM notifications WHERE user_id = $1 AND is_read = $2", sql)
	assert.Equal(t, []interface{}{int64(5), true}, args)
}

func TestNotificationFilterUnreadOnly(t *testing.T) {
	assert.Len(t, notificationFilter(1, false), 1)
	assert.Equal(t, false, notificationFilter(1, true)["is_read"])
}
