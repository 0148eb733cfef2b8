package services

import (
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/app/models/dto"
)

func toUserBasic(u *models.User) dto.UserBasicResponse {
	if u == nil {
		return dto.UserBasicResponse{}
	}
	return dto.UserBasicResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		GraduationYear: u.GraduationYear,
	}
}

// userOrPlaceholder keeps listings intact when a profile row vanished
func userOrPlaceholder(users map[int64]*models.User, id int64) dto.UserBasicResponse {
	if u, ok := users[id]; ok {
		return toUserBasic(u)
	}
	return dto.UserBasicResponse{ID: id}
}

func toAttachmentResponses(atts []*models.Attachment) []dto.AttachmentResponse {
	out := make([]dto.AttachmentResponse, 0, len(atts))
	for _, a := range atts {
		out = append(out, dto.AttachmentResponse{
			ID:       a.ID,
			FileName: a.FileName,
			FileURL:  a.FileURL,
			FileType: string(a.FileType),
			MimeType: a.MimeType,
			FileSize: a.FileSize,
		})
	}
	return out
}

func toMessageResponse(m *models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:             m.ID,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
		MessageText:    m.Text,
		HasAttachments: m.HasAttachments,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
		Attachments:    toAttachmentResponses(m.Attachments),
	}
}

func toGroupResponse(g *models.GroupChat) dto.GroupResponse {
	return dto.GroupResponse{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Avatar:      g.Avatar,
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toGroupMessageResponse(m *models.GroupMessage) dto.GroupMessageResponse {
	return dto.GroupMessageResponse{
		ID:             m.ID,
		GroupID:        m.GroupID,
		SenderID:       m.SenderID,
		MessageText:    m.Text,
		HasAttachments: m.HasAttachments,
		CreatedAt:      m.CreatedAt,
		Attachments:    toAttachmentResponses(m.Attachments),
	}
}
