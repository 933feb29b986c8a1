package handlers

import (
	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/domain"
)

func userSummary(u domain.UserSummary) dto.UserSummary {
	return dto.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

func itemResponse(item *domain.Item) dto.ItemResponse {
	resp := dto.ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Location:    item.Location,
		Date:        item.Date,
		Status:      item.Status,
		Images:      nonNilStrings(item.Images),
		ReporterID:  item.ReporterID,
		FinderID:    item.FinderID,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.Reporter != nil {
		reporter := userSummary(*item.Reporter)
		resp.Reporter = &reporter
	}
	return resp
}

func itemResponses(items []domain.Item) []dto.ItemResponse {
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, itemResponse(&items[i]))
	}
	return out
}

func claimResponse(claim *domain.Claim) dto.ClaimResponse {
	return dto.ClaimResponse{
		ID:          claim.ID,
		ItemID:      claim.ItemID,
		ClaimerID:   claim.ClaimerID,
		Description: claim.Description,
		Evidence:    nonNilStrings(claim.Evidence),
		Status:      claim.Status,
		CreatedAt:   claim.CreatedAt,
		UpdatedAt:   claim.UpdatedAt,
	}
}

func claimDetailResponses(details []domain.ClaimDetail) []dto.ClaimDetailResponse {
	out := make([]dto.ClaimDetailResponse, 0, len(details))
	for i := range details {
		d := &details[i]
		out = append(out, dto.ClaimDetailResponse{
			ClaimResponse: claimResponse(&d.Claim),
			Item:          itemResponse(&d.Item),
			Claimer:       userSummary(d.Claimer),
		})
	}
	return out
}

func messageResponses(messages []domain.Message) []dto.MessageResponse {
	out := make([]dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, messageResponse(&msg))
	}
	return out
}

func messageResponse(msg *domain.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:          msg.ID,
		Content:     msg.Content,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		ItemID:      msg.ItemID,
		CreatedAt:   msg.CreatedAt,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
