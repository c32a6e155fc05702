package service

import (
	"encoding/json"

	"github.com/ardiwn/promptvault/internal/domain"
	"github.com/ardiwn/promptvault/internal/repository"
)

// Conversions from repository row types to domain types live here so the
// handlers never see sql.Null* values.

func profileToDomain(p repository.Profile) *domain.Profile {
	return &domain.Profile{
		ID:                 p.ID,
		Username:           p.Username,
		Email:              p.Email,
		PasswordHash:       p.PasswordHash,
		Role:               domain.Role(p.Role),
		RequestPromptQuota: int(p.RequestPromptQuota),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func codeToDomain(c repository.GenericCode) (*domain.AccessCode, error) {
	code := &domain.AccessCode{
		ID:          c.ID,
		CodeString:  c.CodeString,
		Description: domain.NullStringValue(c.Description),
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
	if c.PermissionsGrantedJson.Valid {
		if err := json.Unmarshal(c.PermissionsGrantedJson.RawMessage, &code.Permissions); err != nil {
			return nil, err
		}
	}
	return code, nil
}

func grantToDomain(g repository.UserPermission) *domain.PermissionGrant {
	return &domain.PermissionGrant{
		ID:            g.ID,
		UserID:        g.UserID,
		PermissionKey: g.PermissionKey,
		GrantedByCode: domain.NullStringValue(g.GrantedByCode),
		GrantedAt:     g.GrantedAt,
	}
}

func requestToDomain(r repository.UserRequest) *domain.PromptRequest {
	return &domain.PromptRequest{
		ID:          r.ID,
		UserID:      r.UserID,
		RequestText: r.RequestText,
		Status:      domain.RequestStatus(r.Status),
		RequestedAt: r.RequestedAt,
		ProcessedAt: domain.NullTimeValue(r.ProcessedAt),
		AdminNotes:  domain.NullStringValue(r.AdminNotes),
	}
}

func contentToDomain(c repository.ContentRow) *domain.ContentItem {
	return &domain.ContentItem{
		ID:                    c.ID,
		Title:                 c.JudulKonten,
		Description:           domain.NullStringValue(c.DeskripsiKonten),
		RequiredPermissionKey: c.RequiredPermissionKey,
		IsPublished:           c.IsPublished,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func productLinkToDomain(l repository.DigitalProductLink) *domain.DigitalProductLink {
	return &domain.DigitalProductLink{
		ID:                    l.ID,
		ProductName:           l.NamaProduk,
		ProductLink:           l.LinkProduk,
		RequiredPermissionKey: l.RequiredPermissionKey,
		IsPublished:           l.IsPublished,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}
