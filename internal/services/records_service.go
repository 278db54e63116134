package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"office-docflow/internal/authz"
	"office-docflow/internal/dto"
	"office-docflow/internal/entities"
	"office-docflow/internal/events"
	"office-docflow/internal/repositories"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/utils"
)

// RecordsServiceInterface - независимые записи канцелярии: письма и запросы.
type RecordsServiceInterface interface {
	CreateLetter(ctx context.Context, session authz.Session, payload dto.CreateLetterDTO) (*entities.Letter, error)
	CreateInquiry(ctx context.Context, session authz.Session, payload dto.CreateInquiryDTO) (*entities.Inquiry, error)
}

type RecordsService struct {
	BaseService
	repos *repositories.Registry
}

func NewRecordsService(repos *repositories.Registry, validator Validator, bus Publisher, logger *zap.Logger) RecordsServiceInterface {
	return &RecordsService{BaseService: NewBaseService(validator, bus, logger), repos: repos}
}

func (s *RecordsService) CreateLetter(ctx context.Context, session authz.Session, payload dto.CreateLetterDTO) (*entities.Letter, error) {
	if err := s.CheckPermission(session, authz.LettersCreate); err != nil {
		return nil, err
	}
	if err := s.validate(&payload); err != nil {
		return nil, err
	}
	issueDate, err := utils.ParseDate(payload.IssueDate)
	if err != nil {
		return nil, apperrors.NewValidationError("Ошибка валидации", map[string]string{"issue_date": "date_only"})
	}

	letter := &entities.Letter{
		Number:     strings.TrimSpace(payload.Number),
		IssueDate:  issueDate,
		Sender:     strings.TrimSpace(payload.Sender),
		Recipient:  strings.TrimSpace(payload.Recipient),
		Subject:    strings.TrimSpace(payload.Subject),
		Provenance: provenance(session),
	}
	if payload.Actions.Valid {
		letter.Actions = utils.TrimmedPtr(payload.Actions.String)
	}

	if err := s.repos.Letters.Create(ctx, nil, letter); err != nil {
		return nil, storeErr("CreateLetter", "", err)
	}
	s.logger.Info("Письмо зарегистрировано", zap.Uint64("letterID", letter.ID), zap.String("number", letter.Number))
	s.publish(ctx, events.NewRecordCreated(collectionLetters, letter.ID, letter.BranchID, letter.UserID))
	return letter, nil
}

func (s *RecordsService) CreateInquiry(ctx context.Context, session authz.Session, payload dto.CreateInquiryDTO) (*entities.Inquiry, error) {
	if err := s.CheckPermission(session, authz.InquiriesCreate); err != nil {
		return nil, err
	}
	if err := s.validate(&payload); err != nil {
		return nil, err
	}

	inquiry := &entities.Inquiry{
		Number:     strings.TrimSpace(payload.Number),
		Subject:    strings.TrimSpace(payload.Subject),
		IsAnswered: payload.IsAnswered,
		Provenance: provenance(session),
	}
	if payload.Actions.Valid {
		inquiry.Actions = utils.TrimmedPtr(payload.Actions.String)
	}

	if err := s.repos.Inquiries.Create(ctx, nil, inquiry); err != nil {
		return nil, storeErr("CreateInquiry", "", err)
	}
	s.logger.Info("Запрос зарегистрирован", zap.Uint64("inquiryID", inquiry.ID))
	s.publish(ctx, events.NewRecordCreated(collectionInquiries, inquiry.ID, inquiry.BranchID, inquiry.UserID))
	return inquiry, nil
}
