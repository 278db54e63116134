package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"office-docflow/internal/authz"
	"office-docflow/internal/entities"
	"office-docflow/internal/repositories"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/types"
)

// ExportTable - реестр в табличном виде для выгрузки в Excel.
type ExportTable struct {
	Collection string
	Headers    []string
	Rows       [][]interface{}
}

type RegisterServiceInterface interface {
	ListLetters(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Letter, uint64, error)
	ListInquiries(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Inquiry, uint64, error)
	ListProposals(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Proposal, uint64, error)
	ListProcurements(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Procurement, uint64, error)
	ListInvoices(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Invoice, uint64, error)
	ListControls(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Control, uint64, error)
	ListAssets(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Asset, uint64, error)
	Export(ctx context.Context, session authz.Session, collection string, filter types.Filter) (*ExportTable, error)
}

// RegisterService - реестры всех коллекций с фильтрами и пагинацией.
type RegisterService struct {
	BaseService
	repos *repositories.Registry
}

func NewRegisterService(repos *repositories.Registry, logger *zap.Logger) RegisterServiceInterface {
	return &RegisterService{BaseService: NewBaseService(nil, nil, logger), repos: repos}
}

func (s *RegisterService) ListLetters(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Letter, uint64, error) {
	if err := s.CheckPermission(session, authz.LettersView); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Letters.GetAll(ctx, filter)
	return list, total, storeErr("ListLetters", "", err)
}

func (s *RegisterService) ListInquiries(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Inquiry, uint64, error) {
	if err := s.CheckPermission(session, authz.InquiriesView); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Inquiries.GetAll(ctx, filter)
	return list, total, storeErr("ListInquiries", "", err)
}

func (s *RegisterService) ListProposals(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Proposal, uint64, error) {
	if err := s.CheckPermission(session, authz.ProposalsView); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Proposals.GetAll(ctx, filter)
	return list, total, storeErr("ListProposals", "", err)
}

func (s *RegisterService) ListProcurements(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Procurement, uint64, error) {
	if err := s.CheckPermission(session, authz.ProcurementsView); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Procurements.GetAll(ctx, filter)
	return list, total, storeErr("ListProcurements", "", err)
}

func (s *RegisterService) ListInvoices(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Invoice, uint64, error) {
	if err := s.CheckPermission(session, authz.InvoicesView); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Invoices.GetAll(ctx, filter)
	return list, total, storeErr("ListInvoices", "", err)
}

func (s *RegisterService) ListControls(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Control, uint64, error) {
	if err := s.CheckPermission(session, authz.ControlsView); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Controls.GetAll(ctx, filter)
	return list, total, storeErr("ListControls", "", err)
}

func (s *RegisterService) ListAssets(ctx context.Context, session authz.Session, filter types.Filter) ([]entities.Asset, uint64, error) {
	if err := s.CheckPermission(session, authz.AssetsView); err != nil {
		return nil, 0, err
	}
	list, total, err := s.repos.Assets.GetAll(ctx, filter)
	return list, total, storeErr("ListAssets", "", err)
}

// Export собирает строки реестра. Кроме права на просмотр коллекции нужно reports:export.
func (s *RegisterService) Export(ctx context.Context, session authz.Session, collection string, filter types.Filter) (*ExportTable, error) {
	if err := s.CheckPermission(session, authz.ReportsExport); err != nil {
		return nil, err
	}
	filter.WithPagination = false

	table := &ExportTable{Collection: collection}
	switch collection {
	case collectionLetters:
		list, _, err := s.ListLetters(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		table.Headers = []string{"ID", "Номер", "Дата", "Отправитель", "Получатель", "Тема", "Меры", "Подразделение", "Пользователь", "Создано"}
		for _, l := range list {
			table.Rows = append(table.Rows, []interface{}{l.ID, l.Number, day(l.IssueDate), l.Sender, l.Recipient, l.Subject, deref(l.Actions), l.BranchID, l.UserID, stamp(l.CreatedAt)})
		}
	case collectionInquiries:
		list, _, err := s.ListInquiries(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		table.Headers = []string{"ID", "Номер", "Тема", "Отвечен", "Меры", "Подразделение", "Пользователь", "Создано"}
		for _, q := range list {
			table.Rows = append(table.Rows, []interface{}{q.ID, q.Number, q.Subject, yesNo(q.IsAnswered), deref(q.Actions), q.BranchID, q.UserID, stamp(q.CreatedAt)})
		}
	case collectionProposals:
		list, _, err := s.ListProposals(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		table.Headers = []string{"ID", "Номер", "Дата", "Номер приказа", "Дата приказа", "Тема", "Ориентировочная цена", "Запрашивающее подразделение", "Получатель", "Статус", "Подразделение", "Пользователь", "Создано"}
		for _, p := range list {
			orderDate := ""
			if p.OrderDate != nil {
				orderDate = day(*p.OrderDate)
			}
			table.Rows = append(table.Rows, []interface{}{p.ID, p.Number, day(p.Date), deref(p.OrderNumber), orderDate, p.Subject, p.EstimatedPrice, p.RequestingBranch, branchName(p.TargetBranch), string(p.Status), p.BranchID, p.UserID, stamp(p.CreatedAt)})
		}
	case collectionProcurements:
		list, _, err := s.ListProcurements(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		table.Headers = []string{"ID", "Предложение", "Номер расценки", "Котировка", "Контракт", "Компания", "Сумма", "Счёт выставлен", "Подразделение", "Пользователь", "Создано"}
		for _, p := range list {
			table.Rows = append(table.Rows, []interface{}{p.ID, p.ProposalID, p.PricingNumber, yesNo(p.IsQuoted), yesNo(p.IsContracted), p.CompanyName, p.GrossAmount, yesNo(p.HasInvoice), p.BranchID, p.UserID, stamp(p.CreatedAt)})
		}
	case collectionInvoices:
		list, _, err := s.ListInvoices(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		table.Headers = []string{"ID", "Закупка", "Участок", "Рег. номер", "Участок одобрен", "Возвращён в закупки", "Контроль", "М-7 оформлена", "Подразделение", "Пользователь", "Создано"}
		for _, i := range list {
			table.Rows = append(table.Rows, []interface{}{i.ID, i.ProcurementID, i.Area, i.RegistrationNumber, yesNo(i.IsAreaApproved), yesNo(i.IsReferredToProcurement), string(i.ControlStatus), yesNo(i.AssetIssued), i.BranchID, i.UserID, stamp(i.CreatedAt)})
		}
	case collectionControls:
		list, _, err := s.ListControls(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		table.Headers = []string{"ID", "Счёт", "Решение", "Причина отказа", "Подразделение", "Пользователь", "Создано"}
		for _, c := range list {
			table.Rows = append(table.Rows, []interface{}{c.ID, c.InvoiceID, string(c.Status), deref(c.RejectionReason), c.BranchID, c.UserID, stamp(c.CreatedAt)})
		}
	case collectionAssets:
		list, _, err := s.ListAssets(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		table.Headers = []string{"ID", "Счёт", "Номер М-7", "Скан отчёта", "Подразделение", "Пользователь", "Создано"}
		for _, a := range list {
			table.Rows = append(table.Rows, []interface{}{a.ID, a.InvoiceID, a.FormM7Number, deref(a.ReportScan), a.BranchID, a.UserID, stamp(a.CreatedAt)})
		}
	default:
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("Реестр '%s' не существует", collection))
	}
	return table, nil
}

func day(t time.Time) string   { return t.Format(time.DateOnly) }
func stamp(t time.Time) string { return t.Format("2006-01-02 15:04") }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}

func branchName(b entities.Branch) string {
	if name, ok := entities.BranchNames[b]; ok {
		return name
	}
	return string(b)
}
