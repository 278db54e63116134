package memstore

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"office-docflow/internal/entities"
	apperrors "office-docflow/pkg/errors"
	"office-docflow/pkg/types"
)

func u(v uint64) string { return strconv.FormatUint(v, 10) }
func b(v bool) string   { return strconv.FormatBool(v) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var letterSchema = schema[entities.Letter]{
	id:        func(l *entities.Letter) uint64 { return l.ID },
	createdAt: func(l *entities.Letter) time.Time { return l.CreatedAt },
	fields: map[string]func(*entities.Letter) string{
		"id":         func(l *entities.Letter) string { return u(l.ID) },
		"number":     func(l *entities.Letter) string { return l.Number },
		"issue_date": func(l *entities.Letter) string { return l.IssueDate.Format(time.DateOnly) },
		"sender":     func(l *entities.Letter) string { return l.Sender },
		"recipient":  func(l *entities.Letter) string { return l.Recipient },
		"branch_id":  func(l *entities.Letter) string { return l.BranchID },
		"user_id":    func(l *entities.Letter) string { return l.UserID },
	},
	search: func(l *entities.Letter) []string { return []string{l.Number, l.Subject, l.Sender, l.Recipient} },
}

var inquirySchema = schema[entities.Inquiry]{
	id:        func(q *entities.Inquiry) uint64 { return q.ID },
	createdAt: func(q *entities.Inquiry) time.Time { return q.CreatedAt },
	fields: map[string]func(*entities.Inquiry) string{
		"id":          func(q *entities.Inquiry) string { return u(q.ID) },
		"number":      func(q *entities.Inquiry) string { return q.Number },
		"is_answered": func(q *entities.Inquiry) string { return b(q.IsAnswered) },
		"branch_id":   func(q *entities.Inquiry) string { return q.BranchID },
		"user_id":     func(q *entities.Inquiry) string { return q.UserID },
	},
	search: func(q *entities.Inquiry) []string { return []string{q.Number, q.Subject} },
}

var proposalSchema = schema[entities.Proposal]{
	id:        func(p *entities.Proposal) uint64 { return p.ID },
	createdAt: func(p *entities.Proposal) time.Time { return p.CreatedAt },
	fields: map[string]func(*entities.Proposal) string{
		"id":                func(p *entities.Proposal) string { return u(p.ID) },
		"number":            func(p *entities.Proposal) string { return p.Number },
		"date":              func(p *entities.Proposal) string { return p.Date.Format(time.DateOnly) },
		"requesting_branch": func(p *entities.Proposal) string { return p.RequestingBranch },
		"target_branch":     func(p *entities.Proposal) string { return string(p.TargetBranch) },
		"status":            func(p *entities.Proposal) string { return string(p.Status) },
		"branch_id":         func(p *entities.Proposal) string { return p.BranchID },
		"user_id":           func(p *entities.Proposal) string { return p.UserID },
	},
	search: func(p *entities.Proposal) []string { return []string{p.Number, p.Subject, deref(p.OrderNumber)} },
}

var procurementSchema = schema[entities.Procurement]{
	id:        func(p *entities.Procurement) uint64 { return p.ID },
	createdAt: func(p *entities.Procurement) time.Time { return p.CreatedAt },
	fields: map[string]func(*entities.Procurement) string{
		"id":             func(p *entities.Procurement) string { return u(p.ID) },
		"proposal_id":    func(p *entities.Procurement) string { return u(p.ProposalID) },
		"pricing_number": func(p *entities.Procurement) string { return p.PricingNumber },
		"is_quoted":      func(p *entities.Procurement) string { return b(p.IsQuoted) },
		"is_contracted":  func(p *entities.Procurement) string { return b(p.IsContracted) },
		"company_name":   func(p *entities.Procurement) string { return p.CompanyName },
		"has_invoice":    func(p *entities.Procurement) string { return b(p.HasInvoice) },
		"branch_id":      func(p *entities.Procurement) string { return p.BranchID },
		"user_id":        func(p *entities.Procurement) string { return p.UserID },
	},
	search: func(p *entities.Procurement) []string { return []string{p.PricingNumber, p.CompanyName} },
}

var invoiceSchema = schema[entities.Invoice]{
	id:        func(i *entities.Invoice) uint64 { return i.ID },
	createdAt: func(i *entities.Invoice) time.Time { return i.CreatedAt },
	fields: map[string]func(*entities.Invoice) string{
		"id":                         func(i *entities.Invoice) string { return u(i.ID) },
		"procurement_id":             func(i *entities.Invoice) string { return u(i.ProcurementID) },
		"area":                       func(i *entities.Invoice) string { return i.Area },
		"registration_number":        func(i *entities.Invoice) string { return i.RegistrationNumber },
		"is_area_approved":           func(i *entities.Invoice) string { return b(i.IsAreaApproved) },
		"is_referred_to_procurement": func(i *entities.Invoice) string { return b(i.IsReferredToProcurement) },
		"control_status":             func(i *entities.Invoice) string { return string(i.ControlStatus) },
		"asset_issued":               func(i *entities.Invoice) string { return b(i.AssetIssued) },
		"branch_id":                  func(i *entities.Invoice) string { return i.BranchID },
		"user_id":                    func(i *entities.Invoice) string { return i.UserID },
	},
	search: func(i *entities.Invoice) []string { return []string{i.RegistrationNumber, i.Area} },
}

var controlSchema = schema[entities.Control]{
	id:        func(c *entities.Control) uint64 { return c.ID },
	createdAt: func(c *entities.Control) time.Time { return c.CreatedAt },
	fields: map[string]func(*entities.Control) string{
		"id":         func(c *entities.Control) string { return u(c.ID) },
		"invoice_id": func(c *entities.Control) string { return u(c.InvoiceID) },
		"status":     func(c *entities.Control) string { return string(c.Status) },
		"branch_id":  func(c *entities.Control) string { return c.BranchID },
		"user_id":    func(c *entities.Control) string { return c.UserID },
	},
	search: func(c *entities.Control) []string { return []string{deref(c.RejectionReason)} },
}

var assetSchema = schema[entities.Asset]{
	id:        func(a *entities.Asset) uint64 { return a.ID },
	createdAt: func(a *entities.Asset) time.Time { return a.CreatedAt },
	fields: map[string]func(*entities.Asset) string{
		"id":             func(a *entities.Asset) string { return u(a.ID) },
		"invoice_id":     func(a *entities.Asset) string { return u(a.InvoiceID) },
		"form_m7_number": func(a *entities.Asset) string { return a.FormM7Number },
		"branch_id":      func(a *entities.Asset) string { return a.BranchID },
		"user_id":        func(a *entities.Asset) string { return a.UserID },
	},
	search: func(a *entities.Asset) []string { return []string{a.FormM7Number} },
}

// --- letters ---

type letterRepo struct{ s *Store }

func (r *letterRepo) Create(ctx context.Context, tx pgx.Tx, letter *entities.Letter) error {
	return r.s.write(tx, func(t *tables) error {
		letter.ID = t.nextID("letters")
		letter.CreatedAt = r.s.now()
		t.letters = append(t.letters, *letter)
		return nil
	})
}

func (r *letterRepo) GetAll(ctx context.Context, filter types.Filter) (out []entities.Letter, total uint64, err error) {
	r.s.read(func(t *tables) { out, total = list(t.letters, letterSchema, filter) })
	return out, total, nil
}

func (r *letterRepo) Count(ctx context.Context) (n int64, err error) {
	r.s.read(func(t *tables) { n = int64(len(t.letters)) })
	return n, nil
}

// --- inquiries ---

type inquiryRepo struct{ s *Store }

func (r *inquiryRepo) Create(ctx context.Context, tx pgx.Tx, inquiry *entities.Inquiry) error {
	return r.s.write(tx, func(t *tables) error {
		inquiry.ID = t.nextID("inquiries")
		inquiry.CreatedAt = r.s.now()
		t.inquiries = append(t.inquiries, *inquiry)
		return nil
	})
}

func (r *inquiryRepo) GetAll(ctx context.Context, filter types.Filter) (out []entities.Inquiry, total uint64, err error) {
	r.s.read(func(t *tables) { out, total = list(t.inquiries, inquirySchema, filter) })
	return out, total, nil
}

func (r *inquiryRepo) Count(ctx context.Context) (n int64, err error) {
	r.s.read(func(t *tables) { n = int64(len(t.inquiries)) })
	return n, nil
}

// --- proposals ---

type proposalRepo struct{ s *Store }

func (r *proposalRepo) Create(ctx context.Context, tx pgx.Tx, proposal *entities.Proposal) error {
	return r.s.write(tx, func(t *tables) error {
		if proposal.Status == "" {
			proposal.Status = entities.ProposalSubmitted
		}
		proposal.ID = t.nextID("proposals")
		proposal.CreatedAt = r.s.now()
		t.proposals = append(t.proposals, *proposal)
		return nil
	})
}

func (r *proposalRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Proposal, error) {
	var out *entities.Proposal
	r.s.read(func(t *tables) {
		if i, ok := find(t.proposals, proposalSchema, id); ok {
			p := t.proposals[i]
			out = &p
		}
	})
	if out == nil {
		return nil, apperrors.ErrNotFound
	}
	return out, nil
}

func (r *proposalRepo) GetAll(ctx context.Context, filter types.Filter) (out []entities.Proposal, total uint64, err error) {
	r.s.read(func(t *tables) { out, total = list(t.proposals, proposalSchema, filter) })
	return out, total, nil
}

func (r *proposalRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.ProposalStatus) error {
	return r.s.write(tx, func(t *tables) error {
		i, ok := find(t.proposals, proposalSchema, id)
		if !ok {
			return apperrors.ErrNotFound
		}
		now := r.s.now()
		t.proposals[i].Status = status
		t.proposals[i].UpdatedAt = &now
		return nil
	})
}

func (r *proposalRepo) Count(ctx context.Context) (n int64, err error) {
	r.s.read(func(t *tables) { n = int64(len(t.proposals)) })
	return n, nil
}

// --- procurements ---

type procurementRepo struct{ s *Store }

func (r *procurementRepo) Create(ctx context.Context, tx pgx.Tx, procurement *entities.Procurement) error {
	return r.s.write(tx, func(t *tables) error {
		procurement.ID = t.nextID("procurements")
		procurement.CreatedAt = r.s.now()
		t.procurements = append(t.procurements, *procurement)
		return nil
	})
}

func (r *procurementRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Procurement, error) {
	var out *entities.Procurement
	r.s.read(func(t *tables) {
		if i, ok := find(t.procurements, procurementSchema, id); ok {
			p := t.procurements[i]
			out = &p
		}
	})
	if out == nil {
		return nil, apperrors.ErrNotFound
	}
	return out, nil
}

func (r *procurementRepo) GetAll(ctx context.Context, filter types.Filter) (out []entities.Procurement, total uint64, err error) {
	r.s.read(func(t *tables) { out, total = list(t.procurements, procurementSchema, filter) })
	return out, total, nil
}

func (r *procurementRepo) MarkInvoiced(ctx context.Context, tx pgx.Tx, id uint64) error {
	return r.s.write(tx, func(t *tables) error {
		i, ok := find(t.procurements, procurementSchema, id)
		if !ok {
			return apperrors.ErrNotFound
		}
		now := r.s.now()
		t.procurements[i].HasInvoice = true
		t.procurements[i].UpdatedAt = &now
		return nil
	})
}

func (r *procurementRepo) Count(ctx context.Context) (n int64, err error) {
	r.s.read(func(t *tables) { n = int64(len(t.procurements)) })
	return n, nil
}

// --- invoices ---

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(ctx context.Context, tx pgx.Tx, invoice *entities.Invoice) error {
	return r.s.write(tx, func(t *tables) error {
		if invoice.ControlStatus == "" {
			invoice.ControlStatus = entities.ControlPending
		}
		invoice.ID = t.nextID("invoices")
		invoice.CreatedAt = r.s.now()
		t.invoices = append(t.invoices, *invoice)
		return nil
	})
}

func (r *invoiceRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64, forUpdate bool) (*entities.Invoice, error) {
	var out *entities.Invoice
	r.s.read(func(t *tables) {
		if i, ok := find(t.invoices, invoiceSchema, id); ok {
			inv := t.invoices[i]
			out = &inv
		}
	})
	if out == nil {
		return nil, apperrors.ErrNotFound
	}
	return out, nil
}

func (r *invoiceRepo) GetAll(ctx context.Context, filter types.Filter) (out []entities.Invoice, total uint64, err error) {
	r.s.read(func(t *tables) { out, total = list(t.invoices, invoiceSchema, filter) })
	return out, total, nil
}

func (r *invoiceRepo) UpdateControlStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.ControlStatus) error {
	return r.s.write(tx, func(t *tables) error {
		i, ok := find(t.invoices, invoiceSchema, id)
		if !ok {
			return apperrors.ErrNotFound
		}
		now := r.s.now()
		t.invoices[i].ControlStatus = status
		t.invoices[i].UpdatedAt = &now
		return nil
	})
}

func (r *invoiceRepo) MarkAssetIssued(ctx context.Context, tx pgx.Tx, id uint64) error {
	return r.s.write(tx, func(t *tables) error {
		i, ok := find(t.invoices, invoiceSchema, id)
		if !ok {
			return apperrors.ErrNotFound
		}
		now := r.s.now()
		t.invoices[i].AssetIssued = true
		t.invoices[i].UpdatedAt = &now
		return nil
	})
}

func (r *invoiceRepo) Count(ctx context.Context) (n int64, err error) {
	r.s.read(func(t *tables) { n = int64(len(t.invoices)) })
	return n, nil
}

// --- controls ---

type controlRepo struct{ s *Store }

func (r *controlRepo) Create(ctx context.Context, tx pgx.Tx, control *entities.Control) error {
	return r.s.write(tx, func(t *tables) error {
		control.ID = t.nextID("controls")
		control.CreatedAt = r.s.now()
		t.controls = append(t.controls, *control)
		return nil
	})
}

func (r *controlRepo) GetAll(ctx context.Context, filter types.Filter) (out []entities.Control, total uint64, err error) {
	r.s.read(func(t *tables) { out, total = list(t.controls, controlSchema, filter) })
	return out, total, nil
}

func (r *controlRepo) Count(ctx context.Context) (n int64, err error) {
	r.s.read(func(t *tables) { n = int64(len(t.controls)) })
	return n, nil
}

// --- assets ---

type assetRepo struct{ s *Store }

func (r *assetRepo) Create(ctx context.Context, tx pgx.Tx, asset *entities.Asset) error {
	return r.s.write(tx, func(t *tables) error {
		asset.ID = t.nextID("assets")
		asset.CreatedAt = r.s.now()
		t.assets = append(t.assets, *asset)
		return nil
	})
}

func (r *assetRepo) GetAll(ctx context.Context, filter types.Filter) (out []entities.Asset, total uint64, err error) {
	r.s.read(func(t *tables) { out, total = list(t.assets, assetSchema, filter) })
	return out, total, nil
}

func (r *assetRepo) Count(ctx context.Context) (n int64, err error) {
	r.s.read(func(t *tables) { n = int64(len(t.assets)) })
	return n, nil
}

// --- branches ---

type branchRepo struct{ s *Store }

func (r *branchRepo) GetAll(ctx context.Context) ([]entities.BranchInfo, error) {
	var out []entities.BranchInfo
	r.s.read(func(t *tables) {
		out = make([]entities.BranchInfo, 0, len(t.branches))
		for _, b := range t.branches {
			out = append(out, b)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *branchRepo) Upsert(ctx context.Context, tx pgx.Tx, branch entities.BranchInfo) error {
	return r.s.write(tx, func(t *tables) error {
		if existing, ok := t.branches[branch.Code]; ok {
			branch.CreatedAt = existing.CreatedAt
		} else {
			branch.CreatedAt = r.s.now()
		}
		t.branches[branch.Code] = branch
		return nil
	})
}
