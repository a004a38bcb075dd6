package transaction

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
	"github.com/MrJamesThe3rd/budgie/internal/export"
	"github.com/MrJamesThe3rd/budgie/internal/http/httpx"
	authn "github.com/MrJamesThe3rd/budgie/internal/http/middleware"
	"github.com/MrJamesThe3rd/budgie/internal/importer"
	"github.com/MrJamesThe3rd/budgie/internal/money"
	"github.com/MrJamesThe3rd/budgie/internal/transaction"
)

// maxUploadBytes caps CSV uploads.
const maxUploadBytes = 5 << 20

type Handler struct {
	svc      *transaction.Service
	parser   *importer.Parser
	exporter *export.Service
}

func NewHandler(svc *transaction.Service, parser *importer.Parser, exporter *export.Service) *Handler {
	return &Handler{svc: svc, parser: parser, exporter: exporter}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/export", h.export)
	r.Post("/import", h.importCSV)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
	})
}

type createTransactionRequest struct {
	CategoryID         *uuid.UUID  `json:"categoryId"`
	Amount             string      `json:"amount" validate:"required,amount"`
	Type               string      `json:"type" validate:"required,kind"`
	Description        string      `json:"description" validate:"required,max=500"`
	Notes              string      `json:"notes" validate:"max=2000"`
	Tags               []string    `json:"tags" validate:"max=20,dive,required,max=50"`
	Date               httpx.Date  `json:"date" validate:"required"`
	IsRecurring        bool        `json:"isRecurring"`
	RecurringFrequency *string     `json:"recurringFrequency" validate:"omitempty,frequency"`
	RecurringEndDate   *httpx.Date `json:"recurringEndDate"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := authn.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	var req createTransactionRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	tx, err := h.svc.Create(r.Context(), userID, transaction.CreateParams{
		CategoryID:         req.CategoryID,
		Amount:             amount,
		Type:               transaction.Type(req.Type),
		Description:        req.Description,
		Notes:              req.Notes,
		Tags:               req.Tags,
		Date:               req.Date.Time,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: frequency(req.RecurringFrequency),
		RecurringEndDate:   req.RecurringEndDate.Ptr(),
	})
	if err != nil {
		httpx.Error(w, err, "Failed to create transaction")
		return
	}

	httpx.Created(w, toResponse(tx))
}

func frequency(s *string) *transaction.Frequency {
	if s == nil {
		return nil
	}

	return new(transaction.Frequency(*s))
}

// filter reads the list query: type, categoryId, and an inclusive from/to
// date range.
func filter(r *http.Request, userID string) (transaction.ListFilter, error) {
	q := r.URL.Query()
	f := transaction.ListFilter{UserID: userID}

	if s := q.Get("type"); s != "" {
		t := transaction.Type(s)
		if !t.Valid() {
			return f, fmt.Errorf("%w: unknown type %q", apperr.ErrValidation, s)
		}

		f.Type = &t
	}

	if s := q.Get("categoryId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return f, fmt.Errorf("%w: invalid categoryId", apperr.ErrValidation)
		}

		f.CategoryID = &id
	}

	from, err := httpx.QueryDate(r, "from")
	if err != nil {
		return f, err
	}

	to, err := httpx.QueryDate(r, "to")
	if err != nil {
		return f, err
	}

	f.StartDate = from

	if to != nil {
		f.EndDate = new(to.AddDate(0, 0, 1))
	}

	return f, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := authn.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	f, err := filter(r, userID)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	txs, err := h.svc.List(r.Context(), f)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch transactions")
		return
	}

	httpx.OK(w, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, err := authn.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	id, err := httpx.IDParam(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	tx, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		httpx.Error(w, err, "Failed to fetch transaction")
		return
	}

	httpx.OK(w, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, err := authn.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	id, err := httpx.IDParam(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		httpx.Error(w, err, "Failed to delete transaction")
		return
	}

	httpx.NoContent(w)
}

// updateTransactionRequest is a partial update. A null categoryId detaches
// the category.
type updateTransactionRequest struct {
	CategoryID         httpx.Optional[uuid.UUID] `json:"categoryId"`
	Amount             *string                   `json:"amount" validate:"omitempty,amount"`
	Type               *string                   `json:"type" validate:"omitempty,kind"`
	Description        *string                   `json:"description" validate:"omitempty,max=500"`
	Notes              *string                   `json:"notes" validate:"omitempty,max=2000"`
	Tags               []string                  `json:"tags" validate:"omitempty,max=20,dive,required,max=50"`
	Date               *httpx.Date               `json:"date"`
	IsRecurring        *bool                     `json:"isRecurring"`
	RecurringFrequency *string                   `json:"recurringFrequency" validate:"omitempty,frequency"`
	RecurringEndDate   *httpx.Date               `json:"recurringEndDate"`
}

func (req updateTransactionRequest) params() (transaction.UpdateParams, error) {
	p := transaction.UpdateParams{
		CategoryID:         req.CategoryID.Value,
		ClearCategory:      req.CategoryID.Null(),
		Description:        req.Description,
		Notes:              req.Notes,
		Tags:               req.Tags,
		Date:               req.Date.Ptr(),
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: frequency(req.RecurringFrequency),
		RecurringEndDate:   req.RecurringEndDate.Ptr(),
	}

	if req.Amount != nil {
		amount, err := money.Parse(*req.Amount)
		if err != nil {
			return p, err
		}

		p.Amount = &amount
	}

	if req.Type != nil {
		p.Type = new(transaction.Type(*req.Type))
	}

	return p, nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, err := authn.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	id, err := httpx.IDParam(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	var req updateTransactionRequest
	if err := httpx.Decode(w, r, &req); err != nil {
		httpx.Error(w, err, "")
		return
	}

	params, err := req.params()
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	tx, err := h.svc.Update(r.Context(), userID, id, params)
	if err != nil {
		httpx.Error(w, err, "Failed to update transaction")
		return
	}

	httpx.OK(w, toResponse(tx))
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	userID, err := authn.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Error(w, fmt.Errorf("%w: expected a multipart upload under 5 MiB", apperr.ErrValidation), "")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Error(w, fmt.Errorf("%w: missing file field", apperr.ErrValidation), "")
		return
	}
	defer file.Close()

	parsed, err := h.parser.Parse(file)
	if err != nil {
		httpx.Error(w, fmt.Errorf("%w: %w", apperr.ErrValidation, err), "")
		return
	}

	result, err := h.svc.ImportBatch(r.Context(), userID, parsed.Rows)
	if err != nil {
		httpx.Error(w, err, "Failed to import transactions")
		return
	}

	slog.Info("imported transactions",
		"user_id", userID,
		"profile", parsed.Profile,
		"imported", len(result.Imported),
		"skipped", len(result.Skipped),
	)

	status := http.StatusCreated
	if len(result.Imported) == 0 {
		status = http.StatusOK
	}

	httpx.JSON(w, status, toImportResponse(parsed.Profile, result))
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	userID, err := authn.UserID(r)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	f, err := filter(r, userID)
	if err != nil {
		httpx.Error(w, err, "")
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Export(r.Context(), f, format, &buf); err != nil {
		httpx.Error(w, err, "Failed to export transactions")
		return
	}

	filename := fmt.Sprintf("transactions_%s.%s", time.Now().Format("20060102"), format)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
