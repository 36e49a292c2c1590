package http

import (
	"net/http"

	"digilib-backend/internal/domain/loanrequest"
	usecase "digilib-backend/internal/usecase/loanrequest"

	"github.com/labstack/echo/v4"
)

type LoanRequestHandler struct{ uc *usecase.Usecase }

func NewLoanRequestHandler(uc *usecase.Usecase) *LoanRequestHandler {
	return &LoanRequestHandler{uc: uc}
}

type submitReq struct {
	BookID              uint64 `json:"book_id"               validate:"required,gt=0"`
	EmployeeCode        string `json:"employee_code"         validate:"required,empcode"`
	BorrowerName        string `json:"borrower_name"         validate:"omitempty,max=255"`
	BorrowerEmail       string `json:"borrower_email"        validate:"omitempty,email,max=255"`
	BorrowerPhone       string `json:"borrower_phone"        validate:"omitempty,max=32"`
	RequestedReturnDate string `json:"requested_return_date" validate:"omitempty,datetime=2006-01-02"`
	Reason              string `json:"reason"                validate:"omitempty,max=2000"`
}

type listReq struct {
	Status       string `query:"status"        validate:"omitempty,loanstatus"`
	EmployeeCode string `query:"employee_code" validate:"omitempty,empcode"`
	Page         int    `query:"page"          validate:"omitempty,gte=1"`
	Limit        int    `query:"limit"         validate:"omitempty,gte=1,lte=100"`
}

type notesReq struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

type markLoanedReq struct {
	DueDate string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *LoanRequestHandler) Submit(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	returnDate, err := parseDate(req.RequestedReturnDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid requested_return_date"})
	}

	actor := caller.UserID
	lr, err := h.uc.Submit(c.Request().Context(), usecase.SubmitInput{
		BookID:              req.BookID,
		EmployeeCode:        req.EmployeeCode,
		BorrowerName:        req.BorrowerName,
		BorrowerEmail:       req.BorrowerEmail,
		BorrowerPhone:       req.BorrowerPhone,
		RequestedReturnDate: returnDate,
		Reason:              req.Reason,
		ActorID:             &actor,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, lr)
}

func (h *LoanRequestHandler) List(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	var req listReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	res, err := h.uc.List(c.Request().Context(), usecase.ListInput(req), caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanRequestHandler) Get(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id path param"})
	}
	v, err := h.uc.Get(c.Request().Context(), id, caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *LoanRequestHandler) History(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id path param"})
	}
	hist, err := h.uc.History(c.Request().Context(), id, caller)
	if err != nil {
		return writeError(c, err)
	}
	if hist == nil {
		hist = []loanrequest.History{}
	}
	return c.JSON(http.StatusOK, map[string]any{"history": hist})
}

func (h *LoanRequestHandler) Stats(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	s, err := h.uc.Stats(c.Request().Context(), caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// ---- admin transitions ----

func (h *LoanRequestHandler) Approve(c echo.Context) error {
	caller, id, req, err := h.decision(c)
	if err != nil || caller == nil {
		return err
	}
	lr, err := h.uc.Approve(c.Request().Context(), usecase.DecisionInput{
		RequestID: id, ApproverID: caller.UserID, Notes: req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":       "loan request approved",
		"request":       lr,
		"approval_date": lr.ApprovalDate,
		"due_date":      lr.DueDate,
	})
}

func (h *LoanRequestHandler) Reject(c echo.Context) error {
	caller, id, req, err := h.decision(c)
	if err != nil || caller == nil {
		return err
	}
	lr, err := h.uc.Reject(c.Request().Context(), usecase.DecisionInput{
		RequestID: id, ApproverID: caller.UserID, Notes: req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":       "loan request rejected",
		"request":       lr,
		"approval_date": lr.ApprovalDate,
	})
}

func (h *LoanRequestHandler) MarkLoaned(c echo.Context) error {
	caller, ok := callerFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id path param"})
	}
	var req markLoanedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid due_date"})
	}

	lr, err := h.uc.MarkLoaned(c.Request().Context(), usecase.MarkLoanedInput{
		RequestID: id, ActorID: caller.UserID, DueDate: due,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "book handed over", "request": lr})
}

func (h *LoanRequestHandler) Return(c echo.Context) error {
	caller, id, req, err := h.decision(c)
	if err != nil || caller == nil {
		return err
	}
	lr, err := h.uc.Return(c.Request().Context(), usecase.ReturnInput{
		RequestID: id, ActorID: caller.UserID, Notes: req.Notes,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "book returned", "request": lr})
}

// decision reads caller, path id and an optional notes body. A nil caller
// means the response has already been written.
func (h *LoanRequestHandler) decision(c echo.Context) (*usecase.Caller, uint64, notesReq, error) {
	var req notesReq
	caller, ok := callerFrom(c)
	if !ok {
		return nil, 0, req, c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	id, ok := pathID(c)
	if !ok {
		return nil, 0, req, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id path param"})
	}
	if err := c.Bind(&req); err != nil {
		return nil, 0, req, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return nil, 0, req, validationFailed(c, err)
	}
	return &caller, id, req, nil
}
