package http

import (
	"net/http"

	usecase "digilib-backend/internal/usecase/loanrequest"

	"github.com/labstack/echo/v4"
)

type BookHandler struct{ uc *usecase.Usecase }

func NewBookHandler(uc *usecase.Usecase) *BookHandler { return &BookHandler{uc: uc} }

type pageReq struct {
	Page  int `query:"page"  validate:"omitempty,gte=1"`
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=100"`
}

func (h *BookHandler) Available(c echo.Context) error {
	var req pageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query"})
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	res, err := h.uc.AvailableBooks(c.Request().Context(), req.Page, req.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
