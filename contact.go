package feedsite

import (
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/labstack/echo/v4"
)

// ContactRequest is a contact form submission.
type ContactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

func (r *ContactRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Message = strings.TrimSpace(r.Message)
}

// Validate checks the submission fields.
func (r ContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat, validation.Length(3, 254)),
		validation.Field(&r.Subject, validation.Length(0, 200)),
		validation.Field(&r.Message, validation.Required, validation.Length(10, 5000)),
	)
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields validation.Errors `json:"fields"`
}

// handleContact accepts a submission and logs it. There is no delivery
// backend.
func (a *App) handleContact(c echo.Context) error {
	ip := c.RealIP()
	if !a.contactLimiter.Check(ip) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many submissions, try again later")
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		var fields validation.Errors
		if errors.As(err, &fields) {
			return c.JSON(http.StatusUnprocessableEntity, validationResponse{Error: "invalid submission", Fields: fields})
		}
		return err
	}

	a.contactLimiter.Record(ip)
	a.Logger.Info("contact submission",
		"name", req.Name,
		"email", req.Email,
		"subject", req.Subject,
		"length", len(req.Message),
		"ip", ip,
	)
	return c.JSON(http.StatusAccepted, map[string]string{"status": "received"})
}
