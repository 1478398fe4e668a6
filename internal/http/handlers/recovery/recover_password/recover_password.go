package recoverpassword

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/core/services"
	service "recoverable/internal/core/services/recover_password"
	"recoverable/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(service services.Service[service.Input, service.Result]) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Input struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required, validation.Length(0, 128)),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 256)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	_, err := h.service.Run(
		r.Context(),
		service.Input{
			Token:       user.RecoveryToken(input.Token),
			NewPassword: user.RawPassword(input.Password),
		},
	)
	switch {
	case errors.Is(err, user.ErrInvalidRecoveryToken), errors.Is(err, user.ErrRecoveryTokenExpired):
		response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
	case err != nil:
		response.RenderInternalError(rw)
	default:
		response.Render(rw, struct{}{}, http.StatusOK)
	}
}
