package requestrecover

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "recoverable/internal/core/domain/common"
	e "recoverable/internal/core/domain/errors"
	"recoverable/internal/core/domain/user"
	"recoverable/internal/core/services"
	service "recoverable/internal/core/services/request_recover"
	"recoverable/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const TEST_TOKEN_HEADER = "x-test-recovery-token"

type Handler struct {
	service    services.Service[service.Input, service.Result]
	isTestMode bool
}

func New(
	service services.Service[service.Input, service.Result],
	isTestMode bool,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
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

	result, err := h.service.Run(
		r.Context(),
		service.Input{Criteria: user.Criteria{Email: c.Some(c.NewEmail(input.Email))}},
	)
	if errors.Is(err, user.ErrRecoveryDetailsInvalid) {
		response.RenderError(rw, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	if h.isTestMode {
		rw.Header().Set(TEST_TOKEN_HEADER, string(result.User.RecoveryToken.Value))
	}
	response.Render(rw, struct{}{}, http.StatusOK)
}
