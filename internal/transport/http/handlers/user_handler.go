package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/vedran77/quill/internal/service"
	"github.com/vedran77/quill/internal/transport/http/middleware"
	"github.com/vedran77/quill/internal/transport/http/response"
	"github.com/vedran77/quill/pkg/validator"
)

// legacySessionCookie held the token before clients moved to the Authorization header.
const legacySessionCookie = "session"

type UserHandler struct {
	errorReporter
	authService *service.AuthService
}

func NewUserHandler(authService *service.AuthService, exposeErrors bool) *UserHandler {
	return &UserHandler{
		errorReporter: errorReporter{expose: exposeErrors},
		authService:   authService,
	}
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if errs := validator.ValidateSignup(validator.SignupFields{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password,
		ProfileURL: input.ProfileURL,
		Gender:     input.Gender,
		Address:    input.Address,
		Username:   input.Username,
	}); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			response.Fail(w, http.StatusBadRequest, "Email is already registered")
		case errors.Is(err, service.ErrUsernameTaken):
			response.Fail(w, http.StatusBadRequest, "Username is already taken")
		default:
			h.internal(w, "signup", "Error creating user", err)
		}
		return
	}

	response.JSON(w, http.StatusCreated, "User created successfully!", resp)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if errs := validator.ValidateLogin(input.Email, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			response.Fail(w, http.StatusUnauthorized, "Invalid email or password")
		} else {
			h.internal(w, "login", "Error logging in", err)
		}
		return
	}

	response.JSON(w, http.StatusOK, "Logged in successfully!", resp)
}

// Logout clears the legacy session cookie. Bearer tokens are stateless; the client
// drops its copy.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     legacySessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	response.JSON(w, http.StatusOK, "Logged out successfully!", nil)
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, "Profile fetched successfully!", middleware.CurrentUser(r.Context()))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListOthers(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		h.internal(w, "list users", "Error fetching users", err)
		return
	}

	response.JSON(w, http.StatusOK, "Users fetched successfully!", users)
}
