package mockapi

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jrsteele09/go-agri-dashboard/crops"
	apperrors "github.com/jrsteele09/go-agri-dashboard/internal/errors"
	"github.com/jrsteele09/go-agri-dashboard/token"
	"github.com/jrsteele09/go-agri-dashboard/users"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func detailBody(detail string) map[string]interface{} {
	return map[string]interface{}{"detail": detail}
}

func tokenNotValidBody() map[string]interface{} {
	return map[string]interface{}{
		"detail": "Given token not valid for any token type",
		"code":   "token_not_valid",
	}
}

func fieldErrorsBody(fields map[string][]string) map[string]interface{} {
	return map[string]interface{}{"details": fields}
}

func decodeBody(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusBadRequest, detailBody("JSON parse error."))
		return false
	}
	return true
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    users.Profile `json:"user"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeBody(w, r, &req) {
			return
		}
		user, ok := s.users.authenticate(req.Username, req.Password)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"details": map[string]string{"message": "Invalid username or password."},
			})
			return
		}

		pair, err := s.issuePair(user.ID)
		if err != nil {
			s.logger.Err(err).Msg("Failed to issue tokens")
			writeJSON(w, http.StatusInternalServerError, detailBody("Internal server error."))
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Access: pair.Access, Refresh: pair.Refresh, User: user})
	}
}

func (s *Server) issuePair(userID int) (token.Pair, error) {
	access, err := s.tokens.issue(userID)
	if err != nil {
		return token.Pair{}, err
	}
	refresh, err := s.refresh.create(userID)
	if err != nil {
		return token.Pair{}, err
	}
	return token.Pair{Access: access, Refresh: refresh}, nil
}

// RefreshHandler mints a new access token. With rotation enabled the old
// refresh token is revoked and a new one returned.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Refresh == "" {
			writeJSON(w, http.StatusBadRequest, fieldErrorsBody(map[string][]string{"refresh": {"This field is required."}}))
			return
		}
		userID, ok := s.refresh.lookup(req.Refresh)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"detail": "Token is invalid or expired",
				"code":   "token_not_valid",
			})
			return
		}

		access, err := s.tokens.issue(userID)
		if err != nil {
			s.logger.Err(err).Msg("Failed to issue access token")
			writeJSON(w, http.StatusInternalServerError, detailBody("Internal server error."))
			return
		}
		resp := token.Pair{Access: access}
		if s.config.GetRotateRefreshTokens() {
			s.refresh.revoke(req.Refresh)
			if resp.Refresh, err = s.refresh.create(userID); err != nil {
				s.logger.Err(err).Msg("Failed to rotate refresh token")
				writeJSON(w, http.StatusInternalServerError, detailBody("Internal server error."))
				return
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) CurrentUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.users.byID(userIDFrom(r))
		if !ok {
			writeJSON(w, http.StatusNotFound, detailBody("Not found."))
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if owner, ok := s.refresh.lookup(req.Refresh); !ok || owner != userIDFrom(r) {
			writeJSON(w, http.StatusBadRequest, detailBody("Token is invalid or expired"))
			return
		}
		s.refresh.revoke(req.Refresh)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out."})
	}
}

func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.signupDisabled {
			writeJSON(w, http.StatusForbidden, detailBody("Public signup is disabled."))
			return
		}
		var req users.RegisterData
		if !decodeBody(w, r, &req) {
			return
		}
		if err := req.Validate(); err != nil {
			var ve *apperrors.ValidationError
			if apperrors.As(err, &ve) {
				writeJSON(w, http.StatusBadRequest, fieldErrorsBody(ve.Fields))
				return
			}
			writeJSON(w, http.StatusBadRequest, detailBody(err.Error()))
			return
		}
		if conflicts := s.users.conflicts(req.Username, req.Email); len(conflicts) > 0 {
			writeJSON(w, http.StatusBadRequest, fieldErrorsBody(conflicts))
			return
		}

		user, err := s.users.create(req.Username, req.Email, req.Password, req.FirstName, req.LastName)
		if err != nil {
			s.logger.Err(err).Msg("Failed to create user")
			writeJSON(w, http.StatusInternalServerError, detailBody("Internal server error."))
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

type tableResponse struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next"`
	Previous *string          `json:"previous"`
	Results  []crops.CropData `json:"results"`
}

// TableDataHandler serves one page of the crop table. It accepts page,
// page_size, search, ordering and comma-joined filter parameters.
func (s *Server) TableDataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseTableQuery(r.URL.Query())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, detailBody(err.Error()))
			return
		}
		rows, count, ok := s.crops.query(q)
		if !ok {
			writeJSON(w, http.StatusNotFound, detailBody("Invalid page."))
			return
		}

		resp := tableResponse{Count: count, Results: rows}
		if q.page*q.pageSize < count {
			resp.Next = pageLink(r, q.page+1)
		}
		if q.page > 1 {
			resp.Previous = pageLink(r, q.page-1)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func parseTableQuery(values url.Values) (tableQuery, error) {
	q := tableQuery{page: 1, pageSize: 10, filters: map[string][]string{}}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return q, apperrors.Wrapf(apperrors.ErrValidation, "invalid page %q", raw)
		}
		q.page = page
	}
	if raw := values.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return q, apperrors.Wrapf(apperrors.ErrValidation, "invalid page_size %q", raw)
		}
		if size > maxPageSize {
			size = maxPageSize
		}
		q.pageSize = size
	}
	q.search = strings.TrimSpace(values.Get("search"))
	q.ordering = values.Get("ordering")
	for _, key := range []string{"country", "status", "crop_name"} {
		if raw := values.Get(key); raw != "" {
			q.filters[key] = strings.Split(raw, ",")
		}
	}
	return q, nil
}

func pageLink(r *http.Request, page int) *string {
	values := r.URL.Query()
	values.Set("page", strconv.Itoa(page))
	link := r.URL.Path + "?" + values.Encode()
	return &link
}

func (s *Server) CropDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, ok := s.crops.get(mux.Vars(r)["id"])
		if !ok {
			writeJSON(w, http.StatusNotFound, detailBody("Not found."))
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

type formSubmission struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	Age           *int   `json:"age"`
	Website       string `json:"website"`
	Bio           string `json:"bio"`
	Country       string `json:"country"`
	AgreeTerms    bool   `json:"agree_terms"`
	ContactMethod string `json:"contact_method"`
}

// FormSubmitHandler checks the entry form the way the real API does and
// answers 400 with snake_case field errors under "details"
func (s *Server) FormSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req formSubmission
		if !decodeBody(w, r, &req) {
			return
		}
		if fields := req.validate(); len(fields) > 0 {
			writeJSON(w, http.StatusBadRequest, fieldErrorsBody(fields))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Form submitted successfully!"})
	}
}

func (f formSubmission) validate() map[string][]string {
	fields := map[string][]string{}
	add := func(field, msg string) {
		fields[field] = append(fields[field], msg)
	}

	if len(strings.TrimSpace(f.FullName)) < 3 {
		add("full_name", "Ensure this field has at least 3 characters.")
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		add("email", "Enter a valid email address.")
	}
	switch f.ContactMethod {
	case "email":
	case "phone", "both":
		if f.Phone == "" {
			add("phone", "Phone is required for this contact method.")
		}
	default:
		add("contact_method", `"`+f.ContactMethod+`" is not a valid choice.`)
	}
	if f.Age != nil && (*f.Age < 1 || *f.Age > 150) {
		add("age", "Ensure this value is between 1 and 150.")
	}
	if !f.AgreeTerms {
		add("agree_terms", "You must agree to the terms.")
	}
	return fields
}
