package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-management-service/internal/application"
	"github.com/oksasatya/user-management-service/internal/domain"
	"github.com/oksasatya/user-management-service/internal/domain/entity"
	repo "github.com/oksasatya/user-management-service/internal/domain/repository"
	"github.com/oksasatya/user-management-service/pkg/response"
	"github.com/oksasatya/user-management-service/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserHandler{Svc: svc, Logger: logger}
}

type userRequest struct {
	FirstName  string  `json:"firstName" binding:"required,min=2,max=100"`
	LastName   string  `json:"lastName" binding:"required,min=2,max=100"`
	Email      string  `json:"email" binding:"required,email,max=150"`
	Phone      string  `json:"phone" binding:"omitempty,phone"`
	Address    string  `json:"address" binding:"max=200"`
	City       string  `json:"city" binding:"max=100"`
	Country    string  `json:"country" binding:"max=100"`
	PostalCode string  `json:"postalCode" binding:"max=20"`
	Role       string  `json:"role" binding:"required,userrole"`
	Status     *string `json:"status" binding:"omitempty,userstatus"`
	Bio        string  `json:"bio" binding:"max=500"`
	AvatarURL  string  `json:"avatarUrl" binding:"max=200"`
}

// UnmarshalJSON trims names and email before the binding tags run.
func (r *userRequest) UnmarshalJSON(b []byte) error {
	type plain userRequest
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = userRequest(v)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	return nil
}

type statusRequest struct {
	Status string `json:"status" binding:"required,userstatus"`
}

type userResponse struct {
	ID          int64             `json:"id"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	Country     string            `json:"country"`
	PostalCode  string            `json:"postalCode"`
	Role        entity.UserRole   `json:"role"`
	Status      entity.UserStatus `json:"status"`
	Bio         string            `json:"bio"`
	AvatarURL   string            `json:"avatarUrl"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	LastLoginAt *time.Time        `json:"lastLoginAt,omitempty"`
}

type statsResponse struct {
	ActiveUsers    int64 `json:"activeUsers"`
	InactiveUsers  int64 `json:"inactiveUsers"`
	SuspendedUsers int64 `json:"suspendedUsers"`
	PendingUsers   int64 `json:"pendingUsers"`
	Admins         int64 `json:"admins"`
	Managers       int64 `json:"managers"`
	RegularUsers   int64 `json:"regularUsers"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		Address:     u.Address,
		City:        u.City,
		Country:     u.Country,
		PostalCode:  u.PostalCode,
		Role:        u.Role,
		Status:      u.Status,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

func toUserResponses(users []entity.User) []userResponse {
	out := make([]userResponse, len(users))
	for i := range users {
		out[i] = toUserResponse(&users[i])
	}
	return out
}

func (r userRequest) toInput() userapp.UserInput {
	// role and status were checked by the userrole/userstatus tags
	role, _ := entity.ParseUserRole(r.Role)
	in := userapp.UserInput{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Phone:      r.Phone,
		Address:    r.Address,
		City:       r.City,
		Country:    r.Country,
		PostalCode: r.PostalCode,
		Role:       role,
		Bio:        r.Bio,
		AvatarURL:  r.AvatarURL,
	}
	if r.Status != nil {
		st, _ := entity.ParseUserStatus(*r.Status)
		in.Status = &st
	}
	return in
}

func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusCreated, toUserResponse(u), "user created", nil))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, toUserResponse(u), "user", nil))
}

func (h *UserHandler) List(c *gin.Context) {
	p, ok := h.pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Svc.ListAll(c.Request.Context(), p)
	h.writePage(c, page, err, "users")
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, toUserResponse(u), "user updated", nil))
}

func (h *UserHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.invalid(c, validation.ToDetails(err))
		return
	}
	st, _ := entity.ParseUserStatus(req.Status)
	u, err := h.Svc.ChangeStatus(c.Request.Context(), id, st)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, toUserResponse(u), "status updated", nil))
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAvatarBytes+1<<10)
	fh, err := c.FormFile("file")
	if err != nil {
		h.invalid(c, map[string]string{"file": "is required"})
		return
	}
	if fh.Size > maxAvatarBytes {
		h.invalid(c, map[string]string{"file": "must be at most 5MB"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.invalid(c, map[string]string{"file": "must be an image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	u, err := h.Svc.UploadAvatar(c.Request.Context(), id, f, fh.Filename, contentType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, toUserResponse(u), "avatar uploaded", nil))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		h.invalid(c, map[string]string{"q": "is required"})
		return
	}
	p, ok := h.pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Svc.Search(c.Request.Context(), q, p)
	h.writePage(c, page, err, "search results")
}

func (h *UserHandler) FilterByRole(c *gin.Context) {
	role, err := entity.ParseUserRole(c.Param("role"))
	if err != nil {
		h.invalid(c, map[string]string{"role": err.Error()})
		return
	}
	p, ok := h.pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Svc.FilterByRole(c.Request.Context(), role, p)
	h.writePage(c, page, err, "users by role")
}

func (h *UserHandler) FilterByStatus(c *gin.Context) {
	status, err := entity.ParseUserStatus(c.Param("status"))
	if err != nil {
		h.invalid(c, map[string]string{"status": err.Error()})
		return
	}
	p, ok := h.pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Svc.FilterByStatus(c.Request.Context(), status, p)
	h.writePage(c, page, err, "users by status")
}

func (h *UserHandler) FilterByRoleAndStatus(c *gin.Context) {
	details := map[string]string{}
	role, err := entity.ParseUserRole(c.Query("role"))
	if err != nil {
		details["role"] = err.Error()
	}
	status, err := entity.ParseUserStatus(c.Query("status"))
	if err != nil {
		details["status"] = err.Error()
	}
	if len(details) > 0 {
		h.invalid(c, details)
		return
	}
	p, ok := h.pageRequest(c)
	if !ok {
		return
	}
	page, err := h.Svc.FilterByRoleAndStatus(c.Request.Context(), role, status, p)
	h.writePage(c, page, err, "users by role and status")
}

func (h *UserHandler) FilterByCity(c *gin.Context) {
	users, err := h.Svc.FilterByCity(c.Request.Context(), c.Param("city"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, toUserResponses(users), "users by city", nil))
}

func (h *UserHandler) FilterByCountry(c *gin.Context) {
	users, err := h.Svc.FilterByCountry(c.Request.Context(), c.Param("country"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, toUserResponses(users), "users by country", nil))
}

func (h *UserHandler) Stats(c *gin.Context) {
	s, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.JSON(c, response.Success(c, http.StatusOK, statsResponse{
		ActiveUsers:    s.ByStatus[entity.StatusActive],
		InactiveUsers:  s.ByStatus[entity.StatusInactive],
		SuspendedUsers: s.ByStatus[entity.StatusSuspended],
		PendingUsers:   s.ByStatus[entity.StatusPending],
		Admins:         s.ByRole[entity.RoleAdmin],
		Managers:       s.ByRole[entity.RoleManager],
		RegularUsers:   s.ByRole[entity.RoleUser],
	}, "user statistics", nil))
}

func (h *UserHandler) userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.invalid(c, map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// pageRequest reads page, size, sortBy and sortDir, applying defaults for absent values.
func (h *UserHandler) pageRequest(c *gin.Context) (repo.PageRequest, bool) {
	p := repo.DefaultPageRequest()
	details := map[string]string{}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			details["page"] = "must be a non-negative integer"
		} else {
			p.Page = n
		}
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > repo.MaxPageSize {
			details["size"] = "must be between 1 and " + strconv.Itoa(repo.MaxPageSize)
		} else {
			p.Size = n
		}
	}
	if v := c.Query("sortBy"); v != "" {
		if !repo.IsSortable(v) {
			details["sortBy"] = "must be one of [" + strings.Join(repo.SortableFields(), ", ") + "]"
		} else {
			p.SortBy = v
		}
	}
	if v := c.Query("sortDir"); v != "" {
		dir, err := repo.ParseSortDirection(v)
		if err != nil {
			details["sortDir"] = "must be ASC or DESC"
		} else {
			p.SortDir = dir
		}
	}

	if len(details) > 0 {
		h.invalid(c, details)
		return p, false
	}
	return p, true
}

func (h *UserHandler) writePage(c *gin.Context, page userapp.PageResult[entity.User], err error, message string) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := userapp.MapPage(page, func(u entity.User) userResponse { return toUserResponse(&u) })
	response.JSON(c, response.Success(c, http.StatusOK, out, message, nil))
}

func (h *UserHandler) invalid(c *gin.Context, details map[string]string) {
	response.JSON(c, response.Error[any](c, http.StatusBadRequest, "validation failed", details))
}

// writeError maps domain error codes to HTTP statuses.
func (h *UserHandler) writeError(c *gin.Context, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		status := http.StatusBadRequest
		switch derr.Code {
		case domain.ErrCodeNotFound:
			status = http.StatusNotFound
		case domain.ErrCodeConflict:
			status = http.StatusConflict
		}
		response.JSON(c, response.Error[any](c, status, derr.Error(), nil))
		return
	}
	switch {
	case errors.Is(err, userapp.ErrAvatarStorageDisabled):
		response.JSON(c, response.Error[any](c, http.StatusServiceUnavailable, err.Error(), nil))
	default:
		h.Logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
		response.JSON(c, response.Error[any](c, http.StatusInternalServerError, "internal server error", nil))
	}
}
