package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/stayboard/internal/config"
    "github.com/iliyamo/stayboard/internal/middleware"
    "github.com/iliyamo/stayboard/internal/model"
    "github.com/iliyamo/stayboard/internal/repository"
    "github.com/iliyamo/stayboard/internal/utils"
)

// OperatorStore is implemented by repository.OperatorRepo.
type OperatorStore interface {
    Create(ctx context.Context, email, name, password, role string, cost int) (uint64, error)
    GetByEmail(ctx context.Context, email string) (model.Operator, error)
    GetByID(ctx context.Context, id uint64) (model.Operator, error)
    Count(ctx context.Context) (int, error)
}

// TokenStore is implemented by repository.TokenRepo.
type TokenStore interface {
    StoreRefresh(ctx context.Context, operatorID uint64, tokenHash string, exp time.Time) error
    ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
    RevokeByHash(ctx context.Context, tokenHash string) error
    RevokeAllForOperator(ctx context.Context, operatorID uint64) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
    Cfg       config.Config
    Operators OperatorStore
    Tokens    TokenStore
}

func NewAuthHandler(cfg config.Config, o OperatorStore, t TokenStore) *AuthHandler {
    if o == nil || t == nil {
        panic("nil repository passed to NewAuthHandler")
    }
    return &AuthHandler{Cfg: cfg, Operators: o, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
    Email    string `json:"email" validate:"required,email"`
    Name     string `json:"name" validate:"required,notblank"`
    Password string `json:"password" validate:"required"`
}
type loginReq struct {
    Email    string `json:"email" validate:"required"`
    Password string `json:"password" validate:"required"`
}
type refreshReq struct {
    RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
    Token   string    `json:"token"`
    Expires time.Time `json:"expires"`
}
type operatorPart struct {
    ID    uint64 `json:"id"`
    Email string `json:"email"`
    Name  string `json:"name"`
    Role  string `json:"role"`
}
type authResp struct {
    Operator operatorPart `json:"operator"`
    Access   tokenPart    `json:"access"`
    Refresh  tokenPart    `json:"refresh"`
}

func partOf(o model.Operator) operatorPart {
    return operatorPart{ID: o.ID, Email: o.Email, Name: o.DisplayName(), Role: o.Role}
}

// issue signs an access token, stores a new refresh token and writes the
// pair.
func (h *AuthHandler) issue(ctx context.Context, c echo.Context, status int, o model.Operator) error {
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, utils.Claims{OperatorID: o.ID, Role: o.Role, Name: o.DisplayName()}, h.Cfg.AccessTTLMin)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, "issue access failed")
    }
    refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, "issue refresh failed")
    }
    if err := h.Tokens.StoreRefresh(ctx, o.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
        return errorJSON(c, http.StatusInternalServerError, "save refresh failed")
    }
    return c.JSON(status, authResp{
        Operator: partOf(o),
        Access:   tokenPart{Token: access.Token, Expires: access.Exp},
        Refresh:  tokenPart{Token: refresh.Raw, Expires: refresh.Exp}, // raw back to client
    })
}

// Register creates an operator and returns tokens immediately.  The first
// operator of an empty desk becomes ADMIN; everyone after that is OPERATOR.
func (h *AuthHandler) Register(c echo.Context) error {
    var req registerReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    role := model.RoleOperator
    n, err := h.Operators.Count(ctx)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, "query failed")
    }
    if n == 0 {
        role = model.RoleAdmin
    }

    id, err := h.Operators.Create(ctx, req.Email, req.Name, req.Password, role, h.Cfg.BcryptCost)
    switch {
    case errors.Is(err, repository.ErrEmailExists):
        return errorJSON(c, http.StatusConflict, "email already exists")
    case errors.Is(err, utils.ErrWeakPassword):
        return errorJSON(c, http.StatusBadRequest, "password must be at least 8 characters")
    case err != nil:
        return errorJSON(c, http.StatusInternalServerError, "create operator failed")
    }

    return h.issue(ctx, c, http.StatusCreated, model.Operator{
        ID:       id,
        Email:    req.Email,
        Name:     strings.TrimSpace(req.Name),
        Role:     role,
        IsActive: true,
    })
}

// Login verifies credentials and returns a new pair.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if ok, err := bindAndValidate(c, &req); !ok {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    o, err := h.Operators.GetByEmail(ctx, req.Email)
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
        }
        return errorJSON(c, http.StatusInternalServerError, "query failed")
    }
    if !o.IsActive || !utils.VerifyPassword(o.PasswordHash, req.Password) {
        return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
    }
    return h.issue(ctx, c, http.StatusOK, o)
}

// loadByRefresh validates a refresh token and loads its operator.
func (h *AuthHandler) loadByRefresh(ctx context.Context, raw string) (model.Operator, string, error) {
    hash := utils.HashRefreshRaw(raw)
    id, err := h.Tokens.ValidateRefresh(ctx, hash)
    if err != nil {
        return model.Operator{}, hash, err
    }
    o, err := h.Operators.GetByID(ctx, id)
    if err == nil && !o.IsActive {
        err = repository.ErrNotFound
    }
    return o, hash, err
}

// Refresh validates by hash, revokes the old token and issues a new pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return errorJSON(c, http.StatusBadRequest, "refresh_token required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    o, hash, err := h.loadByRefresh(ctx, strings.TrimSpace(req.RefreshToken))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return errorJSON(c, http.StatusUnauthorized, "invalid refresh")
        }
        return errorJSON(c, http.StatusInternalServerError, "load operator failed")
    }
    _ = h.Tokens.RevokeByHash(ctx, hash)
    return h.issue(ctx, c, http.StatusOK, o)
}

// RefreshAccess returns a new access token without rotating the refresh
// token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
    var req refreshReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
        return errorJSON(c, http.StatusBadRequest, "refresh_token required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    o, _, err := h.loadByRefresh(ctx, strings.TrimSpace(req.RefreshToken))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return errorJSON(c, http.StatusUnauthorized, "invalid refresh")
        }
        return errorJSON(c, http.StatusInternalServerError, "load operator failed")
    }
    access, err := utils.NewAccessToken(h.Cfg.JWTSecret, utils.Claims{OperatorID: o.ID, Role: o.Role, Name: o.DisplayName()}, h.Cfg.AccessTTLMin)
    if err != nil {
        return errorJSON(c, http.StatusInternalServerError, "issue access failed")
    }
    return c.JSON(http.StatusOK, echo.Map{
        "access": tokenPart{Token: access.Token, Expires: access.Exp},
    })
}

// Logout revokes one session when a refresh_token is sent, or every session
// of the operator when only a valid bearer token is present.
func (h *AuthHandler) Logout(c echo.Context) error {
    var (
        uid       uint64
        hasBearer bool
    )
    if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
        if claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))); err == nil {
            uid, hasBearer = claims.OperatorID, true
        }
    }

    var req refreshReq
    _ = c.Bind(&req)
    refreshToken := strings.TrimSpace(req.RefreshToken)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if refreshToken != "" {
        hash := utils.HashRefreshRaw(refreshToken)
        if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
            return errorJSON(c, http.StatusUnauthorized, "invalid refresh token")
        }
        if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
            return errorJSON(c, http.StatusInternalServerError, "logout failed")
        }
        return c.NoContent(http.StatusNoContent)
    }
    if hasBearer {
        if err := h.Tokens.RevokeAllForOperator(ctx, uid); err != nil {
            return errorJSON(c, http.StatusInternalServerError, "logout failed")
        }
        return c.NoContent(http.StatusNoContent)
    }
    return errorJSON(c, http.StatusBadRequest, "provide Authorization header or refresh_token")
}

// Me returns the authenticated operator.
func (h *AuthHandler) Me(c echo.Context) error {
    o, err := h.Operators.GetByID(c.Request().Context(), middleware.OperatorID(c))
    if err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return errorJSON(c, http.StatusUnauthorized, "unauthorized")
        }
        return errorJSON(c, http.StatusInternalServerError, "load operator failed")
    }
    return c.JSON(http.StatusOK, partOf(o))
}
