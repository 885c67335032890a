package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/dto"
	"github.com/atmacsn/agriadmin/events"
	"github.com/atmacsn/agriadmin/middleware"
	"github.com/atmacsn/agriadmin/models"
	"github.com/atmacsn/agriadmin/repository"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// POST /login
func (h *Controller) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		account, err := h.stores.Accounts.FindOne(c.Request.Context(), bson.M{"email": email})
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		if account == nil || auth.CheckPassword(account.PasswordHash, body.Password) != nil {
			h.metrics.Login("failure")
			utils.Fail(c, apperror.Unauthorized("Invalid login credentials"))
			return
		}

		pair, err := h.tokens.IssuePair(account)
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		h.cookies.SetRefresh(c, pair.RefreshToken, time.Until(pair.RefreshExpiresAt))
		h.metrics.Login("success")
		h.publish(c, events.New(events.AuthLogin, account.ID.Hex(), account.ID.Hex(), map[string]any{
			"role": account.Role,
		}))

		utils.Respond(c, http.StatusOK, "Login Succesfull", gin.H{
			"accessToken": pair.AccessToken,
			"role":        account.Role,
		})
	}
}

// GET /refresh-token
//
// The presented refresh token is revoked before the new pair is issued, so a
// refresh token works exactly once.
func (h *Controller) Refresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		token := auth.RefreshFromRequest(c)
		if token == "" {
			h.metrics.Refresh("missing")
			utils.Fail(c, apperror.Forbidden("Refresh token required"))
			return
		}

		invalid := func() {
			h.metrics.Refresh("invalid")
			utils.Fail(c, apperror.Forbidden("Invalid or expired refresh token"))
		}

		claims, err := h.tokens.Verify(token, auth.RefreshToken)
		if err != nil {
			invalid()
			return
		}
		// Of two requests presenting the same token only one claims it.
		claimed, err := h.ledger.Claim(ctx, token, claims.Expiry())
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		if !claimed {
			invalid()
			return
		}
		h.metrics.Revoked()

		account, err := h.stores.Accounts.FindByID(ctx, claims.Principal().ID)
		if errors.Is(err, repository.ErrNotFound) {
			invalid()
			return
		}
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}

		pair, err := h.tokens.IssuePair(account)
		if err != nil {
			utils.Fail(c, apperror.Internal(err))
			return
		}
		h.cookies.SetRefresh(c, pair.RefreshToken, time.Until(pair.RefreshExpiresAt))
		h.metrics.Refresh("success")

		utils.Respond(c, http.StatusOK, "Token refreshed", gin.H{"accessToken": pair.AccessToken})
	}
}

// POST /logout
//
// Logout always succeeds. Every token presented that still verifies goes
// into the ledger until its own expiry.
func (h *Controller) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var actor string

		revoke := func(token string, kind auth.TokenKind) {
			claims, err := h.tokens.Verify(token, kind)
			if err != nil {
				return
			}
			actor = claims.ID
			if err := h.ledger.Revoke(ctx, token, claims.Expiry()); err != nil {
				h.logger.WithError(err).WithField("kind", kind).Warn("failed to revoke token on logout")
				return
			}
			h.metrics.Revoked()
		}

		if refresh := auth.RefreshFromRequest(c); refresh != "" {
			revoke(refresh, auth.RefreshToken)
		}
		if access, ok := middleware.BearerToken(c); ok {
			revoke(access, auth.AccessToken)
		}

		h.cookies.ClearRefresh(c)
		if actor != "" {
			h.publish(c, events.New(events.AuthLogout, actor, actor, nil))
		}
		utils.Respond(c, http.StatusOK, "Logged out successfully", nil)
	}
}

// POST /register-admin
func (h *Controller) RegisterAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.adminRegistration {
			utils.Fail(c, apperror.Forbidden("Admin registration is disabled"))
			return
		}

		var body dto.RegisterAdminDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		account, err := h.createAccount(c, body.Email, body.Password, models.RoleAdmin, nil)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusBadRequest, "Admin already exists"))
			return
		}
		if err != nil {
			utils.Fail(c, err)
			return
		}
		utils.Respond(c, http.StatusCreated, "Admin Registered", account)
	}
}

// POST /admin/register-user
func (h *Controller) RegisterUser() middleware.AuthedHandler {
	return func(c *gin.Context, p auth.Principal) {
		var body dto.RegisterUserDTO
		if err := utils.BindJSON(c, &body); err != nil {
			utils.Fail(c, err)
			return
		}

		subDistrictID, err := utils.OptionalObjectID(body.SubDistrict)
		if err != nil || subDistrictID == nil {
			utils.Fail(c, apperror.BadRequest("invalid subDistrict"))
			return
		}
		if _, err := h.stores.SubDistricts.FindByID(c.Request.Context(), *subDistrictID); err != nil {
			utils.Fail(c, storeError(err, "Sub-District not found"))
			return
		}

		account, err := h.createAccount(c, body.Email, body.Password, models.RoleUser, subDistrictID)
		if errors.Is(err, repository.ErrDuplicate) {
			utils.Fail(c, apperror.Duplicate(http.StatusConflict, "Email already registered"))
			return
		}
		if err != nil {
			utils.Fail(c, err)
			return
		}

		h.publish(c, events.New(events.AccountRegistered, p.ID.Hex(), account.ID.Hex(), map[string]any{
			"role":        account.Role,
			"subDistrict": subDistrictID.Hex(),
		}))
		utils.Respond(c, http.StatusCreated, "User registered successfully", account)
	}
}

func (h *Controller) createAccount(c *gin.Context, email, password string, role models.Role, subDistrict *bson.ObjectID) (*models.Account, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := time.Now().UTC()
	account := &models.Account{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
		SubDistrict:  subDistrict,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	id, err := h.stores.Accounts.Insert(c.Request.Context(), account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		return nil, apperror.Internal(err)
	}
	account.ID = id
	return account, nil
}
