// Package controllers holds the HTTP handlers. Every handler is built by a
// method of Controller returning a gin.HandlerFunc; handlers behind the gate
// receive the caller as an auth.Principal.
package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/atmacsn/agriadmin/apperror"
	"github.com/atmacsn/agriadmin/auth"
	"github.com/atmacsn/agriadmin/events"
	"github.com/atmacsn/agriadmin/metrics"
	"github.com/atmacsn/agriadmin/pagination"
	"github.com/atmacsn/agriadmin/repository"
	"github.com/atmacsn/agriadmin/storage"
	"github.com/atmacsn/agriadmin/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Options struct {
	Stores  *repository.Stores
	Tokens  *auth.TokenService
	Ledger  auth.Ledger
	Cookies auth.CookieConfig
	Events  events.Publisher
	Metrics *metrics.Metrics
	Logger  logrus.FieldLogger

	Files     storage.ObjectStore
	Validator *storage.FileValidator

	DefaultLimit      int
	MaxLimit          int
	AdminRegistration bool
}

type Controller struct {
	stores  *repository.Stores
	tokens  *auth.TokenService
	ledger  auth.Ledger
	cookies auth.CookieConfig
	events  events.Publisher
	metrics *metrics.Metrics
	logger  logrus.FieldLogger

	files     storage.ObjectStore
	validator *storage.FileValidator

	defaultLimit      int
	maxLimit          int
	adminRegistration bool
}

func New(opts Options) *Controller {
	if opts.Events == nil {
		opts.Events = events.NoopPublisher{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Validator == nil {
		opts.Validator = storage.NewFileValidator(nil, nil, 0)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = pagination.DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = pagination.MaxLimit
	}
	return &Controller{
		stores:            opts.Stores,
		tokens:            opts.Tokens,
		ledger:            opts.Ledger,
		cookies:           opts.Cookies,
		events:            opts.Events,
		metrics:           opts.Metrics,
		logger:            opts.Logger,
		files:             opts.Files,
		validator:         opts.Validator,
		defaultLimit:      opts.DefaultLimit,
		maxLimit:          opts.MaxLimit,
		adminRegistration: opts.AdminRegistration,
	}
}

func (h *Controller) page(c *gin.Context) pagination.Query {
	return pagination.FromRequest(c, h.defaultLimit, h.maxLimit)
}

// scope returns the sub-district the caller is restricted to, or nil for an
// admin who sees everything.
func (h *Controller) scope(ctx context.Context, p auth.Principal) (*bson.ObjectID, error) {
	if p.IsAdmin() {
		return nil, nil
	}
	account, err := h.stores.Accounts.FindByID(ctx, p.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Unauthorized("User not found")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if account.SubDistrict == nil || account.SubDistrict.IsZero() {
		return nil, apperror.BadRequest("User is not assigned to any subdistrict")
	}
	return account.SubDistrict, nil
}

// scopeFilter restricts a query on documents carrying a subDistrict field
// to the caller's scope.
func (h *Controller) scopeFilter(ctx context.Context, p auth.Principal) (bson.M, error) {
	sd, err := h.scope(ctx, p)
	if err != nil {
		return nil, err
	}
	if sd == nil {
		return bson.M{}, nil
	}
	return bson.M{"subDistrict": *sd}, nil
}

// ensureInScope rejects a user acting on a document outside their
// sub-district.
func (h *Controller) ensureInScope(ctx context.Context, p auth.Principal, subDistrict bson.ObjectID) error {
	sd, err := h.scope(ctx, p)
	if err != nil {
		return err
	}
	if sd != nil && *sd != subDistrict {
		return apperror.Forbidden("Access forbidden outside your sub-district")
	}
	return nil
}

// storeError maps a repository failure, using notFound for a missing
// document.
func storeError(err error, notFound string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(notFound)
	}
	return apperror.Internal(err)
}

func (h *Controller) publish(c *gin.Context, e events.Event) {
	h.events.Publish(c.Request.Context(), e)
}

// Health answers GET /.
func (h *Controller) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.Respond(c, http.StatusOK, "Agri admin API is running", gin.H{"status": "ok"})
	}
}

func (h *Controller) Ping() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	}
}
