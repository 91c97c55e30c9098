// internal/app/features/members/handler.go
package members

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	memberstore "github.com/dalemusser/guildhub/internal/app/store/members"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/httpjson"
	"github.com/dalemusser/guildhub/internal/app/system/paging"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Members *memberstore.Store
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Members: memberstore.New(db), ErrLog: errLog, Log: logger}
}

// ServeList handles GET /?q=&before=&after=&limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := memberstore.Query{
		GuildID: authz.GuildID(r),
		Search:  query.Search(r, "q"),
		Before:  query.Get(r, "before"),
		After:   query.Get(r, "after"),
		Limit:   paging.ParseLimit(r),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "members.list")
	defer cancel()

	page, err := h.Members.List(ctx, q)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members failed", err, "Unable to load members.")
		return
	}
	httpjson.OK(w, page)
}

// ServeMember handles GET /{userID}.
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Read(), h.Log, "members.get")
	defer cancel()

	m, err := h.Members.Get(ctx, authz.GuildID(r), chi.URLParam(r, "userID"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.NotFound(w, "member")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load member failed", err, "")
		return
	}
	httpjson.OK(w, m)
}

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{userID}", h.ServeMember)
	return r
}
