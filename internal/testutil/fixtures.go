package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Snowflakes that pass validation, for tests that do not care about values.
const (
	GuildID   = "111111111111111111"
	OtherID   = "999999999999999999"
	ChannelID = "222222222222222222"
	RoleID    = "333333333333333333"
	UserID    = "444444444444444444"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calling it repeatedly adds to the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures inserts documents the way the bot would write them.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateServer registers a guild the bot has joined.
func (f *Fixtures) CreateServer(ctx context.Context, guildID, name string) models.Server {
	f.t.Helper()
	s := models.Server{ID: primitive.NewObjectID(), GuildID: guildID, Name: name}
	f.insert(ctx, models.CollServers, s)
	return s
}

// CreateMember adds a member to the bot's member directory.
func (f *Fixtures) CreateMember(ctx context.Context, guildID, userID, username string) models.GuildMember {
	f.t.Helper()
	m := models.GuildMember{ID: primitive.NewObjectID(), GuildID: guildID, UserID: userID, Username: username}
	f.insert(ctx, models.CollMembers, m)
	return m
}

// CreateUserLevel records a member's XP standing.
func (f *Fixtures) CreateUserLevel(ctx context.Context, guildID, userID string, level, xp int) models.UserLevel {
	f.t.Helper()
	u := models.UserLevel{ID: primitive.NewObjectID(), GuildID: guildID, UserID: userID, Username: userID, Level: level, XP: xp}
	f.insert(ctx, models.CollUserLevels, u)
	return u
}

// CreateAuditEntry appends an audit log entry.
func (f *Fixtures) CreateAuditEntry(ctx context.Context, guildID string, typ models.LogType, userID string, at time.Time) models.AuditLogEntry {
	f.t.Helper()
	e := models.AuditLogEntry{ID: primitive.NewObjectID(), GuildID: guildID, Type: typ, UserID: userID, Timestamp: at}
	f.insert(ctx, models.CollAuditLogs, e)
	return e
}

// Heartbeat writes a bot heartbeat seen at the given time.
func (f *Fixtures) Heartbeat(ctx context.Context, at time.Time) {
	f.t.Helper()
	f.insert(ctx, models.CollSystemStatus, models.SystemStatus{ID: primitive.NewObjectID(), LastSeen: at})
}
