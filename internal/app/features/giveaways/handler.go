// internal/app/features/giveaways/handler.go
package giveaways

import (
	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	giveawaystore "github.com/dalemusser/guildhub/internal/app/store/giveaways"
	"github.com/dalemusser/guildhub/internal/app/store/queue"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the giveaways of one guild.
type Handler struct {
	Giveaways *giveawaystore.Store
	Queue     *queue.Producer
	Guard     *submitguard.Guard
	ErrLog    *uierrors.ErrorLogger
	Log       *zap.Logger
}

// NewHandler constructs a giveaways Handler.
func NewHandler(db *mongo.Database, guard *submitguard.Guard, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Giveaways: giveawaystore.New(db),
		Queue:     queue.NewProducer(db, logger),
		Guard:     guard,
		ErrLog:    errLog,
		Log:       logger,
	}
}
