// internal/app/features/scheduled/handler.go
package scheduled

import (
	uierrors "github.com/dalemusser/guildhub/internal/app/features/errors"
	"github.com/dalemusser/guildhub/internal/app/store/queue"
	scheduledstore "github.com/dalemusser/guildhub/internal/app/store/scheduled"
	"github.com/dalemusser/guildhub/internal/app/system/submitguard"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves scheduled messages. Creates go through the queue
// producer; edits re-arm the message in place.
type Handler struct {
	Messages *scheduledstore.Store
	Queue    *queue.Producer
	Guard    *submitguard.Guard
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, guard *submitguard.Guard, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Messages: scheduledstore.New(db),
		Queue:    queue.NewProducer(db, logger),
		Guard:    guard,
		ErrLog:   errLog,
		Log:      logger,
	}
}
