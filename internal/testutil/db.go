package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoURIEnv points tests at an existing MongoDB instead of a container.
const MongoURIEnv = "GUILDHUB_TEST_MONGO_URI"

var (
	containerOnce sync.Once
	containerURI  string
	containerErr  error
	stopContainer func(context.Context) error
)

// TestContext returns a context with a timeout suitable for store tests.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB returns a fresh database that is dropped when the test ends.
// It uses GUILDHUB_TEST_MONGO_URI when set, otherwise a shared MongoDB
// container. The test is skipped when neither is available or with -short.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB test in -short mode")
	}

	uri, err := mongoURI()
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	ctx, cancel := TestContext()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("MongoDB connect failed: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("MongoDB ping failed: %v", err)
	}

	name := "guildhub_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	db := client.Database(name)

	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func mongoURI() (string, error) {
	if uri := os.Getenv(MongoURIEnv); uri != "" {
		return uri, nil
	}
	containerOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				containerErr = fmt.Errorf("container runtime: %v", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		c, err := mongodb.Run(ctx, "mongo:7")
		if err != nil {
			containerErr = err
			return
		}
		stopContainer = func(ctx context.Context) error { return c.Terminate(ctx) }
		containerURI, containerErr = c.ConnectionString(ctx)
	})
	return containerURI, containerErr
}

// Runner is the part of *testing.M that RunMain needs.
type Runner interface {
	Run() int
}

// RunMain runs the package's tests and then terminates the shared MongoDB
// container if one was started. Packages that use SetupTestDB call it from
// TestMain:
//
//	func TestMain(m *testing.M) { os.Exit(testutil.RunMain(m)) }
func RunMain(m Runner) int {
	code := m.Run()
	if err := StopContainer(); err != nil {
		fmt.Fprintf(os.Stderr, "testutil: terminate MongoDB container: %v\n", err)
	}
	return code
}

// StopContainer terminates the shared MongoDB container. It is a no-op when
// no container was started or it was already stopped.
func StopContainer() error {
	if stopContainer == nil {
		return nil
	}
	stop := stopContainer
	stopContainer = nil

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return stop(ctx)
}
