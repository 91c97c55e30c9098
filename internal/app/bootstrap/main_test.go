package bootstrap

import (
	"os"
	"testing"

	"github.com/dalemusser/guildhub/internal/testutil"
)

func TestMain(m *testing.M) { os.Exit(testutil.RunMain(m)) }
