package wire

import (
	"bytes"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklive/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRunStopSteps_ContinuesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	errHTTP := errors.New("http shutdown timed out")
	errDB := errors.New("db close failed")
	var ran []string
	step := func(name string, err error) stopStep {
		return stopStep{name, func() error {
			ran = append(ran, name)
			return err
		}}
	}

	err := runStopSteps(logger, []stopStep{
		step("advertiser", nil),
		step("http", errHTTP),
		step("service", nil),
		step("db", errDB),
	})

	assert.ErrorIs(t, err, errHTTP, "返回第一个错误")
	assert.Equal(t, []string{"advertiser", "http", "service", "db"}, ran, "失败后仍需执行后续步骤")
	assert.Contains(t, buf.String(), "Failed to stop http")
	assert.Contains(t, buf.String(), "Failed to stop db")
}

func TestApp_StartAndStop(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = filepath.Join(t.TempDir(), "tasklive.db")
	cfg.Discovery.Enabled = false

	app, err := InitializeAll(cfg)
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, app.Start(listener))

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, app.Stop())

	// 数据库连接已释放
	assert.Error(t, app.db.Ping())
}
