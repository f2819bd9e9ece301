package singleton

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklive/backend/internal/infrastructure/log"
)

func TestCheckAndLock_PortAvailable(t *testing.T) {
	// 使用随机可用端口
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := listener.Addr().String()
	listener.Close()

	// 测试端口可用的情况
	result, err := CheckAndLock(port)
	require.NoError(t, err)
	require.NotNil(t, result)
	defer result.Close()

	// 验证返回的 listener 可以正常使用
	assert.NotNil(t, result)
}

func TestCheckAndLock_PortInUse_HealthyInstance(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	server := httptest.NewUnstartedServer(healthHandler(log.ServiceName))
	server.Listener.Close()
	server.Listener = listener
	server.Start()
	defer server.Close()

	// 已有健康实例时返回 nil listener 与 nil error
	result, err := CheckAndLock(listener.Addr().String())
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestCheckAndLock_PortInUse_UnhealthyInstance(t *testing.T) {
	// 创建一个监听端口但不提供健康检查的服务器
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := listener.Addr().String()
	// 不关闭 listener，保持端口占用

	// 测试端口被占用但实例不健康的情况
	result, err := CheckAndLock(port)
	// 应该返回错误
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "健康检查失败")

	// 清理
	listener.Close()
}

func TestIsAddrInUse(t *testing.T) {
	tests := []struct {
		name    string
		setup   func() error
		wantErr bool
	}{
		{
			name: "地址已在使用",
			setup: func() error {
				// 创建一个 listener 占用端口
				l1, err := net.Listen("tcp", ":0")
				if err != nil {
					return err
				}
				port := l1.Addr().String()

				// 尝试再次监听同一端口
				_, err = net.Listen("tcp", port)
				l1.Close()
				return err
			},
			wantErr: true,
		},
		{
			name: "其他错误",
			setup: func() error {
				// 无效的地址格式
				_, err := net.Listen("tcp", "invalid")
				return err
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup()
			if tt.wantErr {
				assert.True(t, isAddrInUse(err), "应该检测到地址已在使用")
			} else {
				assert.False(t, isAddrInUse(err), "不应该检测为地址已在使用")
			}
		})
	}
}

func healthHandler(service string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","service":"` + service + `"}`))
	})
}

func serverPort(t *testing.T, server *httptest.Server) string {
	t.Helper()
	_, port, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)
	return ":" + port
}

func TestIsInstanceRunning(t *testing.T) {
	t.Run("实例正常运行", func(t *testing.T) {
		server := httptest.NewServer(healthHandler(log.ServiceName))
		defer server.Close()

		assert.True(t, isInstanceRunning(serverPort(t, server)), "应该检测到实例在运行")
	})

	t.Run("其他服务占用端口", func(t *testing.T) {
		server := httptest.NewServer(healthHandler("someone-else"))
		defer server.Close()

		assert.False(t, isInstanceRunning(serverPort(t, server)), "非 tasklive 服务不应视为实例")
	})

	t.Run("实例不存在", func(t *testing.T) {
		assert.False(t, isInstanceRunning(":99999"), "不应该检测到实例在运行")
	})

	t.Run("实例返回非200状态码", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		assert.False(t, isInstanceRunning(serverPort(t, server)), "非200状态码不应视为实例健康")
	})

	t.Run("地址格式错误", func(t *testing.T) {
		assert.False(t, isInstanceRunning("19970"))
	})
}
