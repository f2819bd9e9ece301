package singleton

import (
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tasklive/backend/internal/infrastructure/log"
)

const (
	// DefaultPort 默认监听端口
	DefaultPort = ":19970"
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
)

// healthResponse /health 响应体
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// CheckAndLock 检查端口是否被占用，如果被占用则检查是否有实例在运行
// 返回 listener 和 error
// 如果已有实例运行，返回 nil listener 和 nil error（调用者应退出）
// 如果端口被占用但实例不健康，返回错误
func CheckAndLock(port string) (net.Listener, error) {
	listener, err := net.Listen("tcp", port)
	if err == nil {
		return listener, nil
	}

	if isAddrInUse(err) {
		if isInstanceRunning(port) {
			// 已有实例运行，返回 nil 表示应该退出
			return nil, nil
		}
		return nil, fmt.Errorf("端口 %s 被占用，但健康检查失败，可能被其他程序占用", port)
	}

	return nil, fmt.Errorf("监听端口失败: %w", err)
}

// isAddrInUse 检查错误是否是地址已在使用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	if errStr == "bind: address already in use" ||
		errStr == "bind: Only one usage of each socket address (protocol/network address/port) is normally permitted" {
		return true
	}

	opErr, ok := err.(*net.OpError)
	if !ok {
		return false
	}

	sysErr, ok := opErr.Err.(*os.SyscallError)
	if !ok {
		return false
	}

	errno, ok := sysErr.Err.(syscall.Errno)
	if ok {
		// Windows: WSAEADDRINUSE (10048)
		// Linux/Unix: EADDRINUSE (98)
		return errno == 10048 || errno == syscall.EADDRINUSE
	}

	errStr = sysErr.Err.Error()
	return errStr == "address already in use" ||
		errStr == "Only one usage of each socket address (protocol/network address/port) is normally permitted"
}

// isInstanceRunning 检查端口上是否运行着健康的 tasklive 实例
func isInstanceRunning(port string) bool {
	_, p, err := net.SplitHostPort(port)
	if err != nil {
		return false
	}

	var body healthResponse
	resp, err := resty.New().
		SetTimeout(HealthCheckTimeout).
		R().
		SetResult(&body).
		Get(fmt.Sprintf("http://127.0.0.1:%s/health", p))
	if err != nil {
		// 请求失败，说明实例不在运行或不可访问
		return false
	}

	if resp.StatusCode() != 200 || body.Service != log.ServiceName {
		log.NewModuleLogger("singleton", "lock").Warn("port is held by an unknown process",
			"port", port,
			"status", resp.StatusCode(),
			"service", body.Service,
		)
		return false
	}
	return true
}
