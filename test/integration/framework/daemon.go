//go:build integration
// +build integration

// TestDaemon 管理独立 tasklive 守护进程的启动与关闭
package framework

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DaemonBinaryName 编译出的守护进程文件名（不含扩展名）
	DaemonBinaryName = "tasklive-daemon"
	// daemonMainPackage 守护进程入口，相对于模块根目录
	daemonMainPackage = "./cmd/server"
)

// TestDaemon 测试守护进程
type TestDaemon struct {
	Name     string // 角色名称（如 "primary", "restarted"）
	HTTPPort int    // HTTP 端口
	DataDir  string // 数据目录（隔离）

	cmd     *exec.Cmd
	baseURL string
}

// DaemonOption 守护进程配置选项
type DaemonOption func(*TestDaemon)

// WithDataDir 复用已有数据目录（用于重启场景）
func WithDataDir(dir string) DaemonOption {
	return func(d *TestDaemon) {
		d.DataDir = dir
	}
}

// WithHTTPPort 使用指定端口（用于单例锁场景）
func WithHTTPPort(port int) DaemonOption {
	return func(d *TestDaemon) {
		d.HTTPPort = port
	}
}

// NewTestDaemon 创建测试守护进程
func NewTestDaemon(binaryPath, name string, opts ...DaemonOption) (*TestDaemon, error) {
	// 分配空闲端口
	httpPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate HTTP port: %w", err)
	}

	d := &TestDaemon{
		Name:     name,
		HTTPPort: httpPort,
	}

	for _, opt := range opts {
		opt(d)
	}
	d.baseURL = fmt.Sprintf("http://127.0.0.1:%d", d.HTTPPort)

	// 创建隔离的数据目录
	if d.DataDir == "" {
		dataDir, err := os.MkdirTemp("", fmt.Sprintf("tasklive-test-%s-", name))
		if err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		d.DataDir = dataDir
	}

	d.cmd = newDaemonCommand(binaryPath, d.DataDir, d.HTTPPort)
	return d, nil
}

// newDaemonCommand 构建进程命令
func newDaemonCommand(binaryPath, dataDir string, httpPort int) *exec.Cmd {
	cmd := exec.Command(binaryPath)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("TASKLIVE_DATA_DIR=%s", dataDir),
		fmt.Sprintf("TASKLIVE_HTTP_PORT=:%d", httpPort),
		"GIN_MODE=test",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Start 启动守护进程并等待就绪
func (d *TestDaemon) Start() error {
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}

	// 等待 health 端点就绪
	return d.waitForReady(30 * time.Second)
}

// RunUntilExit 启动进程并等待其自行退出，返回退出码
func (d *TestDaemon) RunUntilExit(timeout time.Duration) (int, error) {
	if err := d.cmd.Start(); err != nil {
		return -1, fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- d.cmd.Wait()
	}()

	select {
	case <-done:
		return d.cmd.ProcessState.ExitCode(), nil
	case <-time.After(timeout):
		_ = d.cmd.Process.Kill()
		<-done
		return -1, fmt.Errorf("daemon %s did not exit within %v", d.Name, timeout)
	}
}

// Stop 停止守护进程并清理数据目录
func (d *TestDaemon) Stop() error {
	return d.StopWithCleanup(true)
}

// StopWithCleanup 停止守护进程，可选择是否清理数据目录
func (d *TestDaemon) StopWithCleanup(cleanup bool) error {
	if d.cmd.Process != nil {
		// 发送关闭信号
		_ = d.cmd.Process.Signal(os.Interrupt)

		// 等待进程退出（最多 5 秒）
		done := make(chan error, 1)
		go func() {
			done <- d.cmd.Wait()
		}()

		select {
		case <-done:
			// 正常退出
		case <-time.After(5 * time.Second):
			// 强制杀进程
			_ = d.cmd.Process.Kill()
			<-done
		}
	}

	// 可选清理数据目录
	if cleanup {
		return os.RemoveAll(d.DataDir)
	}
	return nil
}

// BaseURL 返回 HTTP 基础 URL
func (d *TestDaemon) BaseURL() string {
	return d.baseURL
}

// waitForReady 等待守护进程 health 端点就绪
func (d *TestDaemon) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := resty.New().SetTimeout(2 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.R().Get(d.baseURL + "/health")
		if err == nil && resp.StatusCode() == 200 {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}

	return fmt.Errorf("daemon %s failed to become ready within %v", d.Name, timeout)
}

// getFreePort 获取一个空闲的 TCP 端口
func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
