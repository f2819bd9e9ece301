//go:build integration
// +build integration

// 测试框架的全局设置和清理
package framework

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// BinaryPath 编译后的守护进程二进制路径，由 BuildDaemon 设置
var BinaryPath string

// BuildDaemon 编译守护进程二进制（在 TestMain 中调用一次）
// SQLite 驱动为纯 Go 实现，关闭 cgo 编译即可
func BuildDaemon() error {
	tmpDir, err := os.MkdirTemp("", DaemonBinaryName+"-bin-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	output := filepath.Join(tmpDir, executableName(DaemonBinaryName))

	cmd := exec.Command("go", "build", "-trimpath", "-o", output, daemonMainPackage)
	cmd.Dir = moduleRoot()
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmpDir)
		return fmt.Errorf("failed to build %s from %s: %w", DaemonBinaryName, daemonMainPackage, err)
	}

	BinaryPath = output
	return nil
}

// Cleanup 清理构建的二进制（在 TestMain 结束时调用）
func Cleanup() {
	if BinaryPath != "" {
		os.RemoveAll(filepath.Dir(BinaryPath))
		BinaryPath = ""
	}
}

// RequireDaemonBinary 检查二进制是否已构建
func RequireDaemonBinary(t *testing.T) {
	t.Helper()
	if BinaryPath == "" {
		t.Fatal("daemon binary not built, call BuildDaemon() in TestMain first")
	}
	if _, err := os.Stat(BinaryPath); err != nil {
		t.Fatalf("daemon binary unavailable at %s: %v", BinaryPath, err)
	}
}

// moduleRoot 模块根目录（本文件位于 test/integration/framework）
func moduleRoot() string {
	_, currentFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(currentFile), "..", "..", "..")
}

// executableName 按平台补全可执行文件扩展名
func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
