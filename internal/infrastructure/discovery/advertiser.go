package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"sync"

	"github.com/grandcat/zeroconf"

	"github.com/tasklive/backend/internal/infrastructure/log"
)

const (
	// ServiceType mDNS 服务类型
	ServiceType = "_tasklive._tcp"
	// Domain mDNS 域
	Domain = "local."
)

// ServiceInfo 广播的服务信息
type ServiceInfo struct {
	InstanceName string
	Port         int
	TxtRecords   map[string]string
}

// registerFunc 与 zeroconf.Register 签名一致，测试中可替换
type registerFunc func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (*zeroconf.Server, error)

// Advertiser mDNS 服务广播器，局域网内的客户端据此发现任务服务地址
type Advertiser struct {
	mu       sync.Mutex
	server   *zeroconf.Server
	info     *ServiceInfo
	running  bool
	register registerFunc
	logger   *slog.Logger
}

// NewAdvertiser 创建 mDNS 广播器
func NewAdvertiser() *Advertiser {
	return &Advertiser{
		register: zeroconf.Register,
		logger:   log.NewModuleLogger("discovery", "mdns_advertiser"),
	}
}

// Start 开始广播服务
func (a *Advertiser) Start(info ServiceInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("advertiser is already running")
	}
	if info.Port <= 0 {
		return fmt.Errorf("invalid port: %d", info.Port)
	}

	txtRecords := buildTxtRecords(info.TxtRecords)

	a.logger.Info("starting mDNS advertiser",
		"instance", info.InstanceName,
		"port", info.Port,
		"txt_records", txtRecords,
	)

	server, err := a.register(info.InstanceName, ServiceType, Domain, info.Port, txtRecords, nil)
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	a.server = server
	a.info = &info
	a.running = true

	a.logger.Info("mDNS advertiser started", "name", info.InstanceName)
	return nil
}

// Stop 停止广播
func (a *Advertiser) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	a.running = false
	a.info = nil

	a.logger.Info("mDNS advertiser stopped")
	return nil
}

// IsRunning 是否正在广播
func (a *Advertiser) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// GetInfo 获取当前广播的服务信息
func (a *Advertiser) GetInfo() *ServiceInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.info == nil {
		return nil
	}
	infoCopy := *a.info
	return &infoCopy
}

// BuildServiceInfo 构建服务信息
func BuildServiceInfo(instanceName string, port int, version string) ServiceInfo {
	return ServiceInfo{
		InstanceName: instanceName,
		Port:         port,
		TxtRecords: map[string]string{
			"version":   version,
			"api":       "/api/v1",
			"live":      "/api/v1/tasks/live",
			"http_port": strconv.Itoa(port),
		},
	}
}

// buildTxtRecords 按键排序生成 TXT 记录
func buildTxtRecords(records map[string]string) []string {
	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	txt := make([]string, 0, len(keys))
	for _, k := range keys {
		txt = append(txt, fmt.Sprintf("%s=%s", k, records[k]))
	}
	return txt
}

// PortFromAddr 从 ":19970" 或 "127.0.0.1:19970" 形式的地址解析端口
func PortFromAddr(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("failed to parse address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return port, nil
}
