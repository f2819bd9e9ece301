package discovery

import (
	"errors"
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTxtRecords(t *testing.T) {
	txt := buildTxtRecords(map[string]string{"version": "1.0", "api": "/api/v1"})
	assert.Equal(t, []string{"api=/api/v1", "version=1.0"}, txt)
}

func TestBuildServiceInfo(t *testing.T) {
	info := BuildServiceInfo("desk", 19970, "dev")
	assert.Equal(t, "desk", info.InstanceName)
	assert.Equal(t, 19970, info.Port)
	assert.Equal(t, "19970", info.TxtRecords["http_port"])
	assert.Equal(t, "/api/v1/tasks/live", info.TxtRecords["live"])
}

func TestPortFromAddr(t *testing.T) {
	port, err := PortFromAddr(":19970")
	require.NoError(t, err)
	assert.Equal(t, 19970, port)

	port, err = PortFromAddr("127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	_, err = PortFromAddr("19970")
	assert.Error(t, err)
	_, err = PortFromAddr(":http")
	assert.Error(t, err)
}

func TestAdvertiser_Lifecycle(t *testing.T) {
	var gotService string
	var gotTxt []string
	a := NewAdvertiser()
	a.register = func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (*zeroconf.Server, error) {
		gotService = service
		gotTxt = text
		return nil, nil
	}

	require.NoError(t, a.Start(BuildServiceInfo("desk", 19970, "dev")))
	assert.True(t, a.IsRunning())
	assert.Equal(t, ServiceType, gotService)
	assert.Contains(t, gotTxt, "version=dev")
	assert.Equal(t, "desk", a.GetInfo().InstanceName)

	assert.Error(t, a.Start(BuildServiceInfo("desk", 19970, "dev")), "重复启动应报错")

	require.NoError(t, a.Stop())
	require.NoError(t, a.Stop())
	assert.False(t, a.IsRunning())
	assert.Nil(t, a.GetInfo())
}

func TestAdvertiser_StartErrors(t *testing.T) {
	a := NewAdvertiser()
	assert.Error(t, a.Start(ServiceInfo{InstanceName: "x", Port: 0}))

	a.register = func(string, string, string, int, []string, []net.Interface) (*zeroconf.Server, error) {
		return nil, errors.New("no multicast")
	}
	err := a.Start(BuildServiceInfo("x", 1, "dev"))
	assert.ErrorContains(t, err, "no multicast")
	assert.False(t, a.IsRunning())
}
