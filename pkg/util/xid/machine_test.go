package xid

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearMachineEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvMachineID, "")
	t.Setenv(EnvPodName, "")
	t.Setenv(EnvHostname, "")
}

func stubHostname(t *testing.T, name string, err error) {
	t.Helper()
	orig := osHostname
	osHostname = func() (string, error) { return name, err }
	t.Cleanup(func() { osHostname = orig })
}

func stubAddrs(t *testing.T, addrs []net.Addr, err error) {
	t.Helper()
	orig := netInterfaceAddrs
	netInterfaceAddrs = func() ([]net.Addr, error) { return addrs, err }
	t.Cleanup(func() { netInterfaceAddrs = orig })
}

func TestDefaultMachineID_Env(t *testing.T) {
	clearMachineEnv(t)

	t.Setenv(EnvMachineID, "65535")
	id, err := DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), id)

	t.Setenv(EnvMachineID, "65536")
	_, err = DefaultMachineID()
	assert.Error(t, err)

	t.Setenv(EnvMachineID, "abc")
	_, err = DefaultMachineID()
	assert.ErrorContains(t, err, EnvMachineID)
}

func TestDefaultMachineID_Hashes(t *testing.T) {
	clearMachineEnv(t)
	stubHostname(t, "", errors.New("unused"))

	t.Setenv(EnvPodName, "orders-7d9f-abcde")
	id, err := DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, hashToMachineID("orders-7d9f-abcde"), id)

	t.Setenv(EnvPodName, "")
	t.Setenv(EnvHostname, "host-a")
	id, err = DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, hashToMachineID("host-a"), id)
}

func TestDefaultMachineID_OSHostname(t *testing.T) {
	clearMachineEnv(t)
	stubHostname(t, "box-1", nil)

	id, err := DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, hashToMachineID("box-1"), id)
}

func TestDefaultMachineID_PrivateIP(t *testing.T) {
	clearMachineEnv(t)
	stubHostname(t, "", nil)
	stubAddrs(t, []net.Addr{
		&net.IPAddr{IP: net.ParseIP("10.0.0.1")},
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("8.8.8.8"), Mask: net.CIDRMask(24, 32)},
		&net.IPNet{IP: net.ParseIP("192.168.3.4"), Mask: net.CIDRMask(24, 32)},
	}, nil)

	id, err := DefaultMachineID()
	require.NoError(t, err)
	assert.Equal(t, uint16(3<<8|4), id)
}

func TestDefaultMachineID_Exhausted(t *testing.T) {
	clearMachineEnv(t)
	stubHostname(t, "", errors.New("uts denied"))
	stubAddrs(t, nil, nil)

	_, err := DefaultMachineID()
	assert.ErrorIs(t, err, ErrNoPrivateAddress)
	assert.ErrorContains(t, err, "uts denied")

	addrErr := errors.New("netlink")
	stubAddrs(t, nil, addrErr)
	_, err = DefaultMachineID()
	assert.ErrorIs(t, err, addrErr)
}

func TestHashToMachineID_Stable(t *testing.T) {
	assert.Equal(t, hashToMachineID("x"), hashToMachineID("x"))
	assert.NotEqual(t, hashToMachineID("pod-a"), hashToMachineID("pod-b"))
}
