package xid

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"net/netip"
	"os"
	"strconv"
)

// 测试替换点。
var (
	osHostname        = os.Hostname
	netInterfaceAddrs = net.InterfaceAddrs
)

const (
	// EnvMachineID 直接指定机器 ID（0-65535）。
	EnvMachineID = "XBOOT_MACHINE_ID"
	// EnvPodName 由 K8s Downward API 注入的 Pod 名称。
	EnvPodName = "POD_NAME"
	// EnvHostname 主机名环境变量。
	EnvHostname = "HOSTNAME"
)

// DefaultMachineID 按以下顺序获取机器 ID：
//
//  1. XBOOT_MACHINE_ID 环境变量
//  2. POD_NAME 的哈希
//  3. HOSTNAME 的哈希
//  4. os.Hostname() 的哈希
//  5. 私有 IPv4 地址的低 16 位
//
// 策略 2-4 存在哈希碰撞的可能，多实例部署时应显式设置 XBOOT_MACHINE_ID。
func DefaultMachineID() (uint16, error) {
	if s := os.Getenv(EnvMachineID); s != "" {
		id, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("xid: invalid %s value %q: %w", EnvMachineID, s, err)
		}
		return uint16(id), nil
	}
	for _, env := range []string{EnvPodName, EnvHostname} {
		if v := os.Getenv(env); v != "" {
			return hashToMachineID(v), nil
		}
	}

	hostname, hostErr := osHostname()
	if hostErr == nil && hostname == "" {
		hostErr = errors.New("os.Hostname returned empty string")
	}
	if hostErr == nil {
		return hashToMachineID(hostname), nil
	}

	ip, err := privateIPv4()
	if err != nil {
		return 0, fmt.Errorf("xid: all machine ID strategies exhausted (hostname: %v): %w", hostErr, err)
	}
	b := ip.As4()
	return uint16(b[2])<<8 | uint16(b[3]), nil
}

// hashToMachineID 对 FNV-1a 32 位哈希做 XOR 折叠得到 16 位。
func hashToMachineID(s string) uint16 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	b := h.Sum(nil)
	return (uint16(b[0])<<8 | uint16(b[1])) ^ (uint16(b[2])<<8 | uint16(b[3]))
}

func privateIPv4() (netip.Addr, error) {
	addrs, err := netInterfaceAddrs()
	if err != nil {
		return netip.Addr{}, err
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip, ok := netip.AddrFromSlice(ipnet.IP)
		if !ok {
			continue
		}
		ip = ip.Unmap()
		if ip.Is4() && !ip.IsLoopback() && (ip.IsPrivate() || ip.IsLinkLocalUnicast()) {
			return ip, nil
		}
	}
	return netip.Addr{}, ErrNoPrivateAddress
}
