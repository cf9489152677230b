package metrics

import (
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

var sysinfo = unix.Sysinfo

// Uptime returns the time since boot.
func Uptime() (time.Duration, error) {
	var info unix.Sysinfo_t
	if err := sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	return time.Duration(info.Uptime) * time.Second, nil
}

// FormatUptime renders d as "3d 4h 12m 5s", dropping leading zero units.
func FormatUptime(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d <= 0 {
		return "0s"
	}

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	secs := d / time.Second

	var parts []string
	started := false
	for _, u := range []struct {
		n      time.Duration
		suffix string
	}{{days, "d"}, {hours, "h"}, {mins, "m"}, {secs, "s"}} {
		if u.n == 0 && !started {
			continue
		}
		started = true
		parts = append(parts, fmt.Sprintf("%d%s", u.n, u.suffix))
	}
	return strings.Join(parts, " ")
}

// interfaceAddrs is swapped in tests.
var interfaceAddrs = net.InterfaceAddrs

// IPv4Addresses returns the host's non-loopback IPv4 addresses.
func IPv4Addresses() ([]string, error) {
	addrs, err := interfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("list interface addresses: %w", err)
	}
	var out []string
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			out = append(out, v4.String())
		}
	}
	return out, nil
}
